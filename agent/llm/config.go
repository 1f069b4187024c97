package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/roamfit/roamfit/agent/contract"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"gpt-4o-mini"`
	VisionModel        string        `envconfig:"VISION_MODEL" split_words:"true" default:"gpt-4o"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`

	DetectionModel  string `envconfig:"DETECTION_MODEL" split_words:"true"`
	SummaryModel    string `envconfig:"SUMMARY_MODEL" split_words:"true"`
	GenerationModel string `envconfig:"GENERATION_MODEL" split_words:"true"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openai api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// TextModelFor returns the text-completion model for a capability, honoring
// per-capability overrides.
func (c Config) TextModelFor(capability string) string {
	switch capability {
	case contractx.CapabilitySummary:
		if v := strings.TrimSpace(c.SummaryModel); v != "" {
			return v
		}
	case contractx.CapabilityGeneration:
		if v := strings.TrimSpace(c.GenerationModel); v != "" {
			return v
		}
	}
	return strings.TrimSpace(c.Model)
}

// VisionModelFor returns the vision-completion model for a capability.
func (c Config) VisionModelFor(capability string) string {
	if capability == contractx.CapabilityDetection {
		if v := strings.TrimSpace(c.DetectionModel); v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(c.VisionModel); v != "" {
		return v
	}
	return strings.TrimSpace(c.Model)
}

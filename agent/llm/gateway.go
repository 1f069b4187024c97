// Package llm wraps the OpenAI chat completion API behind the gateway
// contract used by the capabilities: prompt in, text out, every call logged.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"

	contractx "github.com/roamfit/roamfit/agent/contract"
	storex "github.com/roamfit/roamfit/agent/store"
)

// Gateway is the opaque LLM call contract: prompt in, text out.
type Gateway interface {
	CompleteText(ctx context.Context, capability string, prompt string) (string, error)
	CompleteVision(ctx context.Context, capability string, image []byte, prompt string) (string, error)
}

// CallLogger receives one record per gateway invocation.
type CallLogger interface {
	LogCall(ctx context.Context, rec storex.CallRecord) (int64, error)
}

// OpenAIGateway implements Gateway on the OpenAI SDK.
type OpenAIGateway struct {
	client *openaisdk.Client
	cfg    Config
	logs   CallLogger
	now    func() time.Time
}

var _ Gateway = (*OpenAIGateway)(nil)

func NewGateway(cfg Config, logs CallLogger) (*OpenAIGateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}

	client := openaisdk.NewClient(opts...)
	return &OpenAIGateway{
		client: &client,
		cfg:    cfg,
		logs:   logs,
		now:    time.Now,
	}, nil
}

func (g *OpenAIGateway) CompleteText(ctx context.Context, capability string, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is empty", contractx.ErrValidation)
	}

	model := g.cfg.TextModelFor(capability)
	messages := []openaisdk.ChatCompletionMessageParamUnion{
		openaisdk.UserMessage(prompt),
	}
	return g.complete(ctx, capability, model, messages)
}

func (g *OpenAIGateway) CompleteVision(ctx context.Context, capability string, image []byte, prompt string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: image is empty", contractx.ErrValidation)
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is empty", contractx.ErrValidation)
	}

	model := g.cfg.VisionModelFor(capability)
	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	messages := []openaisdk.ChatCompletionMessageParamUnion{
		openaisdk.UserMessage([]openaisdk.ChatCompletionContentPartUnionParam{
			openaisdk.TextContentPart(prompt),
			openaisdk.ImageContentPart(openaisdk.ChatCompletionContentPartImageImageURLParam{
				URL: dataURI,
			}),
		}),
	}
	return g.complete(ctx, capability, model, messages)
}

func (g *OpenAIGateway) complete(
	ctx context.Context,
	capability string,
	model string,
	messages []openaisdk.ChatCompletionMessageParamUnion,
) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(model),
		Messages: messages,
	}
	if g.cfg.MaxCompletionToken > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(g.cfg.MaxCompletionToken))
	}
	params.Temperature = openaisdk.Float(float64(g.cfg.Temperature))

	start := g.now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	latency := g.now().Sub(start).Milliseconds()

	if err != nil {
		classified := classifyProviderError(err)
		g.record(ctx, storex.CallRecord{
			Capability: capability,
			Model:      model,
			Status:     storex.StatusFailed,
			LatencyMS:  latency,
			Error:      classified.Error(),
		})
		return "", classified
	}

	tokensIn := int(resp.Usage.PromptTokens)
	tokensOut := int(resp.Usage.CompletionTokens)

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	g.record(ctx, storex.CallRecord{
		Capability: capability,
		Model:      model,
		Status:     storex.StatusSuccess,
		TokensIn:   tokensIn,
		TokensOut:  tokensOut,
		LatencyMS:  latency,
	})

	log.Debug().
		Str("capability", capability).
		Str("model", model).
		Int("tokens_in", tokensIn).
		Int("tokens_out", tokensOut).
		Int64("latency_ms", latency).
		Msg("llm call succeeded")

	return text, nil
}

// record writes the call log entry. Logging failures must never fail the
// gateway call itself.
func (g *OpenAIGateway) record(ctx context.Context, rec storex.CallRecord) {
	if g.logs == nil {
		return
	}
	if _, err := g.logs.LogCall(ctx, rec); err != nil {
		log.Warn().Err(err).
			Str("capability", rec.Capability).
			Msg("failed to persist call log")
	}
}

func classifyProviderError(err error) error {
	var apierr *openaisdk.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", contractx.ErrAuth, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", contractx.ErrRateLimited, err)
		}
	}
	return fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
}

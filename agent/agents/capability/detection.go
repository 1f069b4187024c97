package capability

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/roamfit/roamfit/agent/contract"
	llmx "github.com/roamfit/roamfit/agent/llm"
	promptx "github.com/roamfit/roamfit/agent/prompt"
	storex "github.com/roamfit/roamfit/agent/store"
	validatex "github.com/roamfit/roamfit/agent/validate"
)

// Detection identifies fitness equipment in an image via the vision model.
// Every detection attempt is persisted, including parse failures, so the
// audit trail is complete.
type Detection struct {
	gateway llmx.Gateway
	store   storex.Store
	prompts promptx.PromptSet
}

var _ contractx.Detector = (*Detection)(nil)

func NewDetection(gateway llmx.Gateway, store storex.Store) *Detection {
	return &Detection{
		gateway: gateway,
		store:   store,
		prompts: promptx.LoadPromptSet(),
	}
}

func (d *Detection) Detect(ctx context.Context, image []byte, imageRef, location string) (contractx.DetectionResult, error) {
	if len(image) == 0 {
		return contractx.DetectionResult{}, fmt.Errorf("%w: image is required", contractx.ErrValidation)
	}
	if err := validatex.Image(image, imageRef); err != nil {
		return contractx.DetectionResult{}, err
	}

	raw, err := d.gateway.CompleteVision(ctx, contractx.CapabilityDetection, image, d.prompts.Detection)
	if err != nil {
		return contractx.DetectionResult{}, fmt.Errorf("equipment detection failed: %w", err)
	}

	equipment, parseErr := parseDetectedEquipment(raw)
	if parseErr != nil {
		log.Warn().Err(parseErr).Str("image_ref", imageRef).Msg("detection response unparseable, degrading")
		equipment = []string{}
	}

	detectionID, err := d.store.CreateDetection(ctx, imageRef, equipment, location)
	if err != nil {
		return contractx.DetectionResult{}, fmt.Errorf("equipment detection failed: %w", err)
	}

	result := contractx.DetectionResult{
		Equipment:   equipment,
		DetectionID: detectionID,
		ImageRef:    imageRef,
		Location:    location,
	}
	if parseErr != nil {
		result.Err = fmt.Sprintf("failed to parse detection response: %v", parseErr)
	}
	return result, nil
}

func parseDetectedEquipment(raw string) ([]string, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrSchemaViolation, err)
	}

	// A missing or non-list equipment field coerces to an empty list.
	items, ok := parsed["equipment"].([]any)
	if !ok {
		return []string{}, nil
	}

	equipment := make([]string, 0, len(items))
	for _, item := range items {
		if name, ok := item.(string); ok && name != "" {
			equipment = append(equipment, name)
		}
	}
	return equipment, nil
}

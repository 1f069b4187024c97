package orchestratornode

import (
	"fmt"
	"time"

	contractx "github.com/roamfit/roamfit/agent/contract"
	validatex "github.com/roamfit/roamfit/agent/validate"
)

// GraphInput starts the generate-workout graph: either an image to run
// detection on, or an explicit equipment list.
type GraphInput struct {
	Image        []byte
	ImageRef     string
	Equipment    []string
	Location     string
	HistoryLimit int
	SkipHistory  bool
	Save         bool
}

// GraphState flows through every node. Err records a workflow failure; once
// set, the remaining nodes pass the state through untouched so the final
// result still carries whatever was gathered before the failure.
type GraphState struct {
	Input GraphInput
	Now   time.Time

	Equipment   []string
	DetectionID *int64
	History     *contractx.HistorySummary
	Plan        *contractx.WorkoutPlan
	SaveError   string

	Err string
}

func (s *GraphState) failed() bool {
	return s != nil && s.Err != ""
}

// ValidateInput rejects a request that carries neither an image nor an
// equipment list, and normalizes any provided equipment names.
func ValidateInput(in GraphInput, now time.Time) (*GraphState, error) {
	state := &GraphState{Input: in, Now: now}

	if len(in.Image) == 0 && len(in.Equipment) == 0 {
		state.Err = "either an image or an equipment list must be provided"
		return state, nil
	}

	if len(in.Equipment) > 0 {
		normalized, err := validatex.EquipmentList(in.Equipment)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
		}
		state.Equipment = normalized
	}

	return state, nil
}

package orchestratornode

import (
	contractx "github.com/roamfit/roamfit/agent/contract"
)

// FinalizeResult folds the graph state into the workflow result. Failures are
// reported through the Err field alongside whatever context was gathered, so
// the node itself never errors.
func FinalizeResult(in *GraphState) (contractx.GenerateWorkoutResult, error) {
	out := contractx.GenerateWorkoutResult{
		Plan:        in.Plan,
		Equipment:   in.Equipment,
		History:     in.History,
		DetectionID: in.DetectionID,
		SaveError:   in.SaveError,
		Err:         in.Err,
	}
	return out, nil
}

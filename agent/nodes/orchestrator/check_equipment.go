package orchestratornode

// CheckEquipment stops the workflow when detection and the request both
// produced an empty equipment list. The state keeps an empty (non-nil) slice
// so the final result reports what was seen.
func CheckEquipment(in *GraphState) (*GraphState, error) {
	if in.failed() {
		return in, nil
	}

	if len(in.Equipment) == 0 {
		in.Equipment = []string{}
		in.Err = "no equipment detected or provided"
	}
	return in, nil
}

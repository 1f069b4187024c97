package orchestratornode

import (
	"context"

	contractx "github.com/roamfit/roamfit/agent/contract"
)

// DetectEquipment runs vision detection when an image was supplied and no
// explicit equipment list overrides it. Detector failures end the workflow
// but the state keeps flowing so diagnostics survive.
func DetectEquipment(ctx context.Context, in *GraphState, detector contractx.Detector) (*GraphState, error) {
	if in.failed() {
		return in, nil
	}
	if len(in.Input.Image) == 0 || len(in.Equipment) > 0 {
		return in, nil
	}

	res, err := detector.Detect(ctx, in.Input.Image, in.Input.ImageRef, in.Input.Location)
	if err != nil {
		in.Err = "equipment detection failed: " + err.Error()
		return in, nil
	}

	in.Equipment = res.Equipment
	if res.DetectionID > 0 {
		id := res.DetectionID
		in.DetectionID = &id
	}
	return in, nil
}

package orchestratornode

import (
	"context"

	contractx "github.com/roamfit/roamfit/agent/contract"
)

// GeneratePlan asks the generator for a plan over the gathered equipment and
// history. Persistence is the generator's concern; a save failure surfaces in
// SaveError without failing the workflow.
func GeneratePlan(ctx context.Context, in *GraphState, generator contractx.Generator) (*GraphState, error) {
	if in.failed() {
		return in, nil
	}

	plan, err := generator.Generate(ctx, contractx.GenerateRequest{
		Equipment: in.Equipment,
		History:   in.History,
		Location:  in.Input.Location,
		Save:      in.Input.Save,
	})
	if err != nil {
		in.Err = "workout generation failed: " + err.Error()
		return in, nil
	}

	in.Plan = &plan
	in.SaveError = plan.SaveError
	return in, nil
}

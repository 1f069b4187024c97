package capability

import (
	"context"
	"fmt"

	contractx "github.com/roamfit/roamfit/agent/contract"
	storex "github.com/roamfit/roamfit/agent/store"
)

// Management performs CRUD over stored workouts. Mutations never return Go
// errors; outcomes are reported through the ManagementResult envelope so a
// missing workout reads as a failed operation, not a fault.
type Management struct {
	store storex.Store
}

var _ contractx.Manager = (*Management)(nil)

func NewManagement(store storex.Store) *Management {
	return &Management{store: store}
}

func (m *Management) List(ctx context.Context, limit int) ([]contractx.WorkoutRecord, error) {
	return m.store.ListWorkouts(ctx, limit)
}

func (m *Management) Get(ctx context.Context, id int64) (*contractx.WorkoutRecord, error) {
	return m.store.GetWorkout(ctx, id)
}

func (m *Management) Edit(ctx context.Context, id int64, patch contractx.WorkoutPatch) contractx.ManagementResult {
	if patch.IsZero() {
		return failure("No fields supplied for workout #%d", id)
	}

	ok, err := m.store.UpdateWorkout(ctx, id, patch)
	if err != nil {
		return failure("Failed to update workout #%d: %v", id, err)
	}
	if !ok {
		return failure("Workout #%d not found", id)
	}

	workout, err := m.store.GetWorkout(ctx, id)
	if err != nil {
		return failure("Failed to read back workout #%d: %v", id, err)
	}
	return contractx.ManagementResult{
		Success: true,
		Message: fmt.Sprintf("Workout #%d updated successfully", id),
		Workout: workout,
	}
}

func (m *Management) Delete(ctx context.Context, id int64) contractx.ManagementResult {
	ok, err := m.store.DeleteWorkout(ctx, id)
	if err != nil {
		return failure("Failed to delete workout #%d: %v", id, err)
	}
	if !ok {
		return failure("Workout #%d not found", id)
	}
	return contractx.ManagementResult{
		Success: true,
		Message: fmt.Sprintf("Workout #%d deleted successfully", id),
	}
}

func (m *Management) MarkComplete(ctx context.Context, id int64, completed bool) contractx.ManagementResult {
	ok, err := m.store.SetCompletion(ctx, id, completed)
	if err != nil {
		return failure("Failed to update workout #%d: %v", id, err)
	}
	if !ok {
		return failure("Workout #%d not found", id)
	}

	state := "completed"
	if !completed {
		state = "incomplete"
	}
	workout, err := m.store.GetWorkout(ctx, id)
	if err != nil {
		workout = nil
	}
	return contractx.ManagementResult{
		Success: true,
		Message: fmt.Sprintf("Workout #%d marked as %s", id, state),
		Workout: workout,
	}
}

func failure(format string, args ...any) contractx.ManagementResult {
	return contractx.ManagementResult{Message: fmt.Sprintf(format, args...)}
}

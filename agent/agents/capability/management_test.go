package capability

import (
	"context"
	"strings"
	"testing"

	contractx "github.com/roamfit/roamfit/agent/contract"
)

func TestDeleteNonexistentWorkout(t *testing.T) {
	t.Parallel()

	m := NewManagement(&fakeStore{})

	result := m.Delete(context.Background(), 42)
	if result.Success {
		t.Fatal("deleting a missing workout must report failure")
	}
	if !strings.Contains(result.Message, "not found") {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestDeleteWorkout(t *testing.T) {
	t.Parallel()

	store := &fakeStore{workouts: []contractx.WorkoutRecord{{ID: 1}}}
	m := NewManagement(store)

	result := m.Delete(context.Background(), 1)
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}
	if len(store.workouts) != 0 {
		t.Fatalf("workout not deleted, %d remain", len(store.workouts))
	}
}

func TestMarkCompleteThenGet(t *testing.T) {
	t.Parallel()

	store := &fakeStore{workouts: []contractx.WorkoutRecord{{ID: 1}}}
	m := NewManagement(store)

	result := m.MarkComplete(context.Background(), 1, true)
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}
	if !strings.Contains(result.Message, "completed") {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	w, err := m.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w == nil || !w.Completed {
		t.Fatalf("completion not reflected on read back: %+v", w)
	}

	result = m.MarkComplete(context.Background(), 1, false)
	if !result.Success || !strings.Contains(result.Message, "incomplete") {
		t.Fatalf("unexpected result: %+v", result)
	}
	w, _ = m.Get(context.Background(), 1)
	if w.Completed {
		t.Fatal("expected workout to be incomplete again")
	}
}

func TestEditEmptyPatch(t *testing.T) {
	t.Parallel()

	m := NewManagement(&fakeStore{workouts: []contractx.WorkoutRecord{{ID: 1}}})

	result := m.Edit(context.Background(), 1, contractx.WorkoutPatch{})
	if result.Success {
		t.Fatal("an empty patch must report failure")
	}
	if !strings.Contains(result.Message, "No fields") {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestEditWorkout(t *testing.T) {
	t.Parallel()

	store := &fakeStore{workouts: []contractx.WorkoutRecord{{ID: 1, Equipment: []string{"barbell"}}}}
	m := NewManagement(store)

	equipment := []string{"dumbbells", "bench"}
	location := "garage"
	result := m.Edit(context.Background(), 1, contractx.WorkoutPatch{
		Equipment: &equipment,
		Location:  &location,
	})
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}
	if result.Workout == nil {
		t.Fatal("expected the updated workout in the envelope")
	}
	if result.Workout.Location != "garage" || len(result.Workout.Equipment) != 2 {
		t.Fatalf("patch not applied: %+v", result.Workout)
	}
}

func TestEditNonexistentWorkout(t *testing.T) {
	t.Parallel()

	m := NewManagement(&fakeStore{})

	location := "garage"
	result := m.Edit(context.Background(), 9, contractx.WorkoutPatch{Location: &location})
	if result.Success {
		t.Fatal("editing a missing workout must report failure")
	}
	if !strings.Contains(result.Message, "not found") {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

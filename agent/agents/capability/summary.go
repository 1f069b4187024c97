package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/roamfit/roamfit/agent/contract"
	llmx "github.com/roamfit/roamfit/agent/llm"
	promptx "github.com/roamfit/roamfit/agent/prompt"
	storex "github.com/roamfit/roamfit/agent/store"
)

const defaultHistoryLimit = 5

// Summary turns recent workout records into a short natural-language recap.
type Summary struct {
	gateway llmx.Gateway
	store   storex.Store
	prompts promptx.PromptSet
}

var _ contractx.Summarizer = (*Summary)(nil)

func NewSummary(gateway llmx.Gateway, store storex.Store) *Summary {
	return &Summary{
		gateway: gateway,
		store:   store,
		prompts: promptx.LoadPromptSet(),
	}
}

// Summarize reads the limit most recent workouts and asks the model for a
// 2-3 sentence summary. With no stored workouts it returns the canned
// no-history summary without a gateway call.
func (s *Summary) Summarize(ctx context.Context, limit int) (contractx.HistorySummary, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	workouts, err := s.store.ListWorkouts(ctx, limit)
	if err != nil {
		return contractx.HistorySummary{}, fmt.Errorf("read workout history: %w", err)
	}
	if len(workouts) == 0 {
		return contractx.NoHistory(), nil
	}

	prompt := fmt.Sprintf(s.prompts.Summary, historyTranscript(workouts))
	text, err := s.gateway.CompleteText(ctx, contractx.CapabilitySummary, prompt)
	if err != nil {
		return contractx.HistorySummary{}, fmt.Errorf("summarize workout history: %w", err)
	}

	last := workouts[0].Date
	return contractx.HistorySummary{
		Summary:         strings.TrimSpace(text),
		LastWorkoutDate: &last,
		TotalWorkouts:   len(workouts),
	}, nil
}

// LastWorkout returns the most recent workout record, or nil when none exist.
func (s *Summary) LastWorkout(ctx context.Context) (*contractx.WorkoutRecord, error) {
	workouts, err := s.store.ListWorkouts(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("read last workout: %w", err)
	}
	if len(workouts) == 0 {
		return nil, nil
	}
	return &workouts[0], nil
}

func historyTranscript(workouts []contractx.WorkoutRecord) string {
	var b strings.Builder
	for _, w := range workouts {
		location := w.Location
		if location == "" {
			location = "Not specified"
		}
		completed := "No"
		if w.Completed {
			completed = "Yes"
		}
		plan, _ := json.Marshal(w.Plan)

		fmt.Fprintf(&b, "\nDate: %s\n", w.Date.Format("2006-01-02"))
		fmt.Fprintf(&b, "Equipment: %s\n", strings.Join(w.Equipment, ", "))
		fmt.Fprintf(&b, "Location: %s\n", location)
		fmt.Fprintf(&b, "Completed: %s\n", completed)
		fmt.Fprintf(&b, "Workout Plan: %s\n", plan)
		b.WriteString("---\n")
	}
	return b.String()
}

package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/roamfit/roamfit/agent/contract"
	llmx "github.com/roamfit/roamfit/agent/llm"
	promptx "github.com/roamfit/roamfit/agent/prompt"
	storex "github.com/roamfit/roamfit/agent/store"
)

const defaultDurationMinutes = 20

// Generation synthesizes a CrossFit-style workout plan from equipment and
// history context.
type Generation struct {
	gateway llmx.Gateway
	store   storex.Store
	prompts promptx.PromptSet
}

var _ contractx.Generator = (*Generation)(nil)

func NewGeneration(gateway llmx.Gateway, store storex.Store) *Generation {
	return &Generation{
		gateway: gateway,
		store:   store,
		prompts: promptx.LoadPromptSet(),
	}
}

// Generate builds a plan for the supplied equipment. An empty equipment list
// returns a zero plan with an error message and never reaches the gateway.
// A malformed model response degrades the same way; provider failures
// propagate.
func (g *Generation) Generate(ctx context.Context, req contractx.GenerateRequest) (contractx.WorkoutPlan, error) {
	if len(req.Equipment) == 0 {
		return contractx.WorkoutPlan{
			Exercises: []contractx.Exercise{},
			Focus:     "none",
			Err:       "no equipment provided",
		}, nil
	}

	prompt := fmt.Sprintf(g.prompts.Generation, strings.Join(req.Equipment, ", "), historyContext(req.History))

	raw, err := g.gateway.CompleteText(ctx, contractx.CapabilityGeneration, prompt)
	if err != nil {
		return contractx.WorkoutPlan{}, fmt.Errorf("workout generation failed: %w", err)
	}

	plan, parseErr := parseGeneratedPlan(raw)
	if parseErr != nil {
		return contractx.WorkoutPlan{
			Exercises: []contractx.Exercise{},
			Focus:     "none",
			Err:       fmt.Sprintf("failed to parse generation response: %v", parseErr),
		}, nil
	}

	if len(plan.Exercises) == 0 {
		plan.Err = "model returned no exercises"
		return plan, nil
	}

	if req.Save {
		id, saveErr := g.store.CreateWorkout(ctx, req.Equipment, plan, req.Location, false)
		if saveErr != nil {
			log.Warn().Err(saveErr).Msg("generated plan could not be saved")
			plan.SaveError = fmt.Sprintf("failed to save workout: %v", saveErr)
		} else {
			plan.WorkoutID = &id
		}
	}

	return plan, nil
}

func historyContext(history *contractx.HistorySummary) string {
	if history == nil || strings.TrimSpace(history.Summary) == "" {
		return ""
	}

	lastDate := "Unknown"
	if history.LastWorkoutDate != nil {
		lastDate = history.LastWorkoutDate.Format("2006-01-02")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nPrevious workout summary: %s\n", history.Summary)
	fmt.Fprintf(&b, "Last workout date: %s\n", lastDate)
	fmt.Fprintf(&b, "Total previous workouts: %d\n", history.TotalWorkouts)
	return b.String()
}

func parseGeneratedPlan(raw string) (contractx.WorkoutPlan, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return contractx.WorkoutPlan{}, err
	}

	var parsed struct {
		Format          string               `json:"format"`
		Exercises       []contractx.Exercise `json:"exercises"`
		DurationMinutes int                  `json:"duration_minutes"`
		Focus           string               `json:"focus"`
		Description     string               `json:"workout_description"`
		Warmup          string               `json:"warmup"`
		Cooldown        string               `json:"cooldown"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return contractx.WorkoutPlan{}, fmt.Errorf("%w: %v", contractx.ErrSchemaViolation, err)
	}

	plan := contractx.WorkoutPlan{
		Format:          contractx.ParseWorkoutFormat(parsed.Format),
		Exercises:       parsed.Exercises,
		DurationMinutes: parsed.DurationMinutes,
		Focus:           strings.TrimSpace(parsed.Focus),
		Description:     strings.TrimSpace(parsed.Description),
		Warmup:          strings.TrimSpace(parsed.Warmup),
		Cooldown:        strings.TrimSpace(parsed.Cooldown),
	}
	if plan.Exercises == nil {
		plan.Exercises = []contractx.Exercise{}
	}
	if plan.DurationMinutes <= 0 {
		plan.DurationMinutes = defaultDurationMinutes
	}
	if plan.Focus == "" {
		plan.Focus = "full_body"
	}
	if plan.Description == "" {
		plan.Description = describeFormat(plan.Format)
	}
	return plan, nil
}

func describeFormat(format contractx.WorkoutFormat) string {
	switch format {
	case contractx.FormatEMOM:
		return "Every minute on the minute: start the listed work at the top of each minute."
	case contractx.FormatAMRAP:
		return "As many rounds as possible of the listed exercises in the time allowed."
	case contractx.FormatForTime:
		return "Complete all listed work as fast as possible."
	case contractx.FormatRoundsForTime:
		return "Complete the prescribed rounds as fast as possible."
	case contractx.FormatTabata:
		return "Tabata intervals: 20 seconds of work, 10 seconds of rest, 8 rounds per exercise."
	case contractx.FormatChipper:
		return "Chipper: work through every exercise once, in order."
	default:
		return "As many rounds as possible of the listed exercises in the time allowed."
	}
}

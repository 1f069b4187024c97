package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/roamfit/roamfit/agent/contract"
	nodex "github.com/roamfit/roamfit/agent/nodes/orchestrator"
)

type Config struct {
	HistoryLimit   int
	SearchRadiusKM float64
	SearchLimit    int
	ListLimit      int
}

// Request is one inbound user turn: free text plus an optional image.
type Request struct {
	Query    string
	Image    []byte
	ImageRef string
}

// Response composes the outputs of every capability the request touched.
// Reply is always populated; the typed sections are nil when unused.
type Response struct {
	Reply      string                           `json:"reply"`
	Workout    *contractx.GenerateWorkoutResult `json:"workout,omitempty"`
	Summary    *contractx.HistorySummary        `json:"history,omitempty"`
	Stats      *contractx.WorkoutStats          `json:"stats,omitempty"`
	Chart      *contractx.ChartData             `json:"chart,omitempty"`
	Places     []contractx.PlaceResult          `json:"places,omitempty"`
	Management *contractx.ManagementResult      `json:"management,omitempty"`
	Workouts   []contractx.WorkoutRecord        `json:"workouts,omitempty"`
}

type Orchestrator struct {
	registry contractx.Registry
	cfg      Config

	graphRunner compose.Runnable[nodex.GraphInput, contractx.GenerateWorkoutResult]

	now func() time.Time
}

func New(registry contractx.Registry, cfg Config) (*Orchestrator, error) {
	if registry == nil {
		return nil, errors.New("capability registry is required")
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 5
	}
	if cfg.SearchRadiusKM <= 0 {
		cfg.SearchRadiusKM = 2
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 10
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 10
	}

	o := &Orchestrator{
		registry: registry,
		cfg:      cfg,
		now:      time.Now,
	}

	graphRunner, err := o.compileGenerateWorkoutGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// GenerateWorkout runs the compound detect-summarize-generate workflow.
func (o *Orchestrator) GenerateWorkout(ctx context.Context, in nodex.GraphInput) (contractx.GenerateWorkoutResult, error) {
	if in.HistoryLimit <= 0 {
		in.HistoryLimit = o.cfg.HistoryLimit
	}
	return o.graphRunner.Invoke(ctx, in)
}

// HandleQuery routes one user turn through the capability plan and composes
// a single response. A required capability failure stops the remaining steps.
func (o *Orchestrator) HandleQuery(ctx context.Context, req Request) (Response, error) {
	requestID := uuid.NewString()
	plan := PlanRoutes(req.Query, len(req.Image) > 0)

	log.Info().
		Str("request_id", requestID).
		Bool("detect", plan.Detect).
		Bool("history", plan.History).
		Bool("generate", plan.Generate).
		Bool("stats", plan.Stats).
		Bool("location", plan.Location).
		Bool("manage", plan.Manage).
		Msg("routed query")

	var (
		resp     Response
		sections []string
	)

	if plan.Manage {
		section, err := o.runManagement(ctx, plan.Management, &resp)
		if err != nil {
			return resp, err
		}
		sections = append(sections, section)
	}

	if plan.Stats {
		section, err := o.runStats(ctx, plan, &resp)
		if err != nil {
			return resp, err
		}
		sections = append(sections, section)
	}

	if plan.Location {
		section, err := o.runLocation(ctx, plan, &resp)
		if err != nil {
			return resp, err
		}
		sections = append(sections, section)
	}

	if plan.Generate {
		section, err := o.runGenerateWorkflow(ctx, req, plan, &resp)
		if err != nil {
			return resp, err
		}
		sections = append(sections, section)
	} else if plan.Detect && len(req.Image) > 0 {
		section, err := o.runDetection(ctx, req)
		if err != nil {
			return resp, err
		}
		sections = append(sections, section)
	} else if plan.History {
		section, err := o.runSummary(ctx, &resp)
		if err != nil {
			return resp, err
		}
		sections = append(sections, section)
	}

	if len(sections) == 0 {
		resp.Reply = "I can generate workouts, summarize your history, chart your progress, find places to train, and manage saved workouts. What would you like to do?"
		return resp, nil
	}

	resp.Reply = strings.Join(sections, "\n\n")

	log.Info().
		Str("request_id", requestID).
		Int("sections", len(sections)).
		Msg("query handled")

	return resp, nil
}

func (o *Orchestrator) runManagement(ctx context.Context, intent ManagementIntent, resp *Response) (string, error) {
	manager := o.registry.Management()

	switch intent.Action {
	case ManageList:
		workouts, err := manager.List(ctx, o.cfg.ListLimit)
		if err != nil {
			return "", fmt.Errorf("list workouts: %w", err)
		}
		resp.Workouts = workouts
		if len(workouts) == 0 {
			return "You have no saved workouts yet.", nil
		}
		return fmt.Sprintf("You have %d saved workout(s).", len(workouts)), nil

	case ManageView:
		workout, err := manager.Get(ctx, intent.WorkoutID)
		if err != nil {
			return "", fmt.Errorf("get workout: %w", err)
		}
		if workout == nil {
			return fmt.Sprintf("Workout #%d not found.", intent.WorkoutID), nil
		}
		resp.Workouts = []contractx.WorkoutRecord{*workout}
		return fmt.Sprintf("Workout #%d: %s workout with %s.",
			workout.ID, workout.Plan.Format, strings.Join(workout.Equipment, ", ")), nil

	case ManageDelete:
		result := manager.Delete(ctx, intent.WorkoutID)
		resp.Management = &result
		return result.Message, nil

	case ManageComplete:
		result := manager.MarkComplete(ctx, intent.WorkoutID, intent.Completed)
		resp.Management = &result
		return result.Message, nil

	default:
		return "", fmt.Errorf("%w: unknown management action %q", contractx.ErrValidation, intent.Action)
	}
}

func (o *Orchestrator) runStats(ctx context.Context, plan RoutePlan, resp *Response) (string, error) {
	statistician := o.registry.Stats()

	stats, err := statistician.Stats(ctx)
	if err != nil {
		return "", fmt.Errorf("compute stats: %w", err)
	}
	resp.Stats = &stats

	section := fmt.Sprintf(
		"Progress: %d workouts total, %d completed (%.0f%%), %d in the last 30 days, %.2f per week.",
		stats.TotalWorkouts, stats.CompletedWorkouts, stats.CompletionRate,
		stats.Recent30Days, stats.WorkoutsPerWeek,
	)

	if plan.Chart {
		chart, err := statistician.Chart(ctx, plan.ChartKind)
		if err != nil {
			return "", fmt.Errorf("render chart: %w", err)
		}
		resp.Chart = &chart
		section += fmt.Sprintf(" A %s chart is attached.", chart.Kind)
	}

	return section, nil
}

func (o *Orchestrator) runLocation(ctx context.Context, plan RoutePlan, resp *Response) (string, error) {
	if plan.PlaceQuery == "" {
		return "Tell me where you are and I can find gyms, parks, tracks and trails nearby.", nil
	}

	places, err := o.registry.Location().FindNearby(ctx, plan.PlaceQuery, plan.PlaceType, o.cfg.SearchRadiusKM, o.cfg.SearchLimit)
	if err != nil {
		return "", fmt.Errorf("find places: %w", err)
	}
	resp.Places = places

	if len(places) == 0 {
		return fmt.Sprintf("No %ss found near %s.", plan.PlaceType, plan.PlaceQuery), nil
	}
	return fmt.Sprintf("Found %d %s(s) near %s; the closest is %s (%.2f km away).",
		len(places), plan.PlaceType, plan.PlaceQuery, places[0].Name, places[0].DistanceKM), nil
}

func (o *Orchestrator) runGenerateWorkflow(ctx context.Context, req Request, plan RoutePlan, resp *Response) (string, error) {
	result, err := o.GenerateWorkout(ctx, nodex.GraphInput{
		Image:        req.Image,
		ImageRef:     req.ImageRef,
		Equipment:    plan.Equipment,
		Location:     plan.PlaceQuery,
		HistoryLimit: o.cfg.HistoryLimit,
		SkipHistory:  !plan.History,
		Save:         true,
	})
	if err != nil {
		return "", fmt.Errorf("generate workout workflow: %w", err)
	}
	resp.Workout = &result

	if result.Err != "" {
		return "Could not generate a workout: " + result.Err, nil
	}
	if result.Plan != nil && result.Plan.Err != "" {
		return "Could not generate a workout: " + result.Plan.Err, nil
	}

	section := fmt.Sprintf("Here is your %s workout (%d minutes, %s focus) with %s.",
		result.Plan.Format, result.Plan.DurationMinutes, result.Plan.Focus,
		strings.Join(result.Equipment, ", "))
	if result.SaveError != "" {
		section += " Note: the workout could not be saved."
	} else if result.Plan.WorkoutID != nil {
		section += fmt.Sprintf(" Saved as workout #%d.", *result.Plan.WorkoutID)
	}
	return section, nil
}

func (o *Orchestrator) runDetection(ctx context.Context, req Request) (string, error) {
	result, err := o.registry.Detection().Detect(ctx, req.Image, req.ImageRef, "")
	if err != nil {
		return "", fmt.Errorf("detect equipment: %w", err)
	}

	if result.Err != "" {
		return "Could not read the equipment from that image: " + result.Err, nil
	}
	if len(result.Equipment) == 0 {
		return "I could not spot any workout equipment in that image.", nil
	}
	return "I can see: " + strings.Join(result.Equipment, ", ") + ".", nil
}

func (o *Orchestrator) runSummary(ctx context.Context, resp *Response) (string, error) {
	summary, err := o.registry.Summary().Summarize(ctx, o.cfg.HistoryLimit)
	if err != nil {
		return "", fmt.Errorf("summarize history: %w", err)
	}
	resp.Summary = &summary
	return summary.Summary, nil
}

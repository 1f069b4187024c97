// Package store persists workouts, equipment detections and LLM call logs.
package store

import (
	"context"

	contractx "github.com/roamfit/roamfit/agent/contract"
)

// Call statuses recorded per LLM gateway invocation.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// CallRecord is one LLM gateway invocation, success or failure.
type CallRecord struct {
	Capability string
	Model      string
	Status     string
	TokensIn   int
	TokensOut  int
	LatencyMS  int64
	Error      string
}

type UsageTotals struct {
	Calls        int64   `json:"calls"`
	Failures     int64   `json:"failures"`
	TokensIn     int64   `json:"tokens_in"`
	TokensOut    int64   `json:"tokens_out"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

// UsageReport aggregates the call log for monitoring.
type UsageReport struct {
	Totals       UsageTotals            `json:"totals"`
	ByCapability map[string]UsageTotals `json:"by_capability"`
	ByModel      map[string]UsageTotals `json:"by_model"`
}

// Store is the persistence contract consumed by the capabilities.
// Each call is one atomic write or read; GetWorkout returns nil (not an
// error) for a missing id, and the boolean mutations report whether a row
// was affected.
type Store interface {
	CreateWorkout(ctx context.Context, equipment []string, plan contractx.WorkoutPlan, location string, completed bool) (int64, error)
	GetWorkout(ctx context.Context, id int64) (*contractx.WorkoutRecord, error)
	ListWorkouts(ctx context.Context, limit int) ([]contractx.WorkoutRecord, error)
	UpdateWorkout(ctx context.Context, id int64, patch contractx.WorkoutPatch) (bool, error)
	DeleteWorkout(ctx context.Context, id int64) (bool, error)
	SetCompletion(ctx context.Context, id int64, completed bool) (bool, error)

	CreateDetection(ctx context.Context, imageRef string, equipment []string, location string) (int64, error)

	LogCall(ctx context.Context, rec CallRecord) (int64, error)
	AggregateUsage(ctx context.Context) (UsageReport, error)
}

package contract

import "context"

type Detector interface {
	Detect(ctx context.Context, image []byte, imageRef, location string) (DetectionResult, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, limit int) (HistorySummary, error)
	LastWorkout(ctx context.Context) (*WorkoutRecord, error)
}

type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (WorkoutPlan, error)
}

type Statistician interface {
	Stats(ctx context.Context) (WorkoutStats, error)
	Chart(ctx context.Context, kind ChartKind) (ChartData, error)
}

type Locator interface {
	FindNearby(ctx context.Context, location string, placeType PlaceType, radiusKM float64, limit int) ([]PlaceResult, error)
	FindNearbyActivity(ctx context.Context, location string, radiusKM float64, limit int) ([]PlaceResult, error)
}

type Manager interface {
	List(ctx context.Context, limit int) ([]WorkoutRecord, error)
	Get(ctx context.Context, id int64) (*WorkoutRecord, error)
	Edit(ctx context.Context, id int64, patch WorkoutPatch) ManagementResult
	Delete(ctx context.Context, id int64) ManagementResult
	MarkComplete(ctx context.Context, id int64, completed bool) ManagementResult
}

// Registry hands the dispatcher one instance of every capability.
type Registry interface {
	Detection() Detector
	Summary() Summarizer
	Generation() Generator
	Stats() Statistician
	Location() Locator
	Management() Manager
}

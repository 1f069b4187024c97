package capability

import (
	"context"
	"fmt"
	"math"
	"time"

	contractx "github.com/roamfit/roamfit/agent/contract"
	storex "github.com/roamfit/roamfit/agent/store"
)

// chartHistoryLimit bounds how many records feed the stats and charts.
const chartHistoryLimit = 100

// Stats computes aggregate workout statistics and renders progress charts.
// Pure arithmetic over stored records; no LLM involved.
type Stats struct {
	store storex.Store
	now   func() time.Time
}

var _ contractx.Statistician = (*Stats)(nil)

func NewStats(store storex.Store) *Stats {
	return &Stats{
		store: store,
		now:   time.Now,
	}
}

func (s *Stats) Stats(ctx context.Context) (contractx.WorkoutStats, error) {
	workouts, err := s.store.ListWorkouts(ctx, 0)
	if err != nil {
		return contractx.WorkoutStats{}, fmt.Errorf("read workouts for stats: %w", err)
	}

	stats := contractx.WorkoutStats{TotalWorkouts: len(workouts)}
	if len(workouts) == 0 {
		return stats, nil
	}

	cutoff := s.now().AddDate(0, 0, -30)
	first := workouts[0].Date
	last := workouts[0].Date
	for _, w := range workouts {
		if w.Completed {
			stats.CompletedWorkouts++
		}
		if !w.Date.Before(cutoff) {
			stats.Recent30Days++
		}
		if w.Date.Before(first) {
			first = w.Date
		}
		if w.Date.After(last) {
			last = w.Date
		}
	}

	daysSpan := int(last.Sub(first).Hours()/24) + 1
	weeksSpan := math.Max(float64(daysSpan)/7, 1)
	stats.WorkoutsPerWeek = round2(float64(len(workouts)) / weeksSpan)
	stats.CompletionRate = round2(float64(stats.CompletedWorkouts) / float64(len(workouts)) * 100)

	return stats, nil
}

// Usage aggregates the LLM call log for monitoring.
func (s *Stats) Usage(ctx context.Context) (storex.UsageReport, error) {
	return s.store.AggregateUsage(ctx)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

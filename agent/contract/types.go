package contract

import (
	"strings"
	"time"
)

// Capability names, used for call logging and per-capability model overrides.
const (
	CapabilityDetection  = "equipment_detection"
	CapabilitySummary    = "workout_summary"
	CapabilityGeneration = "workout_generator"
	CapabilityStats      = "graph_trends"
	CapabilityLocation   = "location_activity"
	CapabilityManagement = "workout_management"
)

// WorkoutFormat is the CrossFit-style workout format tag.
type WorkoutFormat string

const (
	FormatEMOM          WorkoutFormat = "EMOM"
	FormatAMRAP         WorkoutFormat = "AMRAP"
	FormatForTime       WorkoutFormat = "For Time"
	FormatRoundsForTime WorkoutFormat = "Rounds for Time"
	FormatTabata        WorkoutFormat = "Tabata"
	FormatChipper       WorkoutFormat = "Chipper"
)

// WorkoutFormats lists every supported format.
var WorkoutFormats = []WorkoutFormat{
	FormatEMOM,
	FormatAMRAP,
	FormatForTime,
	FormatRoundsForTime,
	FormatTabata,
	FormatChipper,
}

// ParseWorkoutFormat maps free text onto a supported format.
// Unknown or empty input falls back to AMRAP.
func ParseWorkoutFormat(s string) WorkoutFormat {
	trimmed := strings.TrimSpace(s)
	for _, f := range WorkoutFormats {
		if strings.EqualFold(trimmed, string(f)) {
			return f
		}
	}
	return FormatAMRAP
}

type Exercise struct {
	Name         string `json:"name"`
	Reps         int    `json:"reps"`
	Instructions string `json:"instructions"`
	Sets         *int   `json:"sets,omitempty"`
	RestSeconds  *int   `json:"rest_seconds,omitempty"`
}

// WorkoutPlan is the structured output of the generation capability.
// Err is set when the model response could not be parsed; SaveError is set
// when the plan was generated but could not be persisted.
type WorkoutPlan struct {
	Format          WorkoutFormat `json:"format"`
	Exercises       []Exercise    `json:"exercises"`
	DurationMinutes int           `json:"duration_minutes"`
	Focus           string        `json:"focus"`
	Description     string        `json:"workout_description,omitempty"`
	Warmup          string        `json:"warmup,omitempty"`
	Cooldown        string        `json:"cooldown,omitempty"`

	WorkoutID *int64 `json:"workout_id,omitempty"`
	SaveError string `json:"save_error,omitempty"`
	Err       string `json:"error,omitempty"`
}

// WorkoutRecord is a stored workout as seen by capabilities.
type WorkoutRecord struct {
	ID        int64       `json:"id"`
	Date      time.Time   `json:"date"`
	Equipment []string    `json:"equipment"`
	Plan      WorkoutPlan `json:"workout_plan"`
	Location  string      `json:"location,omitempty"`
	Completed bool        `json:"completed"`
}

// WorkoutPatch is a partial update against a stored workout.
// Nil fields are left untouched.
type WorkoutPatch struct {
	Equipment *[]string
	Plan      *WorkoutPlan
	Location  *string
	Completed *bool
}

func (p WorkoutPatch) IsZero() bool {
	return p.Equipment == nil && p.Plan == nil && p.Location == nil && p.Completed == nil
}

type DetectionResult struct {
	Equipment   []string `json:"equipment"`
	DetectionID int64    `json:"detection_id"`
	ImageRef    string   `json:"image_ref,omitempty"`
	Location    string   `json:"location,omitempty"`
	Err         string   `json:"error,omitempty"`
}

type HistorySummary struct {
	Summary         string     `json:"summary"`
	LastWorkoutDate *time.Time `json:"last_workout_date"`
	TotalWorkouts   int        `json:"total_workouts"`
}

// NoHistory is the canned summary returned when the store holds no workouts.
func NoHistory() HistorySummary {
	return HistorySummary{Summary: "No workout history available.", TotalWorkouts: 0}
}

// DegradedHistory substitutes for a failed summary call so that downstream
// generation can continue without history context.
func DegradedHistory() HistorySummary {
	return HistorySummary{Summary: "Unable to retrieve workout history", TotalWorkouts: 0}
}

type GenerateRequest struct {
	Equipment []string
	History   *HistorySummary
	Location  string
	Save      bool
}

type WorkoutStats struct {
	TotalWorkouts     int     `json:"total_workouts"`
	CompletedWorkouts int     `json:"completed_workouts"`
	Recent30Days      int     `json:"recent_workouts_30_days"`
	WorkoutsPerWeek   float64 `json:"workouts_per_week"`
	CompletionRate    float64 `json:"completion_rate"`
}

// ChartKind is a closed enumeration so an unsupported kind is an explicit
// error path instead of a silently wrong chart.
type ChartKind string

const (
	ChartFrequency ChartKind = "frequency"
	ChartEquipment ChartKind = "equipment"
)

func ParseChartKind(s string) (ChartKind, error) {
	switch ChartKind(strings.ToLower(strings.TrimSpace(s))) {
	case ChartFrequency:
		return ChartFrequency, nil
	case ChartEquipment:
		return ChartEquipment, nil
	default:
		return "", ErrUnsupportedChartKind
	}
}

type ChartData struct {
	Kind        ChartKind `json:"chart_type"`
	Image       []byte    `json:"-"`
	ImageBase64 string    `json:"image_base64"`
	Format      string    `json:"format"`
}

// PlaceType is a closed enumeration of searchable place categories.
type PlaceType string

const (
	PlaceGym          PlaceType = "gym"
	PlacePark         PlaceType = "park"
	PlaceRunningTrack PlaceType = "running track"
	PlaceTrail        PlaceType = "trail"
)

func ParsePlaceType(s string) (PlaceType, error) {
	switch PlaceType(strings.ToLower(strings.TrimSpace(s))) {
	case PlaceGym:
		return PlaceGym, nil
	case PlacePark:
		return PlacePark, nil
	case PlaceRunningTrack:
		return PlaceRunningTrack, nil
	case PlaceTrail:
		return PlaceTrail, nil
	default:
		return "", ErrUnsupportedPlaceType
	}
}

type PlaceResult struct {
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKM float64 `json:"distance_km"`
	DistanceM  float64 `json:"distance_m"`
}

// ManagementResult is the envelope returned by every mutating management
// operation. "Not found" reports failure here instead of raising.
type ManagementResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Workout *WorkoutRecord `json:"workout,omitempty"`
}

// GenerateWorkoutResult is the output of the compound generate-workout
// workflow. On failure Err carries the reason and the fields gathered before
// the failure remain populated for diagnostics.
type GenerateWorkoutResult struct {
	Plan        *WorkoutPlan    `json:"workout_plan"`
	Equipment   []string        `json:"equipment"`
	History     *HistorySummary `json:"workout_history,omitempty"`
	DetectionID *int64          `json:"detection_id,omitempty"`
	SaveError   string          `json:"save_error,omitempty"`
	Err         string          `json:"error,omitempty"`
}

package orchestrator

import (
	"regexp"
	"strconv"
	"strings"

	contractx "github.com/roamfit/roamfit/agent/contract"
	validatex "github.com/roamfit/roamfit/agent/validate"
)

// RoutePlan is the set of capabilities one request needs, plus the arguments
// the router extracted from the query text.
type RoutePlan struct {
	Detect   bool
	History  bool
	Generate bool
	Stats    bool
	Chart    bool
	Location bool
	Manage   bool

	Equipment  []string
	ChartKind  contractx.ChartKind
	PlaceQuery string
	PlaceType  contractx.PlaceType
	Management ManagementIntent
}

// ManagementAction is the parsed sub-intent of a management request.
type ManagementAction string

const (
	ManageList     ManagementAction = "list"
	ManageView     ManagementAction = "view"
	ManageDelete   ManagementAction = "delete"
	ManageComplete ManagementAction = "complete"
)

type ManagementIntent struct {
	Action    ManagementAction
	WorkoutID int64
	Completed bool
}

var (
	generateWords = []string{"generate", "create", "make", "build", "design", "new workout", "give me a workout", "workout for"}
	historyWords  = []string{"history", "last workout", "previous workout", "past workout", "recent workout", "what did i do"}
	statsWords    = []string{"progress", "chart", "graph", "trend", "stats", "statistics", "how often", "how many workouts"}
	locationWords = []string{"near", "nearby", "close to", "around me", "find a gym", "find a park", "outdoor"}
	detectWords   = []string{"detect", "what equipment", "this image", "this photo", "the picture", "from the image"}
	manageWords   = []string{"delete", "remove", "edit", "update", "mark", "complete", "list my workouts", "show my workouts", "show workout", "view workout"}

	ignoreHistoryWords = []string{"ignore history", "without history", "skip history", "ignore my history"}

	workoutIDPattern = regexp.MustCompile(`(?i)workout\s*#?\s*(\d+)`)
	nearPattern      = regexp.MustCompile(`(?i)\b(?:near|nearby|around|close to|in)\s+(.+?)(?:\?|\.|$)`)
)

// PlanRoutes maps one free-text query (plus image presence) onto a capability
// plan. Rules are evaluated in isolation so a query can fan out to several
// capabilities, but a capability is only planned when its phrasing appears.
func PlanRoutes(query string, hasImage bool) RoutePlan {
	q := strings.ToLower(strings.TrimSpace(query))
	plan := RoutePlan{ChartKind: contractx.ChartFrequency, PlaceType: contractx.PlaceGym}

	plan.Equipment = validatex.ExtractEquipment(q)

	wantsGenerate := containsAny(q, generateWords) && strings.Contains(q, "workout")
	if !wantsGenerate && containsAny(q, generateWords) && len(plan.Equipment) > 0 {
		wantsGenerate = true
	}

	// Detection never runs when the query already names equipment.
	if (hasImage || containsAny(q, detectWords)) && len(plan.Equipment) == 0 {
		plan.Detect = hasImage || containsAny(q, detectWords)
	}

	plan.Stats = containsAny(q, statsWords)
	if plan.Stats {
		plan.Chart = containsAny(q, []string{"chart", "graph", "plot"})
		if strings.Contains(q, "equipment") {
			plan.ChartKind = contractx.ChartEquipment
		}
	}

	if containsAny(q, locationWords) {
		plan.Location = true
		plan.PlaceQuery = extractPlaceQuery(query)
		plan.PlaceType = extractPlaceType(q)
	}

	if intent, ok := parseManagementIntent(q); ok {
		plan.Manage = true
		plan.Management = intent
	}

	plan.Generate = wantsGenerate
	plan.History = containsAny(q, historyWords) || wantsGenerate
	if containsAny(q, ignoreHistoryWords) {
		plan.History = false
	}
	// A pure management or stats request never needs a history summary.
	if plan.Manage && !wantsGenerate {
		plan.History = false
	}

	return plan
}

func parseManagementIntent(q string) (ManagementIntent, bool) {
	if !containsAny(q, manageWords) {
		return ManagementIntent{}, false
	}

	intent := ManagementIntent{Action: ManageList}
	if m := workoutIDPattern.FindStringSubmatch(q); m != nil {
		intent.WorkoutID = parseID(m[1])
		intent.Action = ManageView
	}

	switch {
	case containsAny(q, []string{"delete", "remove"}):
		if intent.WorkoutID == 0 {
			return ManagementIntent{}, false
		}
		intent.Action = ManageDelete
	case strings.Contains(q, "mark") || strings.Contains(q, "complete"):
		if intent.WorkoutID == 0 {
			return ManagementIntent{}, false
		}
		intent.Action = ManageComplete
		intent.Completed = !containsAny(q, []string{"incomplete", "not complete", "uncomplete", "undone"})
	case containsAny(q, []string{"list", "show my workouts", "my workouts"}):
		intent.Action = ManageList
	case intent.WorkoutID > 0:
		intent.Action = ManageView
	default:
		return ManagementIntent{}, false
	}

	return intent, true
}

func extractPlaceQuery(query string) string {
	if m := nearPattern.FindStringSubmatch(query); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractPlaceType(q string) contractx.PlaceType {
	switch {
	case strings.Contains(q, "running track") || strings.Contains(q, "track"):
		return contractx.PlaceRunningTrack
	case strings.Contains(q, "trail"):
		return contractx.PlaceTrail
	case strings.Contains(q, "park"):
		return contractx.PlacePark
	default:
		return contractx.PlaceGym
	}
}

func containsAny(q string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

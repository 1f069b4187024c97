package capability

import (
	"context"
	"strings"
	"time"

	contractx "github.com/roamfit/roamfit/agent/contract"
	storex "github.com/roamfit/roamfit/agent/store"
	"github.com/roamfit/roamfit/pkg/nominatim"
)

// jpegHeader is enough to pass the image format validation.
var jpegHeader = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

type detectionRecord struct {
	imageRef  string
	equipment []string
	location  string
}

type fakeStore struct {
	workouts []contractx.WorkoutRecord
	nextID   int64

	listErr            error
	createWorkoutErr   error
	createDetectionErr error

	detections []detectionRecord
	callLogs   []storex.CallRecord
	usage      storex.UsageReport
}

func (f *fakeStore) CreateWorkout(ctx context.Context, equipment []string, plan contractx.WorkoutPlan, location string, completed bool) (int64, error) {
	if f.createWorkoutErr != nil {
		return 0, f.createWorkoutErr
	}
	f.nextID++
	f.workouts = append([]contractx.WorkoutRecord{{
		ID:        f.nextID,
		Date:      time.Now(),
		Equipment: append([]string(nil), equipment...),
		Plan:      plan,
		Location:  location,
		Completed: completed,
	}}, f.workouts...)
	return f.nextID, nil
}

func (f *fakeStore) GetWorkout(ctx context.Context, id int64) (*contractx.WorkoutRecord, error) {
	for i := range f.workouts {
		if f.workouts[i].ID == id {
			w := f.workouts[i]
			return &w, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListWorkouts(ctx context.Context, limit int) ([]contractx.WorkoutRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := append([]contractx.WorkoutRecord(nil), f.workouts...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateWorkout(ctx context.Context, id int64, patch contractx.WorkoutPatch) (bool, error) {
	for i := range f.workouts {
		if f.workouts[i].ID != id {
			continue
		}
		if patch.Equipment != nil {
			f.workouts[i].Equipment = *patch.Equipment
		}
		if patch.Plan != nil {
			f.workouts[i].Plan = *patch.Plan
		}
		if patch.Location != nil {
			f.workouts[i].Location = *patch.Location
		}
		if patch.Completed != nil {
			f.workouts[i].Completed = *patch.Completed
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeStore) DeleteWorkout(ctx context.Context, id int64) (bool, error) {
	for i := range f.workouts {
		if f.workouts[i].ID == id {
			f.workouts = append(f.workouts[:i], f.workouts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) SetCompletion(ctx context.Context, id int64, completed bool) (bool, error) {
	for i := range f.workouts {
		if f.workouts[i].ID == id {
			f.workouts[i].Completed = completed
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateDetection(ctx context.Context, imageRef string, equipment []string, location string) (int64, error) {
	if f.createDetectionErr != nil {
		return 0, f.createDetectionErr
	}
	f.detections = append(f.detections, detectionRecord{
		imageRef:  imageRef,
		equipment: append([]string(nil), equipment...),
		location:  location,
	})
	return int64(len(f.detections)), nil
}

func (f *fakeStore) LogCall(ctx context.Context, rec storex.CallRecord) (int64, error) {
	f.callLogs = append(f.callLogs, rec)
	return int64(len(f.callLogs)), nil
}

func (f *fakeStore) AggregateUsage(ctx context.Context) (storex.UsageReport, error) {
	return f.usage, nil
}

type fakeGateway struct {
	textResponse   string
	textErr        error
	visionResponse string
	visionErr      error

	textCalls   int
	visionCalls int
	lastPrompt  string
}

func (f *fakeGateway) CompleteText(ctx context.Context, capability string, prompt string) (string, error) {
	f.textCalls++
	f.lastPrompt = prompt
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.textResponse, nil
}

func (f *fakeGateway) CompleteVision(ctx context.Context, capability string, image []byte, prompt string) (string, error) {
	f.visionCalls++
	f.lastPrompt = prompt
	if f.visionErr != nil {
		return "", f.visionErr
	}
	return f.visionResponse, nil
}

type fakeGeocoder struct {
	origin    *nominatim.Place
	geoErr    error
	places    map[string][]nominatim.Place
	searchErr error

	searches []string
}

func (f *fakeGeocoder) Geocode(ctx context.Context, location string) (*nominatim.Place, error) {
	if f.geoErr != nil {
		return nil, f.geoErr
	}
	return f.origin, nil
}

func (f *fakeGeocoder) Search(ctx context.Context, query string, limit int) ([]nominatim.Place, error) {
	f.searches = append(f.searches, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	for key, places := range f.places {
		if strings.Contains(query, key) {
			return places, nil
		}
	}
	return nil, nil
}

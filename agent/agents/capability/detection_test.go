package capability

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/roamfit/roamfit/agent/contract"
)

func TestDetectExtractsJSONFromProse(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		visionResponse: `Sure! Here is what I found: {"equipment": ["dumbbells", "yoga mat"]} Hope that helps.`,
	}
	store := &fakeStore{}
	d := NewDetection(gateway, store)

	res, err := d.Detect(context.Background(), jpegHeader, "gym.jpg", "home")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Err != "" {
		t.Fatalf("expected clean result, got error %q", res.Err)
	}
	if len(res.Equipment) != 2 || res.Equipment[0] != "dumbbells" || res.Equipment[1] != "yoga mat" {
		t.Fatalf("unexpected equipment: %v", res.Equipment)
	}
	if res.DetectionID == 0 {
		t.Fatal("expected a detection id")
	}
	if len(store.detections) != 1 {
		t.Fatalf("expected 1 detection record, got %d", len(store.detections))
	}
}

func TestDetectMalformedResponseDegrades(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{visionResponse: "I could not find any equipment in this image."}
	store := &fakeStore{}
	d := NewDetection(gateway, store)

	res, err := d.Detect(context.Background(), jpegHeader, "gym.jpg", "")
	if err != nil {
		t.Fatalf("parse failure must not raise, got %v", err)
	}
	if len(res.Equipment) != 0 {
		t.Fatalf("expected empty equipment, got %v", res.Equipment)
	}
	if res.Err == "" {
		t.Fatal("expected a parse error message on the result")
	}
	if len(store.detections) != 1 {
		t.Fatalf("parse failure must still persist exactly one detection record, got %d", len(store.detections))
	}
	if len(store.detections[0].equipment) != 0 {
		t.Fatalf("persisted detection should carry empty equipment, got %v", store.detections[0].equipment)
	}
}

func TestDetectNonListEquipmentCoerces(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{visionResponse: `{"equipment": "dumbbells"}`}
	store := &fakeStore{}
	d := NewDetection(gateway, store)

	res, err := d.Detect(context.Background(), jpegHeader, "gym.jpg", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Err != "" {
		t.Fatalf("non-list equipment coerces quietly, got error %q", res.Err)
	}
	if len(res.Equipment) != 0 {
		t.Fatalf("expected empty equipment, got %v", res.Equipment)
	}
}

func TestDetectMissingImage(t *testing.T) {
	t.Parallel()

	d := NewDetection(&fakeGateway{}, &fakeStore{})

	_, err := d.Detect(context.Background(), nil, "", "")
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDetectProviderFailurePropagates(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{visionErr: contractx.ErrRateLimited}
	store := &fakeStore{}
	d := NewDetection(gateway, store)

	_, err := d.Detect(context.Background(), jpegHeader, "gym.jpg", "")
	if !errors.Is(err, contractx.ErrRateLimited) {
		t.Fatalf("expected provider error to propagate, got %v", err)
	}
	if len(store.detections) != 0 {
		t.Fatalf("provider failure must not persist a detection, got %d", len(store.detections))
	}
}

func TestDetectPersistFailurePropagates(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{visionResponse: `{"equipment": ["barbell"]}`}
	store := &fakeStore{createDetectionErr: errors.New("db down")}
	d := NewDetection(gateway, store)

	_, err := d.Detect(context.Background(), jpegHeader, "gym.jpg", "")
	if err == nil {
		t.Fatal("expected an error when the detection record cannot be written")
	}
}

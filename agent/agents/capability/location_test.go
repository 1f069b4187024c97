package capability

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/roamfit/roamfit/agent/contract"
	"github.com/roamfit/roamfit/pkg/nominatim"
)

// Distances from the origin 13.7563,100.5018 (Bangkok):
// nearPlace ~0.56km, farPlace well outside a 2km radius.
var (
	testOrigin = &nominatim.Place{Name: "Bangkok", Address: "Bangkok, Thailand", Latitude: 13.7563, Longitude: 100.5018}
	nearPlace  = nominatim.Place{Name: "Lumpini Gym", Address: "1 Rama IV Rd, Bangkok", Latitude: 13.7513, Longitude: 100.5020}
	farPlace   = nominatim.Place{Name: "Distant Gym", Address: "99 Far Away Rd", Latitude: 13.9000, Longitude: 100.7000}
)

func TestFindNearbyFiltersAndSorts(t *testing.T) {
	t.Parallel()

	closer := nominatim.Place{Name: "Closer Gym", Address: "2 Silom Rd, Bangkok", Latitude: 13.7560, Longitude: 100.5018}
	geo := &fakeGeocoder{
		origin: testOrigin,
		places: map[string][]nominatim.Place{
			"gym": {farPlace, nearPlace, closer},
		},
	}
	l := NewLocation(geo)

	places, err := l.FindNearby(context.Background(), "Bangkok", contractx.PlaceGym, 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("expected the far place filtered out, got %d results", len(places))
	}
	if places[0].Name != "Closer Gym" {
		t.Fatalf("expected ascending distance order, got %v first", places[0].Name)
	}
	if places[0].DistanceKM > places[1].DistanceKM {
		t.Fatal("results are not sorted by distance")
	}
}

func TestFindNearbyGeocodeFailureDegrades(t *testing.T) {
	t.Parallel()

	geo := &fakeGeocoder{geoErr: errors.New("provider down")}
	l := NewLocation(geo)

	places, err := l.FindNearby(context.Background(), "Nowhere", contractx.PlaceGym, 2, 10)
	if err != nil {
		t.Fatalf("geo failure must degrade, got %v", err)
	}
	if len(places) != 0 {
		t.Fatalf("expected empty results, got %d", len(places))
	}
}

func TestFindNearbyUnknownLocation(t *testing.T) {
	t.Parallel()

	l := NewLocation(&fakeGeocoder{origin: nil})

	places, err := l.FindNearby(context.Background(), "xyzzy", contractx.PlaceGym, 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 0 {
		t.Fatalf("expected empty results for an unresolvable location, got %d", len(places))
	}
}

func TestFindNearbyUnsupportedPlaceType(t *testing.T) {
	t.Parallel()

	l := NewLocation(&fakeGeocoder{origin: testOrigin})

	if _, err := l.FindNearby(context.Background(), "Bangkok", contractx.PlaceType("stadium"), 2, 10); !errors.Is(err, contractx.ErrUnsupportedPlaceType) {
		t.Fatalf("expected ErrUnsupportedPlaceType, got %v", err)
	}
}

func TestFindNearbyActivityDeduplicatesByAddress(t *testing.T) {
	t.Parallel()

	shared := nominatim.Place{Name: "Lumpini Park", Address: "Rama IV Rd, Bangkok", Latitude: 13.7522, Longitude: 100.5415}
	track := nominatim.Place{Name: "Lumpini Track", Address: "Rama IV Rd, Bangkok", Latitude: 13.7522, Longitude: 100.5415}
	trail := nominatim.Place{Name: "Canal Trail", Address: "Khlong Saen Saep, Bangkok", Latitude: 13.7500, Longitude: 100.5100}
	geo := &fakeGeocoder{
		origin: &nominatim.Place{Name: "Bangkok", Address: "Bangkok", Latitude: 13.7540, Longitude: 100.5300},
		places: map[string][]nominatim.Place{
			"running track": {track},
			"park":          {shared},
			"trail":         {trail},
		},
	}
	l := NewLocation(geo)

	places, err := l.FindNearbyActivity(context.Background(), "Bangkok", 5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("expected address-level dedupe across categories, got %d results", len(places))
	}
	if len(geo.searches) != 3 {
		t.Fatalf("expected one search per category, got %d", len(geo.searches))
	}
	if places[0].DistanceKM > places[1].DistanceKM {
		t.Fatal("merged results are not sorted by distance")
	}
}

func TestFindNearbyActivitySearchFailureSkipsCategory(t *testing.T) {
	t.Parallel()

	geo := &fakeGeocoder{
		origin:    testOrigin,
		searchErr: errors.New("rate limited"),
	}
	l := NewLocation(geo)

	places, err := l.FindNearbyActivity(context.Background(), "Bangkok", 2, 10)
	if err != nil {
		t.Fatalf("search failures must degrade, got %v", err)
	}
	if len(places) != 0 {
		t.Fatalf("expected empty results, got %d", len(places))
	}
}

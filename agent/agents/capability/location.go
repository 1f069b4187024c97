package capability

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	contractx "github.com/roamfit/roamfit/agent/contract"
	"github.com/roamfit/roamfit/pkg/nominatim"
)

// Geocoder resolves free-form locations and searches for nearby places.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*nominatim.Place, error)
	Search(ctx context.Context, query string, limit int) ([]nominatim.Place, error)
}

// activityPlaceTypes are the categories merged by FindNearbyActivity.
var activityPlaceTypes = []contractx.PlaceType{
	contractx.PlaceRunningTrack,
	contractx.PlacePark,
	contractx.PlaceTrail,
}

// Location finds places suitable for outdoor workouts. Geo failures
// degrade to an empty result list rather than erroring out.
type Location struct {
	geo Geocoder
}

var _ contractx.Locator = (*Location)(nil)

func NewLocation(geo Geocoder) *Location {
	return &Location{geo: geo}
}

func (l *Location) FindNearby(ctx context.Context, location string, placeType contractx.PlaceType, radiusKM float64, limit int) ([]contractx.PlaceResult, error) {
	if _, err := contractx.ParsePlaceType(string(placeType)); err != nil {
		return nil, fmt.Errorf("%w: %q", contractx.ErrUnsupportedPlaceType, placeType)
	}

	origin, err := l.geo.Geocode(ctx, location)
	if err != nil {
		log.Warn().Err(err).Str("location", location).Msg("geocode failed, returning no places")
		return []contractx.PlaceResult{}, nil
	}
	if origin == nil {
		return []contractx.PlaceResult{}, nil
	}

	candidates, err := l.geo.Search(ctx, fmt.Sprintf("%s near %s", placeType, location), limit*2)
	if err != nil {
		log.Warn().Err(err).Str("place_type", string(placeType)).Msg("place search failed, returning no places")
		return []contractx.PlaceResult{}, nil
	}

	results := withinRadius(origin, candidates, radiusKM)
	sortByDistance(results)
	return truncate(results, limit), nil
}

// FindNearbyActivity merges running tracks, parks and trails into one
// distance-ordered list, deduplicated by address.
func (l *Location) FindNearbyActivity(ctx context.Context, location string, radiusKM float64, limit int) ([]contractx.PlaceResult, error) {
	origin, err := l.geo.Geocode(ctx, location)
	if err != nil {
		log.Warn().Err(err).Str("location", location).Msg("geocode failed, returning no places")
		return []contractx.PlaceResult{}, nil
	}
	if origin == nil {
		return []contractx.PlaceResult{}, nil
	}

	perType := limit / 2
	if perType < 1 {
		perType = 1
	}

	var merged []contractx.PlaceResult
	seen := map[string]bool{}
	for _, pt := range activityPlaceTypes {
		candidates, err := l.geo.Search(ctx, fmt.Sprintf("%s near %s", pt, location), perType)
		if err != nil {
			log.Warn().Err(err).Str("place_type", string(pt)).Msg("place search failed, skipping category")
			continue
		}
		for _, res := range withinRadius(origin, candidates, radiusKM) {
			if seen[res.Address] {
				continue
			}
			seen[res.Address] = true
			merged = append(merged, res)
		}
	}

	sortByDistance(merged)
	if merged == nil {
		merged = []contractx.PlaceResult{}
	}
	return truncate(merged, limit), nil
}

func withinRadius(origin *nominatim.Place, candidates []nominatim.Place, radiusKM float64) []contractx.PlaceResult {
	results := make([]contractx.PlaceResult, 0, len(candidates))
	for _, c := range candidates {
		km := haversineKM(origin.Latitude, origin.Longitude, c.Latitude, c.Longitude)
		if km > radiusKM {
			continue
		}
		results = append(results, contractx.PlaceResult{
			Name:       c.Name,
			Address:    c.Address,
			Latitude:   c.Latitude,
			Longitude:  c.Longitude,
			DistanceKM: round2(km),
			DistanceM:  math.Round(km * 1000),
		})
	}
	return results
}

func sortByDistance(results []contractx.PlaceResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKM < results[j].DistanceKM
	})
}

func truncate(results []contractx.PlaceResult, limit int) []contractx.PlaceResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

const earthRadiusKM = 6371

func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

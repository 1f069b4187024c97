package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, UserAgent: "roamfit-test"})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	return client
}

func TestSearchParsesResults(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "roamfit-test" {
			t.Errorf("unexpected user agent %q", got)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("expected json format, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "2" {
			t.Errorf("expected limit 2, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"lat": "13.7563", "lon": "100.5018", "display_name": "Bangkok, Thailand"},
			{"lat": "bogus", "lon": "100.0", "display_name": "Broken Row"}
		]`))
	})

	places, err := client.Search(context.Background(), "gym near Bangkok", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("unparseable coordinates must be skipped, got %d places", len(places))
	}
	if places[0].Name != "Bangkok" {
		t.Fatalf("expected display-name head, got %q", places[0].Name)
	}
	if places[0].Address != "Bangkok, Thailand" {
		t.Fatalf("unexpected address %q", places[0].Address)
	}
	if places[0].Latitude != 13.7563 || places[0].Longitude != 100.5018 {
		t.Fatalf("unexpected coordinates %v,%v", places[0].Latitude, places[0].Longitude)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty query")
	})

	if _, err := client.Search(context.Background(), "   ", 5); err == nil {
		t.Fatal("expected an error for an empty query")
	}
}

func TestSearchHTTPError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	if _, err := client.Search(context.Background(), "gym", 5); err == nil {
		t.Fatal("expected an error on a non-2xx status")
	}
}

func TestGeocodeNoMatch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	place, err := client.Geocode(context.Background(), "xyzzy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place != nil {
		t.Fatalf("expected nil for no match, got %+v", place)
	}
}

func TestGeocodeFirstResult(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Errorf("geocode should request a single result, got limit %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat": "51.5072", "lon": "-0.1276", "display_name": "London, England"}]`))
	})

	place, err := client.Geocode(context.Background(), "London")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place == nil || place.Name != "London" {
		t.Fatalf("unexpected place %+v", place)
	}
}

func TestDisplayNameHead(t *testing.T) {
	t.Parallel()

	if got := displayNameHead("Lumpini Park, Bangkok, Thailand"); got != "Lumpini Park" {
		t.Fatalf("unexpected head %q", got)
	}
	if got := displayNameHead(""); got != "Unknown" {
		t.Fatalf("expected Unknown fallback, got %q", got)
	}
	if got := addressOrDefault(""); got != "Address not available" {
		t.Fatalf("expected address fallback, got %q", got)
	}
}

// Package nominatim is a minimal client for the OSM Nominatim search API,
// covering the geocoding and free-text place search this project needs.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxResponseSizeBytes = 2 << 20

type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" split_words:"true" default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `envconfig:"USER_AGENT" split_words:"true" default:"roamfit"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Option customizes Client.
type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Place is a geocoded location.
type Place struct {
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
}

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func New(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("nominatim base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid nominatim base url: %w", err)
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = "roamfit"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Geocode resolves a location string to coordinates. It returns nil when the
// provider finds no match.
func (c *Client) Geocode(ctx context.Context, query string) (*Place, error) {
	places, err := c.Search(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, nil
	}
	place := places[0]
	return &place, nil
}

// Search runs a free-text place search and returns up to limit results.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, errors.New("search query is empty")
	}
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", trimmed)
	params.Set("limit", strconv.Itoa(limit))

	results, err := c.exec(ctx, params)
	if err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(results))
	for _, r := range results {
		lat, err := strconv.ParseFloat(r.Lat, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(r.Lon, 64)
		if err != nil {
			continue
		}
		places = append(places, Place{
			Name:      displayNameHead(r.DisplayName),
			Address:   addressOrDefault(r.DisplayName),
			Latitude:  lat,
			Longitude: lon,
		})
	}
	return places, nil
}

func (c *Client) exec(ctx context.Context, params url.Values) ([]searchResult, error) {
	endpoint := c.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute nominatim request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read nominatim response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("nominatim http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed []searchResult
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}
	return parsed, nil
}

func displayNameHead(displayName string) string {
	head, _, _ := strings.Cut(displayName, ",")
	head = strings.TrimSpace(head)
	if head == "" {
		return "Unknown"
	}
	return head
}

func addressOrDefault(displayName string) string {
	trimmed := strings.TrimSpace(displayName)
	if trimmed == "" {
		return "Address not available"
	}
	return trimmed
}

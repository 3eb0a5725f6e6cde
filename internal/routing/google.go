package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GoogleConfig configures the Google Directions provider.
type GoogleConfig struct {
	// BaseURL is the directions endpoint.
	BaseURL string
	// APIKey authenticates against the Directions API.
	APIKey string
	// Timeout bounds the directions call.
	Timeout time.Duration
}

// GoogleResolver resolves routes via the Google Directions API. Toll roads
// are detected from per-step instructions, so summaries have TollsKnown=true.
type GoogleResolver struct {
	cfg    GoogleConfig
	client *http.Client
}

// NewGoogleResolver creates a GoogleResolver with defaults applied.
func NewGoogleResolver(cfg GoogleConfig) *GoogleResolver {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://maps.googleapis.com/maps/api/directions/json"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &GoogleResolver{cfg: cfg, client: &http.Client{}}
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Value int64 `json:"value"`
			} `json:"distance"`
			Steps []struct {
				HTMLInstructions string `json:"html_instructions"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// Resolve requests directions pickup → waypoint → destination. Waypoints are
// kept in submitted order; no optimize: prefix is sent.
func (r *GoogleResolver) Resolve(ctx context.Context, pickup, destination, waypoint string) (RouteSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	params := url.Values{}
	params.Set("origin", pickup)
	params.Set("destination", destination)
	params.Set("mode", "driving")
	params.Set("key", r.cfg.APIKey)
	if waypoint != "" {
		params.Set("waypoints", waypoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return RouteSummary{}, &ProviderError{Err: err}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return RouteSummary{}, &ProviderError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RouteSummary{}, &ProviderError{Err: fmt.Errorf("directions API returned status %d", resp.StatusCode)}
	}

	var data directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return RouteSummary{}, &ProviderError{Err: fmt.Errorf("failed to parse directions response: %w", err)}
	}

	switch data.Status {
	case "OK":
	case "NOT_FOUND":
		return RouteSummary{}, &AddressNotFoundError{Address: pickup + " / " + destination}
	case "ZERO_RESULTS":
		return RouteSummary{}, ErrNoRoute
	default:
		return RouteSummary{}, &ProviderError{Err: fmt.Errorf("directions API status %s", data.Status)}
	}

	if len(data.Routes) == 0 {
		return RouteSummary{}, ErrNoRoute
	}

	var totalMeters int64
	hasTolls := false
	for _, leg := range data.Routes[0].Legs {
		totalMeters += leg.Distance.Value
		for _, step := range leg.Steps {
			if strings.Contains(step.HTMLInstructions, "Toll road") {
				hasTolls = true
			}
		}
	}

	return RouteSummary{
		DistanceKm: math.Round(float64(totalMeters)/1000*100) / 100,
		HasTolls:   hasTolls,
		TollsKnown: true,
	}, nil
}

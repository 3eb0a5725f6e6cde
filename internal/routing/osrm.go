package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// OSRMConfig configures the free Nominatim + OSRM provider pair.
type OSRMConfig struct {
	// NominatimURL is the geocoding search endpoint.
	NominatimURL string
	// OSRMURL is the driving route endpoint prefix.
	OSRMURL string
	// CountryCodes restricts geocoding results, e.g. "au".
	CountryCodes string
	// UserAgent identifies the caller; Nominatim's usage policy requires
	// a descriptive value with a contact address.
	UserAgent string
	// GeocodeTimeout bounds each geocoding call.
	GeocodeTimeout time.Duration
	// RouteTimeout bounds the routing call.
	RouteTimeout time.Duration
}

// OSRMResolver resolves routes via Nominatim geocoding and OSRM routing.
// OSRM cannot report toll roads, so summaries have TollsKnown=false.
type OSRMResolver struct {
	cfg    OSRMConfig
	client *http.Client
}

// NewOSRMResolver creates an OSRMResolver with defaults applied.
func NewOSRMResolver(cfg OSRMConfig) *OSRMResolver {
	if cfg.NominatimURL == "" {
		cfg.NominatimURL = "https://nominatim.openstreetmap.org/search"
	}
	if cfg.OSRMURL == "" {
		cfg.OSRMURL = "http://router.project-osrm.org/route/v1/driving"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "MelbourneLimoBooking/1.0 (bookings@melbournelimo.com.au)"
	}
	if cfg.GeocodeTimeout <= 0 {
		cfg.GeocodeTimeout = 8 * time.Second
	}
	if cfg.RouteTimeout <= 0 {
		cfg.RouteTimeout = 10 * time.Second
	}
	return &OSRMResolver{cfg: cfg, client: &http.Client{}}
}

type geocodeResult struct {
	Lon string `json:"lon"`
	Lat string `json:"lat"`
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

// Resolve geocodes each address and routes pickup → waypoint → destination
// in submitted order.
func (r *OSRMResolver) Resolve(ctx context.Context, pickup, destination, waypoint string) (RouteSummary, error) {
	pickupCoords, err := r.geocode(ctx, pickup)
	if err != nil {
		return RouteSummary{}, err
	}

	coords := []string{pickupCoords}
	if waypoint != "" {
		wpCoords, err := r.geocode(ctx, waypoint)
		if err != nil {
			return RouteSummary{}, err
		}
		coords = append(coords, wpCoords)
	}

	destCoords, err := r.geocode(ctx, destination)
	if err != nil {
		return RouteSummary{}, err
	}
	coords = append(coords, destCoords)

	distanceMeters, err := r.route(ctx, coords)
	if err != nil {
		return RouteSummary{}, err
	}

	return RouteSummary{
		DistanceKm: math.Round(distanceMeters/1000*100) / 100,
	}, nil
}

// geocode converts an address to a "lon,lat" pair via Nominatim.
func (r *OSRMResolver) geocode(ctx context.Context, address string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.GeocodeTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	if r.cfg.CountryCodes != "" {
		params.Set("countrycodes", r.cfg.CountryCodes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.NominatimURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", &ProviderError{Err: err}
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &ProviderError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{Err: fmt.Errorf("nominatim returned status %d", resp.StatusCode)}
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", &ProviderError{Err: fmt.Errorf("failed to parse nominatim response: %w", err)}
	}
	if len(results) == 0 {
		return "", &AddressNotFoundError{Address: address}
	}

	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return "", &ProviderError{Err: fmt.Errorf("invalid longitude in nominatim response: %w", err)}
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return "", &ProviderError{Err: fmt.Errorf("invalid latitude in nominatim response: %w", err)}
	}

	return fmt.Sprintf("%f,%f", lon, lat), nil
}

// route requests the total driving distance in meters through the given
// "lon,lat" coordinates.
func (r *OSRMResolver) route(ctx context.Context, coords []string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.RouteTimeout)
	defer cancel()

	routeURL := fmt.Sprintf("%s/%s?overview=false", r.cfg.OSRMURL, strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, routeURL, nil)
	if err != nil {
		return 0, &ProviderError{Err: err}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, &ProviderError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &ProviderError{Err: fmt.Errorf("osrm returned status %d", resp.StatusCode)}
	}

	var data osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, &ProviderError{Err: fmt.Errorf("failed to parse osrm response: %w", err)}
	}

	if data.Code != "Ok" || len(data.Routes) == 0 {
		return 0, ErrNoRoute
	}

	return data.Routes[0].Distance, nil
}

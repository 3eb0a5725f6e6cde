package routing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoogleTestResolver(handler http.HandlerFunc) (*GoogleResolver, func()) {
	srv := httptest.NewServer(handler)
	resolver := NewGoogleResolver(GoogleConfig{BaseURL: srv.URL, APIKey: "test-key"})
	return resolver, srv.Close
}

func TestGoogleResolveSumsLegDistances(t *testing.T) {
	resolver, cleanup := newGoogleTestResolver(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"status": "OK",
			"routes": [{"legs": [
				{"distance": {"value": 12000}, "steps": []},
				{"distance": {"value": 8500}, "steps": []}
			]}]
		}`)
	})
	defer cleanup()

	summary, err := resolver.Resolve(context.Background(), "a", "b", "stop")
	require.NoError(t, err)

	assert.Equal(t, 20.5, summary.DistanceKm)
	assert.True(t, summary.TollsKnown)
	assert.False(t, summary.HasTolls)
}

func TestGoogleResolveDetectsTollRoads(t *testing.T) {
	resolver, cleanup := newGoogleTestResolver(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"status": "OK",
			"routes": [{"legs": [{
				"distance": {"value": 22000},
				"steps": [
					{"html_instructions": "Merge onto CityLink <b>Toll road</b>"},
					{"html_instructions": "Continue straight"}
				]
			}]}]
		}`)
	})
	defer cleanup()

	summary, err := resolver.Resolve(context.Background(), "a", "b", "")
	require.NoError(t, err)

	assert.True(t, summary.HasTolls)
	assert.True(t, summary.TollsKnown)
}

func TestGoogleResolveWaypointInSubmittedOrder(t *testing.T) {
	var gotWaypoints string
	resolver, cleanup := newGoogleTestResolver(func(w http.ResponseWriter, r *http.Request) {
		gotWaypoints = r.URL.Query().Get("waypoints")
		fmt.Fprint(w, `{"status":"OK","routes":[{"legs":[{"distance":{"value":1000},"steps":[]}]}]}`)
	})
	defer cleanup()

	_, err := resolver.Resolve(context.Background(), "a", "b", "extra stop")
	require.NoError(t, err)

	assert.Equal(t, "extra stop", gotWaypoints)
}

func TestGoogleResolveAddressNotFound(t *testing.T) {
	resolver, cleanup := newGoogleTestResolver(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"NOT_FOUND","routes":[]}`)
	})
	defer cleanup()

	_, err := resolver.Resolve(context.Background(), "a", "b", "")

	var addrErr *AddressNotFoundError
	assert.ErrorAs(t, err, &addrErr)
}

func TestGoogleResolveNoRoute(t *testing.T) {
	resolver, cleanup := newGoogleTestResolver(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","routes":[]}`)
	})
	defer cleanup()

	_, err := resolver.Resolve(context.Background(), "a", "b", "")
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestGoogleResolveProviderErrorOnUnexpectedStatus(t *testing.T) {
	resolver, cleanup := newGoogleTestResolver(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"OVER_QUERY_LIMIT","routes":[]}`)
	})
	defer cleanup()

	_, err := resolver.Resolve(context.Background(), "a", "b", "")

	var provErr *ProviderError
	assert.ErrorAs(t, err, &provErr)
}

func TestGoogleResolveProviderErrorOnHTTPFailure(t *testing.T) {
	resolver, cleanup := newGoogleTestResolver(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer cleanup()

	_, err := resolver.Resolve(context.Background(), "a", "b", "")

	var provErr *ProviderError
	assert.ErrorAs(t, err, &provErr)
}

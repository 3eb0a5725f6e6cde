package routing

import (
	"context"
	"errors"
	"fmt"
)

// RouteSummary is what the booking flow needs from a mapping provider.
type RouteSummary struct {
	// DistanceKm is the total driving distance, rounded to two decimals.
	DistanceKm float64

	// HasTolls reports whether the route includes toll roads. Only
	// meaningful when TollsKnown is true.
	HasTolls bool

	// TollsKnown is true when the provider inspected the route for tolls.
	// Providers that cannot report tolls leave it false, and the flow
	// falls back to the rider's declaration.
	TollsKnown bool
}

// Resolver resolves a trip's addresses into a driving route summary.
// The optional waypoint is visited between pickup and destination, in
// submitted order.
type Resolver interface {
	Resolve(ctx context.Context, pickup, destination, waypoint string) (RouteSummary, error)
}

// ErrNoRoute indicates the provider could not find a drivable route
// between the resolved addresses.
var ErrNoRoute = errors.New("no drivable route found between the given addresses")

// AddressNotFoundError indicates an address did not resolve to a location.
type AddressNotFoundError struct {
	Address string
}

func (e *AddressNotFoundError) Error() string {
	return fmt.Sprintf("address not found: %s", e.Address)
}

// ProviderError wraps transport-level failures (timeouts, connection
// errors, unexpected provider responses). It is distinct from address and
// route errors so callers can advise a retry instead of an address fix.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("routing provider unavailable: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

package session

import (
	"context"
	"errors"

	"github.com/melbourne-limo/service-booking/internal/domain/booking"
)

// PendingQuote is the server-held price handoff between calculate and
// confirm. The client never sees or supplies these values directly.
type PendingQuote struct {
	PriceCents int64                  `json:"price_cents"`
	Breakdown  booking.PriceBreakdown `json:"breakdown"`
	HasTolls   bool                   `json:"has_tolls"`
}

// ErrNoPendingQuote indicates no pending price exists for the session,
// either because calculate never ran, the quote expired, or it was already
// consumed by a previous confirm.
var ErrNoPendingQuote = errors.New("no pending quote for session")

// Store holds pending quotes per browsing session with single-consume pops.
type Store interface {
	// SavePending stores the pending quote for the session, replacing any
	// previous one.
	SavePending(ctx context.Context, sessionID string, quote PendingQuote) error

	// PopPriceCents removes and returns the pending price. Returns
	// ErrNoPendingQuote when absent; this is the hard trust check.
	PopPriceCents(ctx context.Context, sessionID string) (int64, error)

	// PopBreakdown removes and returns the pending breakdown, or nil when
	// absent. Display-only, so absence is not an error.
	PopBreakdown(ctx context.Context, sessionID string) (*booking.PriceBreakdown, error)

	// PopHasTolls removes and returns the pending toll flag, defaulting to
	// false when absent.
	PopHasTolls(ctx context.Context, sessionID string) (bool, error)
}

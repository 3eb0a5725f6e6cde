package booking

import (
	"math"

	"github.com/melbourne-limo/service-booking/internal/domain"
)

// Surcharges applied on top of the tier rate card, in cents.
const (
	TollSurchargeCents     int64 = 1850
	BabySeatSurchargeCents int64 = 2000
)

// CurrencyAUD is the only currency the booking flow quotes in.
const CurrencyAUD = "AUD"

// QuoteParams holds the inputs for a price computation.
type QuoteParams struct {
	Tier         ServiceTier
	DistanceKm   float64
	HasExtraStop bool
	HasTolls     bool
	HasBabySeat  bool
	ReturnRide   bool
}

// PriceBreakdown itemizes the components summing to the final price.
// All monetary amounts are integer cents, rounded at computation time.
type PriceBreakdown struct {
	BaseCents     int64   `json:"base_cents"`
	DistanceKm    float64 `json:"distance_km"`
	DistanceCents int64   `json:"distance_cents"`
	StopCents     int64   `json:"stop_cents"`
	TollCents     int64   `json:"toll_cents"`
	BabySeatCents int64   `json:"baby_seat_cents"`
	ReturnRide    bool    `json:"return_ride"`
	SubtotalCents int64   `json:"subtotal_cents"`
	TotalCents    int64   `json:"total_cents"`
}

// ComputeQuote prices a trip against the tier's rate card.
//
// subtotal = base + distance*per_km + stop + toll + baby seat (each surcharge
// only when its flag is set); the total doubles the full subtotal for a
// return ride. The distance charge is the only fractional product and is
// rounded to the nearest cent here, not at display time.
func ComputeQuote(params QuoteParams) (PriceBreakdown, error) {
	if params.DistanceKm < 0 {
		return PriceBreakdown{}, domain.NewValidationError("distance cannot be negative")
	}

	rates := params.Tier.RateCard()

	distanceCents := int64(math.Round(params.DistanceKm * float64(rates.PerKmCents)))

	bd := PriceBreakdown{
		BaseCents:     rates.BaseCents,
		DistanceKm:    params.DistanceKm,
		DistanceCents: distanceCents,
		ReturnRide:    params.ReturnRide,
	}
	if params.HasExtraStop {
		bd.StopCents = rates.StopCents
	}
	if params.HasTolls {
		bd.TollCents = TollSurchargeCents
	}
	if params.HasBabySeat {
		bd.BabySeatCents = BabySeatSurchargeCents
	}

	bd.SubtotalCents = bd.BaseCents + bd.DistanceCents + bd.StopCents + bd.TollCents + bd.BabySeatCents
	bd.TotalCents = bd.SubtotalCents
	if params.ReturnRide {
		bd.TotalCents = bd.SubtotalCents * 2
	}

	return bd, nil
}

package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/melbourne-limo/service-booking/internal/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for a confirmed limo booking. Records are
// created once on confirm and are immutable afterwards.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	passenger     Passenger
	trip          TripDetails
	prefs         Preferences
	card          PaymentCard

	distanceKm float64
	hasTolls   bool
	breakdown  PriceBreakdown

	totalPriceCents int64
	currency        string

	createdAt time.Time
}

// generateBookingNumber creates a booking number in the format "LB-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "LB-" + string(result), nil
}

// NewBooking creates a confirmed Booking. The total price must be the
// server-held quoted price; client-submitted amounts never reach this point.
func NewBooking(
	passenger Passenger,
	trip TripDetails,
	prefs Preferences,
	card PaymentCard,
	distanceKm float64,
	hasTolls bool,
	breakdown PriceBreakdown,
	totalPriceCents int64,
	currency string,
) (*Booking, error) {
	if strings.TrimSpace(trip.PickupAddress) == "" {
		return nil, domain.NewValidationError("pickup address is required")
	}
	if strings.TrimSpace(trip.DestinationAddress) == "" {
		return nil, domain.NewValidationError("destination address is required")
	}
	if !prefs.ServiceTier.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid service tier: %s", prefs.ServiceTier))
	}
	if totalPriceCents <= 0 {
		return nil, domain.NewValidationError("total price must be positive")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:              uuid.New(),
		bookingNumber:   bookingNumber,
		passenger:       passenger,
		trip:            trip,
		prefs:           prefs,
		card:            card,
		distanceKm:      distanceKm,
		hasTolls:        hasTolls,
		breakdown:       breakdown,
		totalPriceCents: totalPriceCents,
		currency:        currency,
		createdAt:       time.Now().UTC(),
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	passenger Passenger,
	trip TripDetails,
	prefs Preferences,
	card PaymentCard,
	distanceKm float64,
	hasTolls bool,
	breakdown PriceBreakdown,
	totalPriceCents int64,
	currency string,
	createdAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		bookingNumber:   bookingNumber,
		passenger:       passenger,
		trip:            trip,
		prefs:           prefs,
		card:            card,
		distanceKm:      distanceKm,
		hasTolls:        hasTolls,
		breakdown:       breakdown,
		totalPriceCents: totalPriceCents,
		currency:        currency,
		createdAt:       createdAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// Passenger returns the passenger details.
func (b *Booking) Passenger() Passenger { return b.passenger }

// Trip returns the trip details.
func (b *Booking) Trip() TripDetails { return b.trip }

// Preferences returns the vehicle and occasion preferences.
func (b *Booking) Preferences() Preferences { return b.prefs }

// PaymentCard returns the masked payment display fields.
func (b *Booking) PaymentCard() PaymentCard { return b.card }

// DistanceKm returns the resolved driving distance.
func (b *Booking) DistanceKm() float64 { return b.distanceKm }

// HasTolls reports whether the priced route includes toll roads.
func (b *Booking) HasTolls() bool { return b.hasTolls }

// Breakdown returns the itemized price breakdown.
func (b *Booking) Breakdown() PriceBreakdown { return b.breakdown }

// TotalPriceCents returns the authoritative total price in cents.
func (b *Booking) TotalPriceCents() int64 { return b.totalPriceCents }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

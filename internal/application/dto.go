package application

import (
	"time"

	"github.com/google/uuid"
	bookingDomain "github.com/melbourne-limo/service-booking/internal/domain/booking"
)

// TripRequest is the normalized, typed form submission. Defaults have been
// applied at the boundary. It deliberately carries no price field; the
// confirmed price only ever comes from the server-held pending quote.
type TripRequest struct {
	PassengerName   string `json:"passenger_name"`
	PassengerNumber string `json:"passenger_number"`
	PassengerEmail  string `json:"passenger_email"`
	Passengers      int    `json:"number_of_passengers"`
	Bags            int    `json:"number_of_bags"`

	PickupAddress      string    `json:"pickup_address"`
	DestinationAddress string    `json:"destination_address"`
	AdditionalStop     string    `json:"additional_stop"`
	FlightNumber       string    `json:"flight_number"`
	PickupDate         time.Time `json:"pickup_date"`
	PickupTime         string    `json:"pickup_time"`

	ServiceType string `json:"limo_service_type"`
	BabySeat    bool   `json:"baby_seat"`
	ReturnRide  bool   `json:"return_ride"`
	// HasTolls is the rider's own declaration, honored only when the
	// routing provider cannot report tolls itself.
	HasTolls bool `json:"has_tolls"`

	SpecialInstruction string `json:"special_instruction"`
	VehicleColour      string `json:"vehicle_colour"`
	WeddingRibbon      string `json:"wedding_ribbon"`
	SpecialSignboard   string `json:"special_signboard"`

	NameOnCard string `json:"name_on_card"`
	CardType   string `json:"card_type"`
	CardNumber string `json:"card_number"`
}

// QuotePreview is the calculate result shown to the user before confirming.
type QuotePreview struct {
	ServiceTier     bookingDomain.ServiceTier    `json:"service_tier"`
	DistanceKm      float64                      `json:"distance_km"`
	HasTolls        bool                         `json:"has_tolls"`
	Breakdown       bookingDomain.PriceBreakdown `json:"breakdown"`
	TotalPriceCents int64                        `json:"total_price_cents"`
	Currency        string                       `json:"currency"`
}

// BookingDTO is the response representation of a persisted booking.
type BookingDTO struct {
	ID              uuid.UUID                    `json:"id"`
	BookingNumber   string                       `json:"booking_number"`
	Passenger       bookingDomain.Passenger      `json:"passenger"`
	Trip            bookingDomain.TripDetails    `json:"trip"`
	Preferences     bookingDomain.Preferences    `json:"preferences"`
	PaymentCard     bookingDomain.PaymentCard    `json:"payment_card"`
	DistanceKm      float64                      `json:"distance_km"`
	HasTolls        bool                         `json:"has_tolls"`
	Breakdown       bookingDomain.PriceBreakdown `json:"breakdown"`
	TotalPriceCents int64                        `json:"total_price_cents"`
	Currency        string                       `json:"currency"`
	CreatedAt       time.Time                    `json:"created_at"`
}

// ConfirmationDTO is the confirm result referencing the persisted record.
// Breakdown and HasTolls are display-only and may be absent when that part
// of the pending state already expired.
type ConfirmationDTO struct {
	Booking   BookingDTO                    `json:"booking"`
	Breakdown *bookingDomain.PriceBreakdown `json:"breakdown,omitempty"`
	HasTolls  bool                          `json:"has_tolls"`
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		Passenger:       bk.Passenger(),
		Trip:            bk.Trip(),
		Preferences:     bk.Preferences(),
		PaymentCard:     bk.PaymentCard(),
		DistanceKm:      bk.DistanceKm(),
		HasTolls:        bk.HasTolls(),
		Breakdown:       bk.Breakdown(),
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		CreatedAt:       bk.CreatedAt(),
	}
}

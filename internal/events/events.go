package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicBookingEvents is the topic carrying booking lifecycle events.
const TopicBookingEvents = "booking.events"

// BookingConfirmed is published after a booking record is persisted.
const BookingConfirmed = "booking.confirmed"

// BookingConfirmedEvent is the payload for BookingConfirmed.
type BookingConfirmedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	BookingNumber   string    `json:"booking_number"`
	PassengerEmail  string    `json:"passenger_email"`
	ServiceTier     string    `json:"service_tier"`
	PickupDate      time.Time `json:"pickup_date"`
	DistanceKm      float64   `json:"distance_km"`
	ReturnRide      bool      `json:"return_ride"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Currency        string    `json:"currency"`
	OccurredAt      time.Time `json:"occurred_at"`
}

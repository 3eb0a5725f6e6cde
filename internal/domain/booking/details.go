package booking

import "time"

// Passenger identifies who the trip is for.
type Passenger struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Passengers int    `json:"passengers"`
	Bags       int    `json:"bags"`
}

// TripDetails is a value object describing the requested trip.
type TripDetails struct {
	PickupAddress      string    `json:"pickup_address"`
	DestinationAddress string    `json:"destination_address"`
	AdditionalStop     string    `json:"additional_stop,omitempty"`
	FlightNumber       string    `json:"flight_number,omitempty"`
	PickupDate         time.Time `json:"pickup_date"`
	PickupTime         string    `json:"pickup_time"`
}

// HasAdditionalStop reports whether the trip includes an extra stop.
func (t TripDetails) HasAdditionalStop() bool {
	return t.AdditionalStop != ""
}

// Preferences holds the vehicle and occasion options for the trip.
type Preferences struct {
	ServiceTier        ServiceTier `json:"service_tier"`
	BabySeat           bool        `json:"baby_seat"`
	ReturnRide         bool        `json:"return_ride"`
	SpecialInstruction string      `json:"special_instruction,omitempty"`
	VehicleColour      string      `json:"vehicle_colour,omitempty"`
	WeddingRibbon      string      `json:"wedding_ribbon,omitempty"`
	SpecialSignboard   string      `json:"special_signboard,omitempty"`
}

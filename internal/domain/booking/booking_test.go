package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTrip() TripDetails {
	return TripDetails{
		PickupAddress:      "1 Spencer St, Melbourne",
		DestinationAddress: "Melbourne Airport T2",
		PickupDate:         time.Now().Add(24 * time.Hour),
		PickupTime:         "09:30",
	}
}

func TestNewBooking(t *testing.T) {
	bk, err := NewBooking(
		Passenger{Name: "Dana Ho", Phone: "0400000000", Email: "dana@example.com", Passengers: 2, Bags: 2},
		validTrip(),
		Preferences{ServiceTier: TierSedan},
		PaymentCard{NameOnCard: "Dana Ho", CardType: "visa", CardNumberMasked: "************1111"},
		10.0,
		false,
		PriceBreakdown{TotalCents: 6500},
		6500,
		CurrencyAUD,
	)
	require.NoError(t, err)

	assert.NotEqual(t, "", bk.ID().String())
	assert.True(t, strings.HasPrefix(bk.BookingNumber(), "LB-"))
	assert.Len(t, bk.BookingNumber(), 9)
	assert.Equal(t, int64(6500), bk.TotalPriceCents())
	assert.Equal(t, CurrencyAUD, bk.Currency())
	assert.False(t, bk.CreatedAt().IsZero())
}

func TestNewBookingRejectsMissingAddresses(t *testing.T) {
	trip := validTrip()
	trip.PickupAddress = "   "

	_, err := NewBooking(Passenger{}, trip, Preferences{ServiceTier: TierSedan}, PaymentCard{}, 10, false, PriceBreakdown{}, 6500, CurrencyAUD)
	assert.Error(t, err)

	trip = validTrip()
	trip.DestinationAddress = ""
	_, err = NewBooking(Passenger{}, trip, Preferences{ServiceTier: TierSedan}, PaymentCard{}, 10, false, PriceBreakdown{}, 6500, CurrencyAUD)
	assert.Error(t, err)
}

func TestNewBookingRejectsNonPositivePrice(t *testing.T) {
	_, err := NewBooking(Passenger{}, validTrip(), Preferences{ServiceTier: TierSedan}, PaymentCard{}, 10, false, PriceBreakdown{}, 0, CurrencyAUD)
	assert.Error(t, err)

	_, err = NewBooking(Passenger{}, validTrip(), Preferences{ServiceTier: TierSedan}, PaymentCard{}, 10, false, PriceBreakdown{}, -100, CurrencyAUD)
	assert.Error(t, err)
}

func TestNewBookingRejectsUnknownTier(t *testing.T) {
	_, err := NewBooking(Passenger{}, validTrip(), Preferences{ServiceTier: "Helicopter"}, PaymentCard{}, 10, false, PriceBreakdown{}, 6500, CurrencyAUD)
	assert.Error(t, err)
}

func TestBookingNumbersAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		n, err := generateBookingNumber()
		require.NoError(t, err)
		assert.False(t, seen[n], "duplicate booking number %s", n)
		seen[n] = true
	}
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "************1111", MaskCardNumber("4111111111111111"))
	assert.Equal(t, "************1111", MaskCardNumber("4111 1111 1111 1111"))
	assert.Equal(t, "****", MaskCardNumber("1234"))
	assert.Equal(t, "", MaskCardNumber(""))
	assert.Equal(t, "", MaskCardNumber("no digits here"))
}

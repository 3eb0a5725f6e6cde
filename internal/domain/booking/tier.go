package booking

// ServiceTier represents a named vehicle class with its own rate card.
type ServiceTier string

const (
	TierSedan   ServiceTier = "Sedan 1-5"
	TierSUV     ServiceTier = "SUV 1-7"
	TierStretch ServiceTier = "Stretch 1-13"
)

// DefaultTier is used when a submitted service type is not recognized.
const DefaultTier = TierSedan

// RateCard holds the per-tier pricing inputs in cents.
type RateCard struct {
	BaseCents  int64 `json:"base_cents"`
	PerKmCents int64 `json:"per_km_cents"`
	StopCents  int64 `json:"stop_cents"`
}

// rateCards is the fixed rate table, strictly increasing across tiers.
var rateCards = map[ServiceTier]RateCard{
	TierSedan:   {BaseCents: 3000, PerKmCents: 350, StopCents: 1500},
	TierSUV:     {BaseCents: 5500, PerKmCents: 550, StopCents: 2500},
	TierStretch: {BaseCents: 13500, PerKmCents: 950, StopCents: 6500},
}

// AllTiers returns the tiers in display order.
func AllTiers() []ServiceTier {
	return []ServiceTier{TierSedan, TierSUV, TierStretch}
}

// IsValid returns true if the tier has a rate card.
func (t ServiceTier) IsValid() bool {
	_, ok := rateCards[t]
	return ok
}

// RateCard returns the rate card for this tier.
func (t ServiceTier) RateCard() RateCard {
	return rateCards[t]
}

// String returns the string representation of the tier.
func (t ServiceTier) String() string {
	return string(t)
}

// ParseServiceTier maps a submitted service type to a tier. Unrecognized
// values fall back to DefaultTier rather than erroring.
func ParseServiceTier(s string) ServiceTier {
	tier := ServiceTier(s)
	if !tier.IsValid() {
		return DefaultTier
	}
	return tier
}

package pricing

import (
	"fmt"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
)

// Tier maps a contiguous attendee-count range to a per-person price.
// A nil max means the tier is open ended ("N+").
type Tier struct {
	min   int
	max   *int
	price money.Money
}

// NewTier validates a single tier.
func NewTier(min int, max *int, pricePerPerson money.Money) (Tier, error) {
	if min < 1 {
		return Tier{}, invalid("tier minimum must be at least 1")
	}
	if max != nil && *max < min {
		return Tier{}, invalid("tier maximum %d is below minimum %d", *max, min)
	}
	if pricePerPerson.Currency() == "" {
		return Tier{}, invalid("tier price is required")
	}
	t := Tier{min: min, price: pricePerPerson}
	if max != nil {
		m := *max
		t.max = &m
	}
	return t, nil
}

func (t Tier) Min() int                    { return t.min }
func (t Tier) PricePerPerson() money.Money { return t.price }
func (t Tier) Unbounded() bool             { return t.max == nil }

// Max returns the upper bound and whether one is set.
func (t Tier) Max() (int, bool) {
	if t.max == nil {
		return 0, false
	}
	return *t.max, true
}

// Covers reports whether the tier applies to n attendees.
func (t Tier) Covers(n int) bool {
	if n < t.min {
		return false
	}
	return t.max == nil || n <= *t.max
}

// Overlaps reports whether two tiers share any attendee count. Two unbounded
// tiers always overlap, whatever their minimums.
func (t Tier) Overlaps(o Tier) bool {
	if t.max == nil && o.max == nil {
		return true
	}
	if t.max == nil {
		return *o.max >= t.min
	}
	if o.max == nil {
		return *t.max >= o.min
	}
	return t.min <= *o.max && o.min <= *t.max
}

func (t Tier) String() string {
	if t.max == nil {
		return fmt.Sprintf("%d+: %s", t.min, t.price)
	}
	return fmt.Sprintf("%d-%d: %s", t.min, *t.max, t.price)
}

// RestoreTier rebuilds a stored tier without validation.
func RestoreTier(min int, max *int, pricePerPerson money.Money) Tier {
	t := Tier{min: min, price: pricePerPerson}
	if max != nil {
		m := *max
		t.max = &m
	}
	return t
}

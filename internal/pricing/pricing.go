// Package pricing resolves per-attendee ticket prices for an event.
//
// A Scheme is one of three kinds: a single flat price, a dual adult/child
// price split on an age limit, or group tiers selected by the number of
// attendees in a registration. Schemes are validated when they are built and
// are immutable afterwards, so a resolved price never needs re-checking.
package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
)

// ErrInvalidPricing wraps every configuration failure.
var ErrInvalidPricing = errors.New("invalid pricing")

// Kind identifies the pricing scheme.
type Kind string

const (
	KindSingle Kind = "single"
	KindDual   Kind = "dual"
	KindTiered Kind = "tiered"
)

// AgeCategory is the attendee classification used by dual pricing.
type AgeCategory string

const (
	Adult AgeCategory = "adult"
	Child AgeCategory = "child"
)

// Valid reports whether c is a known category.
func (c AgeCategory) Valid() bool {
	return c == Adult || c == Child
}

const (
	minChildAgeLimit = 1
	maxChildAgeLimit = 18
)

// Scheme is a validated pricing configuration.
type Scheme struct {
	kind          Kind
	currency      money.Currency
	adult         money.Money
	child         money.Money
	childAgeLimit int
	tiers         []Tier
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPricing, fmt.Sprintf(format, args...))
}

// NewSingle builds a flat-price scheme.
func NewSingle(price money.Money) (Scheme, error) {
	if price.Currency() == "" {
		return Scheme{}, invalid("single price is required")
	}
	return Scheme{kind: KindSingle, currency: price.Currency(), adult: price}, nil
}

// NewDual builds an adult/child scheme. Attendees aged 1..childAgeLimit
// (inclusive) pay the child price.
func NewDual(adult, child money.Money, childAgeLimit int) (Scheme, error) {
	if adult.Currency() == "" {
		return Scheme{}, invalid("adult price is required")
	}
	if child.Currency() == "" {
		return Scheme{}, invalid("child price is required for dual pricing")
	}
	if childAgeLimit < minChildAgeLimit || childAgeLimit > maxChildAgeLimit {
		return Scheme{}, invalid("child age limit must be between %d and %d", minChildAgeLimit, maxChildAgeLimit)
	}
	if adult.Currency() != child.Currency() {
		return Scheme{}, invalid("adult and child prices must use the same currency")
	}
	if child.GreaterThan(adult) {
		return Scheme{}, invalid("child price cannot be greater than adult price")
	}
	return Scheme{
		kind:          KindDual,
		currency:      adult.Currency(),
		adult:         adult,
		child:         child,
		childAgeLimit: childAgeLimit,
	}, nil
}

// NewTiered builds a group scheme. Tiers must start at one attendee, be
// contiguous and non-overlapping, and only the last may be unbounded.
func NewTiered(tiers ...Tier) (Scheme, error) {
	if len(tiers) == 0 {
		return Scheme{}, invalid("at least one tier is required for group pricing")
	}
	currency := tiers[0].price.Currency()
	for _, t := range tiers {
		if t.price.Currency() != currency {
			return Scheme{}, invalid("all tiers must use the same currency")
		}
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].min < sorted[j].min })

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i].Overlaps(sorted[j]) {
				return Scheme{}, invalid("tiers cannot overlap: %s overlaps with %s", sorted[i], sorted[j])
			}
		}
	}
	if sorted[0].min != 1 {
		return Scheme{}, invalid("group pricing tiers must start at 1 attendee")
	}
	for i := 0; i < len(sorted)-1; i++ {
		cur, next := sorted[i], sorted[i+1]
		if cur.Unbounded() {
			return Scheme{}, invalid("only the last tier can be unlimited; tier %s must have a maximum", cur)
		}
		if next.min != *cur.max+1 {
			return Scheme{}, invalid("gap between tier ending at %d and tier starting at %d", *cur.max, next.min)
		}
	}

	return Scheme{kind: KindTiered, currency: currency, tiers: sorted}, nil
}

// WithTier returns a copy of a tiered scheme with t added, validated as a whole.
func (s Scheme) WithTier(t Tier) (Scheme, error) {
	if s.kind != KindTiered {
		return Scheme{}, invalid("tiers can only be added to group pricing")
	}
	tiers := append(s.Tiers(), t)
	return NewTiered(tiers...)
}

func (s Scheme) Kind() Kind                { return s.kind }
func (s Scheme) Currency() money.Currency { return s.currency }
func (s Scheme) AdultPrice() money.Money  { return s.adult }
func (s Scheme) ChildPrice() money.Money  { return s.child }
func (s Scheme) ChildAgeLimit() int       { return s.childAgeLimit }

// Tiers returns a copy of the tiers ordered by minimum attendees.
func (s Scheme) Tiers() []Tier {
	out := make([]Tier, len(s.tiers))
	copy(out, s.tiers)
	return out
}

// IsFree reports whether no attendee could ever be charged.
func (s Scheme) IsFree() bool {
	switch s.kind {
	case KindSingle:
		return s.adult.IsZero()
	case KindDual:
		return s.adult.IsZero() && s.child.IsZero()
	case KindTiered:
		for _, t := range s.tiers {
			if !t.price.IsZero() {
				return false
			}
		}
		return true
	}
	return true
}

// PriceFor resolves the per-person price for one attendee. Group tiers depend
// on the whole registration, so tiered schemes must use TierFor instead.
func (s Scheme) PriceFor(category AgeCategory) (money.Money, error) {
	switch s.kind {
	case KindSingle:
		return s.adult, nil
	case KindDual:
		if category == Child {
			return s.child, nil
		}
		return s.adult, nil
	case KindTiered:
		return money.Money{}, invalid("group pricing is resolved from the attendee count")
	}
	return money.Money{}, invalid("unknown pricing kind %q", s.kind)
}

// IsChildAge reports whether an age qualifies for the child price.
func (s Scheme) IsChildAge(age int) bool {
	return s.kind == KindDual && age > 0 && age <= s.childAgeLimit
}

// PriceForAge resolves the dual price from an explicit age.
func (s Scheme) PriceForAge(age int) (money.Money, error) {
	if s.IsChildAge(age) {
		return s.child, nil
	}
	return s.PriceFor(Adult)
}

// TierFor selects the tier covering attendeeCount.
func (s Scheme) TierFor(attendeeCount int) (Tier, error) {
	if s.kind != KindTiered {
		return Tier{}, invalid("tier lookup is only available for group pricing")
	}
	if attendeeCount < 1 {
		return Tier{}, invalid("attendee count must be at least 1")
	}
	for _, t := range s.tiers {
		if t.Covers(attendeeCount) {
			return t, nil
		}
	}
	return Tier{}, invalid("no tier found for %d attendees", attendeeCount)
}

// Total prices a whole registration given each attendee's category.
func (s Scheme) Total(categories []AgeCategory) (money.Money, error) {
	n := len(categories)
	if n == 0 {
		return money.Money{}, invalid("at least one attendee is required")
	}

	if s.kind == KindTiered {
		t, err := s.TierFor(n)
		if err != nil {
			return money.Money{}, err
		}
		return t.price.Times(n), nil
	}

	total := money.Zero(s.currency)
	for _, c := range categories {
		p, err := s.PriceFor(c)
		if err != nil {
			return money.Money{}, err
		}
		if total, err = total.Add(p); err != nil {
			return money.Money{}, err
		}
	}
	return total, nil
}

func (s Scheme) String() string {
	switch s.kind {
	case KindSingle:
		return "single " + s.adult.String()
	case KindDual:
		return fmt.Sprintf("adult %s, child (<=%d) %s", s.adult, s.childAgeLimit, s.child)
	case KindTiered:
		out := "tiered"
		for _, t := range s.tiers {
			out += " [" + t.String() + "]"
		}
		return out
	}
	return "unknown"
}

// Restore rebuilds a scheme that was validated before it was stored. It
// performs no validation and is meant only for storage adapters.
func Restore(kind Kind, adult, child money.Money, childAgeLimit int, tiers []Tier) Scheme {
	s := Scheme{kind: kind, adult: adult, child: child, childAgeLimit: childAgeLimit}
	switch {
	case kind == KindTiered && len(tiers) > 0:
		s.currency = tiers[0].price.Currency()
		s.tiers = make([]Tier, len(tiers))
		copy(s.tiers, tiers)
	default:
		s.currency = adult.Currency()
	}
	return s
}

type tierJSON struct {
	Min            int         `json:"min"`
	Max            *int        `json:"max"`
	PricePerPerson money.Money `json:"price_per_person"`
}

type schemeJSON struct {
	Kind          Kind           `json:"kind"`
	Currency      money.Currency `json:"currency"`
	AdultPrice    *money.Money   `json:"adult_price,omitempty"`
	ChildPrice    *money.Money   `json:"child_price,omitempty"`
	ChildAgeLimit int            `json:"child_age_limit,omitempty"`
	Tiers         []tierJSON     `json:"tiers,omitempty"`
}

func (s Scheme) MarshalJSON() ([]byte, error) {
	out := schemeJSON{Kind: s.kind, Currency: s.currency}
	switch s.kind {
	case KindSingle:
		out.AdultPrice = &s.adult
	case KindDual:
		out.AdultPrice, out.ChildPrice, out.ChildAgeLimit = &s.adult, &s.child, s.childAgeLimit
	case KindTiered:
		for _, t := range s.tiers {
			out.Tiers = append(out.Tiers, tierJSON{Min: t.min, Max: t.max, PricePerPerson: t.price})
		}
	}
	return json.Marshal(out)
}

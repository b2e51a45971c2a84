package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/pricing"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/revenue"
)

// defaultCurrency prices events that have no pricing scheme.
const defaultCurrency = money.USD

// Quote is the price of an attendee list. Breakdown is nil for free totals.
type Quote struct {
	Total     money.Money        `json:"total"`
	Breakdown *revenue.Breakdown `json:"breakdown,omitempty"`
}

// Pricer prices attendee lists with the platform's fee rates and each
// event's own tax rate.
type Pricer struct {
	fees revenue.Rates
}

func NewPricer(fees revenue.Rates) *Pricer {
	return &Pricer{fees: fees}
}

func (p *Pricer) Quote(e *model.Event, attendees []model.AttendeeDetails) (Quote, error) {
	if e.Pricing == nil {
		return Quote{Total: money.Zero(defaultCurrency)}, nil
	}
	total, err := e.Pricing.Total(model.Categories(attendees))
	if err != nil {
		return Quote{}, err
	}
	total = total.Round()
	if total.IsZero() {
		return Quote{Total: total}, nil
	}

	rates := p.fees
	rates.TaxRate = e.TaxRate
	b, err := revenue.Decompose(total, rates)
	if err != nil {
		return Quote{}, fmt.Errorf("price registration: %w", err)
	}
	return Quote{Total: total, Breakdown: &b}, nil
}

// BuildScheme turns a wire pricing request into a validated scheme.
func BuildScheme(req *model.PricingRequest) (*pricing.Scheme, error) {
	if req == nil {
		return nil, nil
	}
	cur, err := money.ParseCurrency(req.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pricing.ErrInvalidPricing, err)
	}
	parse := func(field, v string) (money.Money, error) {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return money.Money{}, fmt.Errorf("%w: %s %q is not a number", pricing.ErrInvalidPricing, field, v)
		}
		m, err := money.New(d, cur)
		if err != nil {
			return money.Money{}, fmt.Errorf("%w: %s: %v", pricing.ErrInvalidPricing, field, err)
		}
		return m, nil
	}

	var s pricing.Scheme
	switch req.Kind {
	case pricing.KindSingle:
		adult, err := parse("adult_price", req.AdultPrice)
		if err != nil {
			return nil, err
		}
		s, err = pricing.NewSingle(adult)
		if err != nil {
			return nil, err
		}
	case pricing.KindDual:
		adult, err := parse("adult_price", req.AdultPrice)
		if err != nil {
			return nil, err
		}
		child, err := parse("child_price", req.ChildPrice)
		if err != nil {
			return nil, err
		}
		s, err = pricing.NewDual(adult, child, req.ChildAgeLimit)
		if err != nil {
			return nil, err
		}
	case pricing.KindTiered:
		tiers := make([]pricing.Tier, 0, len(req.Tiers))
		for i, tr := range req.Tiers {
			price, err := parse(fmt.Sprintf("tiers[%d].price_per_person", i), tr.PricePerPerson)
			if err != nil {
				return nil, err
			}
			t, err := pricing.NewTier(tr.Min, tr.Max, price)
			if err != nil {
				return nil, err
			}
			tiers = append(tiers, t)
		}
		s, err = pricing.NewTiered(tiers...)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown pricing kind %q", pricing.ErrInvalidPricing, req.Kind)
	}
	return &s, nil
}

// BuildAttendees validates wire attendees.
func BuildAttendees(in []model.AttendeeRequest) ([]model.AttendeeDetails, error) {
	out := make([]model.AttendeeDetails, 0, len(in))
	var errs []error
	for i, a := range in {
		att, err := model.NewAttendee(a.Name, a.AgeCategory, a.Gender)
		if err != nil {
			errs = append(errs, fmt.Errorf("attendees[%d]: %w", i, err))
			continue
		}
		out = append(out, att)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

package repository

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/pricing"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/revenue"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/waitlist"
)

// validID reports whether id can address a UUID column. Anything else cannot
// match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func parseRate(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode tax rate %q: %w", v, err)
	}
	return d, nil
}

// JSONB documents. Amounts are decimal strings in the document's currency.

type tierRow struct {
	Min   int    `json:"min"`
	Max   *int   `json:"max,omitempty"`
	Price string `json:"price"`
}

type pricingRow struct {
	Kind          pricing.Kind   `json:"kind"`
	Currency      money.Currency `json:"currency"`
	Adult         string         `json:"adult,omitempty"`
	Child         string         `json:"child,omitempty"`
	ChildAgeLimit int            `json:"child_age_limit,omitempty"`
	Tiers         []tierRow      `json:"tiers,omitempty"`
}

type attendeeRow struct {
	Name        string              `json:"name"`
	AgeCategory pricing.AgeCategory `json:"age_category"`
	Gender      string              `json:"gender,omitempty"`
}

type breakdownRow struct {
	Currency          money.Currency `json:"currency"`
	Gross             string         `json:"gross"`
	SalesTax          string         `json:"sales_tax"`
	Taxable           string         `json:"taxable"`
	ProcessorFee      string         `json:"processor_fee"`
	Commission        string         `json:"platform_commission"`
	Payout            string         `json:"organizer_payout"`
	TaxRate           string         `json:"tax_rate"`
	CommissionRate    string         `json:"commission_rate"`
	ProcessorFeeRate  string         `json:"processor_fee_rate"`
	ProcessorFeeFixed string         `json:"processor_fee_fixed"`
}

type submissionRow struct {
	UserID    string        `json:"user_id,omitempty"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Address   string        `json:"address,omitempty"`
	Attendees []attendeeRow `json:"attendees"`
}

func encodePricing(s *pricing.Scheme) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	row := pricingRow{Kind: s.Kind(), Currency: s.Currency()}
	switch s.Kind() {
	case pricing.KindSingle:
		row.Adult = s.AdultPrice().Amount().String()
	case pricing.KindDual:
		row.Adult = s.AdultPrice().Amount().String()
		row.Child = s.ChildPrice().Amount().String()
		row.ChildAgeLimit = s.ChildAgeLimit()
	case pricing.KindTiered:
		for _, t := range s.Tiers() {
			tr := tierRow{Min: t.Min(), Price: t.PricePerPerson().Amount().String()}
			if hi, ok := t.Max(); ok {
				tr.Max = &hi
			}
			row.Tiers = append(row.Tiers, tr)
		}
	}
	return json.Marshal(row)
}

func decodePricing(raw []byte) (*pricing.Scheme, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var row pricingRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode pricing: %w", err)
	}
	amount := func(v string) (money.Money, error) {
		if v == "" {
			return money.Zero(row.Currency), nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return money.Money{}, fmt.Errorf("decode pricing amount %q: %w", v, err)
		}
		return money.New(d, row.Currency)
	}
	adult, err := amount(row.Adult)
	if err != nil {
		return nil, err
	}
	child, err := amount(row.Child)
	if err != nil {
		return nil, err
	}
	tiers := make([]pricing.Tier, 0, len(row.Tiers))
	for _, tr := range row.Tiers {
		price, err := amount(tr.Price)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, pricing.RestoreTier(tr.Min, tr.Max, price))
	}
	s := pricing.Restore(row.Kind, adult, child, row.ChildAgeLimit, tiers)
	return &s, nil
}

func attendeeRows(in []model.AttendeeDetails) []attendeeRow {
	out := make([]attendeeRow, len(in))
	for i, a := range in {
		out[i] = attendeeRow{Name: a.Name(), AgeCategory: a.AgeCategory(), Gender: a.Gender()}
	}
	return out
}

func restoreAttendees(rows []attendeeRow) []model.AttendeeDetails {
	out := make([]model.AttendeeDetails, len(rows))
	for i, r := range rows {
		out[i] = model.RestoreAttendee(r.Name, r.AgeCategory, r.Gender)
	}
	return out
}

func encodeAttendees(in []model.AttendeeDetails) ([]byte, error) {
	return json.Marshal(attendeeRows(in))
}

func decodeAttendees(raw []byte) ([]model.AttendeeDetails, error) {
	var rows []attendeeRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode attendees: %w", err)
	}
	return restoreAttendees(rows), nil
}

func encodeBreakdown(b *revenue.Breakdown) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	r := b.Rates()
	return json.Marshal(breakdownRow{
		Currency:          b.Gross().Currency(),
		Gross:             b.Gross().Amount().String(),
		SalesTax:          b.SalesTax().Amount().String(),
		Taxable:           b.Taxable().Amount().String(),
		ProcessorFee:      b.ProcessorFee().Amount().String(),
		Commission:        b.PlatformCommission().Amount().String(),
		Payout:            b.OrganizerPayout().Amount().String(),
		TaxRate:           r.TaxRate.String(),
		CommissionRate:    r.CommissionRate.String(),
		ProcessorFeeRate:  r.ProcessorFeeRate.String(),
		ProcessorFeeFixed: r.ProcessorFeeFixed.String(),
	})
}

func decodeBreakdown(raw []byte) (*revenue.Breakdown, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var row breakdownRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode breakdown: %w", err)
	}

	var firstErr error
	dec := func(v string) decimal.Decimal {
		d, err := decimal.NewFromString(v)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("decode breakdown value %q: %w", v, err)
		}
		return d
	}
	amt := func(v string) money.Money {
		m, err := money.New(dec(v), row.Currency)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("decode breakdown: %w", err)
		}
		return m
	}

	rates := revenue.Rates{
		TaxRate:           dec(row.TaxRate),
		CommissionRate:    dec(row.CommissionRate),
		ProcessorFeeRate:  dec(row.ProcessorFeeRate),
		ProcessorFeeFixed: dec(row.ProcessorFeeFixed),
	}
	b := revenue.Restore(amt(row.Gross), amt(row.SalesTax), amt(row.Taxable),
		amt(row.ProcessorFee), amt(row.Commission), amt(row.Payout), rates)
	if firstErr != nil {
		return nil, firstErr
	}
	return &b, nil
}

func encodeSubmission(s model.Submission) ([]byte, error) {
	return json.Marshal(submissionRow{
		UserID:    s.UserID,
		Email:     s.Contact.Email,
		Phone:     s.Contact.Phone,
		Address:   s.Contact.Address,
		Attendees: attendeeRows(s.Attendees),
	})
}

func decodeSubmission(raw []byte) (model.Submission, error) {
	var row submissionRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return model.Submission{}, fmt.Errorf("decode submission: %w", err)
	}
	return model.Submission{
		UserID:    row.UserID,
		Contact:   model.Contact{Email: row.Email, Phone: row.Phone, Address: row.Address},
		Attendees: restoreAttendees(row.Attendees),
	}, nil
}

// sameQueue reports whether two waitlist snapshots hold the same users in
// the same order.
func sameQueue(a, b []waitlist.Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].UserID != b[i].UserID || a[i].Position != b[i].Position {
			return false
		}
	}
	return true
}

// Package money provides a decimal monetary amount tied to a currency.
// Arithmetic keeps full precision; rounding to minor units happens only when
// a caller asks for it.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch is returned when two amounts in different currencies
// are combined.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrInvalidAmount is returned for negative or otherwise unusable amounts.
var ErrInvalidAmount = errors.New("invalid amount")

// Currency is an ISO 4217 code.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	LKR Currency = "LKR"
	AUD Currency = "AUD"
	CAD Currency = "CAD"
	INR Currency = "INR"
	IDR Currency = "IDR"
	JPY Currency = "JPY"
)

var exponents = map[Currency]int32{
	USD: 2, EUR: 2, GBP: 2, LKR: 2, AUD: 2, CAD: 2, INR: 2,
	// Payment gateways settle these in whole units.
	IDR: 0, JPY: 0,
}

// ParseCurrency normalises and checks a currency code.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := exponents[c]; !ok {
		return "", fmt.Errorf("%w: unsupported currency %q", ErrInvalidAmount, code)
	}
	return c, nil
}

// Exponent is the number of minor-unit digits.
func (c Currency) Exponent() int32 {
	return exponents[c]
}

// Money is an immutable non-negative amount.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New validates and builds a Money value.
func New(amount decimal.Decimal, currency Currency) (Money, error) {
	if _, ok := exponents[currency]; !ok {
		return Money{}, fmt.Errorf("%w: unsupported currency %q", ErrInvalidAmount, currency)
	}
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: amount cannot be negative", ErrInvalidAmount)
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustParse is for constants and tests; it panics on bad input.
func MustParse(amount string, currency Currency) Money {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		panic(err)
	}
	m, err := New(d, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero amount in the currency.
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// FromMinor converts integer minor units (e.g. cents) back to Money.
func FromMinor(units int64, currency Currency) (Money, error) {
	return New(decimal.New(units, -currency.Exponent()), currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }

// Round rounds half away from zero to the currency's minor unit.
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(m.currency.Exponent()), currency: m.currency}
}

// MinorUnits returns the rounded amount as integer minor units.
func (m Money) MinorUnits() int64 {
	return m.amount.Shift(m.currency.Exponent()).Round(0).IntPart()
}

// Add sums two amounts of the same currency.
func (m Money) Add(o Money) (Money, error) {
	if m.currency != o.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return Money{amount: m.amount.Add(o.amount), currency: m.currency}, nil
}

// Times multiplies by a whole quantity.
func (m Money) Times(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n))), currency: m.currency}
}

func (m Money) GreaterThan(o Money) bool { return m.amount.GreaterThan(o.amount) }
func (m Money) Equal(o Money) bool {
	return m.currency == o.currency && m.amount.Equal(o.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(m.currency.Exponent()) + " " + string(m.currency)
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON renders the amount as a fixed-point string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.StringFixed(m.currency.Exponent()), Currency: m.currency})
}

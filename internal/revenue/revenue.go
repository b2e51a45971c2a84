// Package revenue splits a tax-inclusive charge into sales tax, processor
// fee, platform commission and organizer payout.
package revenue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
)

var (
	// ErrNegativePayout means the charge cannot cover the fees.
	ErrNegativePayout = errors.New("negative payout")
	// ErrInvalidRates is returned for out-of-range rate configuration.
	ErrInvalidRates = errors.New("invalid revenue rates")
)

var maxTaxRate = decimal.RequireFromString("0.5")

// Rates configures a decomposition. ProcessorFeeFixed is interpreted in the
// currency of the gross amount.
type Rates struct {
	TaxRate           decimal.Decimal
	CommissionRate    decimal.Decimal
	ProcessorFeeRate  decimal.Decimal
	ProcessorFeeFixed decimal.Decimal
}

// DefaultRates returns the platform's standard fees with the given tax rate.
func DefaultRates(taxRate decimal.Decimal) Rates {
	return Rates{
		TaxRate:           taxRate,
		CommissionRate:    decimal.RequireFromString("0.02"),
		ProcessorFeeRate:  decimal.RequireFromString("0.029"),
		ProcessorFeeFixed: decimal.RequireFromString("0.30"),
	}
}

// Validate checks rate bounds.
func (r Rates) Validate() error {
	if r.TaxRate.IsNegative() || r.TaxRate.GreaterThan(maxTaxRate) {
		return fmt.Errorf("%w: tax rate must be between 0 and 0.5, got %s", ErrInvalidRates, r.TaxRate)
	}
	if !fraction(r.CommissionRate) {
		return fmt.Errorf("%w: commission rate must be in [0, 1), got %s", ErrInvalidRates, r.CommissionRate)
	}
	if !fraction(r.ProcessorFeeRate) {
		return fmt.Errorf("%w: processor fee rate must be in [0, 1), got %s", ErrInvalidRates, r.ProcessorFeeRate)
	}
	if r.ProcessorFeeFixed.IsNegative() {
		return fmt.Errorf("%w: fixed processor fee cannot be negative", ErrInvalidRates)
	}
	return nil
}

func fraction(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(decimal.NewFromInt(1))
}

// Breakdown is the result of a decomposition. Every amount is rounded to the
// currency's minor unit and taxable = processor fee + commission + payout.
type Breakdown struct {
	gross      money.Money
	salesTax   money.Money
	taxable    money.Money
	processor  money.Money
	commission money.Money
	payout     money.Money
	rates      Rates
}

// Decompose reverses tax out of gross and allocates the taxable amount.
func Decompose(gross money.Money, rates Rates) (Breakdown, error) {
	if err := rates.Validate(); err != nil {
		return Breakdown{}, err
	}
	cur := gross.Currency()
	if cur == "" {
		return Breakdown{}, fmt.Errorf("%w: gross amount has no currency", money.ErrInvalidAmount)
	}
	if gross.IsZero() {
		z := money.Zero(cur)
		return Breakdown{gross: z, salesTax: z, taxable: z, processor: z, commission: z, payout: z, rates: rates}, nil
	}

	exp := cur.Exponent()
	g := gross.Amount()
	taxable := g.Div(decimal.NewFromInt(1).Add(rates.TaxRate))
	fee := taxable.Mul(rates.ProcessorFeeRate).Add(rates.ProcessorFeeFixed)
	commission := taxable.Mul(rates.CommissionRate)

	if taxable.Sub(fee).Sub(commission).IsNegative() {
		return Breakdown{}, fmt.Errorf("%w: charge of %s does not cover processor fee %s and commission %s",
			ErrNegativePayout, gross, fee.StringFixed(exp), commission.StringFixed(exp))
	}

	taxableR := taxable.Round(exp)
	feeR := fee.Round(exp)
	commissionR := commission.Round(exp)
	payoutR := taxableR.Sub(feeR).Sub(commissionR)
	if payoutR.IsNegative() {
		return Breakdown{}, fmt.Errorf("%w: rounded payout for %s is %s", ErrNegativePayout, gross, payoutR.StringFixed(exp))
	}

	return Breakdown{
		gross:      gross.Round(),
		salesTax:   amount(g.Round(exp).Sub(taxableR), cur),
		taxable:    amount(taxableR, cur),
		processor:  amount(feeR, cur),
		commission: amount(commissionR, cur),
		payout:     amount(payoutR, cur),
		rates:      rates,
	}, nil
}

// amount wraps an already-checked, non-negative value.
func amount(d decimal.Decimal, cur money.Currency) money.Money {
	m, err := money.New(d, cur)
	if err != nil {
		return money.Zero(cur)
	}
	return m
}

// Restore rebuilds a stored breakdown without recomputing it. Only storage
// adapters should call it.
func Restore(gross, salesTax, taxable, processorFee, commission, payout money.Money, rates Rates) Breakdown {
	return Breakdown{
		gross:      gross,
		salesTax:   salesTax,
		taxable:    taxable,
		processor:  processorFee,
		commission: commission,
		payout:     payout,
		rates:      rates,
	}
}

func (b Breakdown) Gross() money.Money              { return b.gross }
func (b Breakdown) SalesTax() money.Money           { return b.salesTax }
func (b Breakdown) Taxable() money.Money            { return b.taxable }
func (b Breakdown) ProcessorFee() money.Money       { return b.processor }
func (b Breakdown) PlatformCommission() money.Money { return b.commission }
func (b Breakdown) OrganizerPayout() money.Money    { return b.payout }
func (b Breakdown) Rates() Rates                    { return b.rates }

type breakdownJSON struct {
	Gross              money.Money     `json:"gross"`
	SalesTax           money.Money     `json:"sales_tax"`
	Taxable            money.Money     `json:"taxable"`
	ProcessorFee       money.Money     `json:"processor_fee"`
	PlatformCommission money.Money     `json:"platform_commission"`
	OrganizerPayout    money.Money     `json:"organizer_payout"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	CommissionRate     decimal.Decimal `json:"commission_rate"`
	ProcessorFeeRate   decimal.Decimal `json:"processor_fee_rate"`
	ProcessorFeeFixed  decimal.Decimal `json:"processor_fee_fixed"`
}

// MarshalJSON renders the amounts and the rates that produced them.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(breakdownJSON{
		Gross:              b.gross,
		SalesTax:           b.salesTax,
		Taxable:            b.taxable,
		ProcessorFee:       b.processor,
		PlatformCommission: b.commission,
		OrganizerPayout:    b.payout,
		TaxRate:            b.rates.TaxRate,
		CommissionRate:     b.rates.CommissionRate,
		ProcessorFeeRate:   b.rates.ProcessorFeeRate,
		ProcessorFeeFixed:  b.rates.ProcessorFeeFixed,
	})
}

package revenue

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
)

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDecompose(t *testing.T) {
	tests := []struct {
		name       string
		gross      string
		taxRate    string
		salesTax   string
		taxable    string
		fee        string
		commission string
		payout     string
	}{
		{"sales tax 7.25%", "25.00", "0.0725", "1.69", "23.31", "0.98", "0.47", "21.86"},
		{"sales tax 7%", "100.00", "0.07", "6.54", "93.46", "3.01", "1.87", "88.58"},
		{"no tax", "100.00", "0", "0.00", "100.00", "3.20", "2.00", "94.80"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Decompose(money.MustParse(tt.gross, money.USD), DefaultRates(rate(tt.taxRate)))
			require.NoError(t, err)

			assert.Equal(t, tt.salesTax, b.SalesTax().Amount().StringFixed(2))
			assert.Equal(t, tt.taxable, b.Taxable().Amount().StringFixed(2))
			assert.Equal(t, tt.fee, b.ProcessorFee().Amount().StringFixed(2))
			assert.Equal(t, tt.commission, b.PlatformCommission().Amount().StringFixed(2))
			assert.Equal(t, tt.payout, b.OrganizerPayout().Amount().StringFixed(2))

			sum := b.ProcessorFee().Amount().Add(b.PlatformCommission().Amount()).Add(b.OrganizerPayout().Amount())
			assert.True(t, sum.Equal(b.Taxable().Amount()))
			assert.True(t, b.SalesTax().Amount().Add(b.Taxable().Amount()).Equal(b.Gross().Amount()))
		})
	}
}

func TestDecompose_ZeroGross(t *testing.T) {
	b, err := Decompose(money.Zero(money.USD), DefaultRates(rate("0.1")))
	require.NoError(t, err)

	for _, m := range []money.Money{b.Gross(), b.SalesTax(), b.Taxable(), b.ProcessorFee(), b.PlatformCommission(), b.OrganizerPayout()} {
		assert.True(t, m.IsZero())
	}
	assert.True(t, b.Rates().TaxRate.Equal(rate("0.1")))
}

func TestDecompose_NegativePayout(t *testing.T) {
	_, err := Decompose(money.MustParse("0.20", money.USD), DefaultRates(decimal.Zero))
	require.ErrorIs(t, err, ErrNegativePayout)
	assert.Contains(t, err.Error(), "negative payout")
}

func TestDecompose_PayoutNeverNegative(t *testing.T) {
	for cents := int64(1); cents <= 2000; cents += 7 {
		gross, err := money.FromMinor(cents, money.USD)
		require.NoError(t, err)

		b, err := Decompose(gross, DefaultRates(rate("0.0725")))
		if err != nil {
			assert.ErrorIs(t, err, ErrNegativePayout)
			continue
		}
		assert.False(t, b.OrganizerPayout().Amount().IsNegative(), "gross %s", gross)
	}
}

func TestDecompose_ZeroExponentCurrency(t *testing.T) {
	b, err := Decompose(money.MustParse("150000", money.IDR), Rates{
		TaxRate:           rate("0.11"),
		CommissionRate:    rate("0.02"),
		ProcessorFeeRate:  rate("0.029"),
		ProcessorFeeFixed: rate("2000"),
	})
	require.NoError(t, err)

	// 150000 / 1.11 = 135135.135...
	assert.Equal(t, "135135", b.Taxable().Amount().String())
	assert.Equal(t, "14865", b.SalesTax().Amount().String())
	assert.Equal(t, int64(135135), b.Taxable().MinorUnits())
}

func TestRates_Validate(t *testing.T) {
	tests := []struct {
		name  string
		rates Rates
	}{
		{"tax above half", DefaultRates(rate("0.51"))},
		{"negative tax", DefaultRates(rate("-0.01"))},
		{"commission of one", Rates{CommissionRate: rate("1"), ProcessorFeeRate: rate("0.029")}},
		{"negative fixed fee", Rates{ProcessorFeeFixed: rate("-0.3")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompose(money.MustParse("10", money.USD), tt.rates)
			assert.ErrorIs(t, err, ErrInvalidRates)
		})
	}

	assert.NoError(t, DefaultRates(rate("0.5")).Validate())
}

func TestBreakdown_MarshalJSON(t *testing.T) {
	b, err := Decompose(money.MustParse("25.00", money.USD), DefaultRates(rate("0.0725")))
	require.NoError(t, err)

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	payout := got["organizer_payout"].(map[string]any)
	assert.Equal(t, "21.86", payout["amount"])
	assert.Equal(t, "0.0725", got["tax_rate"])
}

package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsNegativeAndUnknownCurrency(t *testing.T) {
	_, err := New(decimal.NewFromInt(-1), USD)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = New(decimal.NewFromInt(1), Currency("XXX"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" usd ")
	require.NoError(t, err)
	assert.Equal(t, USD, c)

	_, err = ParseCurrency("BTC")
	assert.Error(t, err)
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		cur    Currency
		want   int64
	}{
		{"25.00", USD, 2500},
		{"0.305", USD, 31},
		{"0.3049", USD, 30},
		{"150000", IDR, 150000},
		{"1200.6", JPY, 1201},
	}
	for _, tt := range tests {
		t.Run(tt.amount+string(tt.cur), func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.amount, tt.cur).MinorUnits())
		})
	}
}

func TestFromMinor_RoundTrip(t *testing.T) {
	m, err := FromMinor(2186, USD)
	require.NoError(t, err)
	assert.Equal(t, "21.86 USD", m.String())
	assert.Equal(t, int64(2186), m.MinorUnits())
}

func TestAdd_CurrencyMismatch(t *testing.T) {
	_, err := MustParse("1", USD).Add(MustParse("1", EUR))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	sum, err := MustParse("1.10", USD).Add(MustParse("2.25", USD))
	require.NoError(t, err)
	assert.True(t, sum.Equal(MustParse("3.35", USD)))
}

func TestTimesAndRound(t *testing.T) {
	m := MustParse("12.005", USD).Times(3)
	assert.Equal(t, "36.015", m.Amount().String())
	assert.Equal(t, "36.02", m.Round().Amount().StringFixed(2))
}

func TestMarshalJSON(t *testing.T) {
	b, err := json.Marshal(MustParse("15", USD))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"15.00","currency":"USD"}`, string(b))
}

package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/pricing"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/revenue"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/waitlist"
)

func intp(n int) *int { return &n }

func TestPricingDocument_TieredKeepsBoundsAndPrices(t *testing.T) {
	small, err := pricing.NewTier(1, intp(4), money.MustParse("15", money.USD))
	require.NoError(t, err)
	large, err := pricing.NewTier(5, nil, money.MustParse("12.50", money.USD))
	require.NoError(t, err)
	scheme, err := pricing.NewTiered(small, large)
	require.NoError(t, err)

	raw, err := encodePricing(&scheme)
	require.NoError(t, err)
	got, err := decodePricing(raw)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, pricing.KindTiered, got.Kind())
	tier, err := got.TierFor(7)
	require.NoError(t, err)
	assert.True(t, tier.Unbounded())
	assert.Equal(t, "12.50 USD", tier.PricePerPerson().String())

	total, err := got.Total([]pricing.AgeCategory{pricing.Adult, pricing.Adult, pricing.Adult})
	require.NoError(t, err)
	assert.Equal(t, "45.00 USD", total.String())
}

func TestPricingDocument_Dual(t *testing.T) {
	scheme, err := pricing.NewDual(money.MustParse("2500", money.LKR), money.MustParse("1000", money.LKR), 12)
	require.NoError(t, err)

	raw, err := encodePricing(&scheme)
	require.NoError(t, err)
	got, err := decodePricing(raw)
	require.NoError(t, err)

	assert.Equal(t, 12, got.ChildAgeLimit())
	price, err := got.PriceForAge(8)
	require.NoError(t, err)
	assert.True(t, price.Equal(money.MustParse("1000", money.LKR)))
}

func TestPricingDocument_NilIsFreeEvent(t *testing.T) {
	raw, err := encodePricing(nil)
	require.NoError(t, err)
	assert.Nil(t, raw)

	got, err := decodePricing(raw)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBreakdownDocument_KeepsFullPrecisionRates(t *testing.T) {
	b, err := revenue.Decompose(money.MustParse("25.00", money.USD), revenue.DefaultRates(decimal.RequireFromString("0.0725")))
	require.NoError(t, err)

	raw, err := encodeBreakdown(&b)
	require.NoError(t, err)
	got, err := decodeBreakdown(raw)
	require.NoError(t, err)

	assert.Equal(t, b.OrganizerPayout().String(), got.OrganizerPayout().String())
	assert.Equal(t, b.SalesTax().String(), got.SalesTax().String())
	assert.True(t, got.Rates().TaxRate.Equal(decimal.RequireFromString("0.0725")))
	assert.True(t, got.Rates().ProcessorFeeFixed.Equal(decimal.RequireFromString("0.30")))

	_, err = decodeBreakdown([]byte(`{"currency":"USD","gross":"abc"}`))
	assert.Error(t, err)
}

func TestSubmissionDocument(t *testing.T) {
	c, err := model.NewContact("Nimal@Example.com", "+94771234567", "Galle Road")
	require.NoError(t, err)
	adult, err := model.NewAttendee("Nimal", pricing.Adult, "male")
	require.NoError(t, err)
	child, err := model.NewAttendee("Sanduni", pricing.Child, "")
	require.NoError(t, err)
	sub := model.Submission{UserID: "u-42", Contact: c, Attendees: []model.AttendeeDetails{adult, child}}

	raw, err := encodeSubmission(sub)
	require.NoError(t, err)
	got, err := decodeSubmission(raw)
	require.NoError(t, err)

	assert.Equal(t, sub.UserID, got.UserID)
	assert.Equal(t, "nimal@example.com", got.Contact.Email)
	require.Len(t, got.Attendees, 2)
	assert.Equal(t, pricing.Child, got.Attendees[1].AgeCategory())
	require.NoError(t, got.Validate())
}

func TestSameQueue(t *testing.T) {
	at := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	a := []waitlist.Entry{{UserID: "a", Position: 1, JoinedAt: at}, {UserID: "b", Position: 2, JoinedAt: at}}
	b := []waitlist.Entry{{UserID: "b", Position: 1, JoinedAt: at}}

	assert.True(t, sameQueue(a, a))
	assert.True(t, sameQueue(nil, []waitlist.Entry{}))
	assert.False(t, sameQueue(a, b))
	assert.False(t, sameQueue(a[:1], b))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("7d444840-9dc0-11d1-b245-5ffdce74fad2"))
	assert.False(t, validID("missing"))
	assert.False(t, validID(""))
}

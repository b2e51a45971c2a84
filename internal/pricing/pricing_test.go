package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
)

func usd(a string) money.Money { return money.MustParse(a, money.USD) }

func intp(n int) *int { return &n }

func mustTier(t *testing.T, min int, max *int, price string) Tier {
	t.Helper()
	tier, err := NewTier(min, max, usd(price))
	require.NoError(t, err)
	return tier
}

func TestSingle(t *testing.T) {
	s, err := NewSingle(usd("20"))
	require.NoError(t, err)

	for _, c := range []AgeCategory{Adult, Child} {
		p, err := s.PriceFor(c)
		require.NoError(t, err)
		assert.True(t, p.Equal(usd("20")))
	}

	total, err := s.Total([]AgeCategory{Adult, Child, Adult})
	require.NoError(t, err)
	assert.True(t, total.Equal(usd("60")))
	assert.False(t, s.IsFree())

	_, err = NewSingle(money.Money{})
	assert.ErrorIs(t, err, ErrInvalidPricing)
}

func TestDual(t *testing.T) {
	s, err := NewDual(usd("30"), usd("10"), 12)
	require.NoError(t, err)

	p, err := s.PriceFor(Child)
	require.NoError(t, err)
	assert.True(t, p.Equal(usd("10")))

	tests := []struct {
		age  int
		want string
	}{
		{age: 1, want: "10"},
		{age: 12, want: "10"},
		{age: 13, want: "30"},
		{age: 40, want: "30"},
		{age: 0, want: "30"},
	}
	for _, tt := range tests {
		p, err := s.PriceForAge(tt.age)
		require.NoError(t, err)
		assert.True(t, p.Equal(usd(tt.want)), "age %d", tt.age)
	}

	total, err := s.Total([]AgeCategory{Adult, Child, Child})
	require.NoError(t, err)
	assert.True(t, total.Equal(usd("50")))
}

func TestDual_Validation(t *testing.T) {
	tests := []struct {
		name  string
		adult money.Money
		child money.Money
		limit int
	}{
		{"child above adult", usd("10"), usd("11"), 12},
		{"limit zero", usd("10"), usd("5"), 0},
		{"limit above 18", usd("10"), usd("5"), 19},
		{"currency mismatch", usd("10"), money.MustParse("5", money.EUR), 12},
		{"missing child", usd("10"), money.Money{}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDual(tt.adult, tt.child, tt.limit)
			assert.ErrorIs(t, err, ErrInvalidPricing)
		})
	}
}

func TestTiered_SelectsTierByCount(t *testing.T) {
	s, err := NewTiered(
		mustTier(t, 3, nil, "12"),
		mustTier(t, 1, intp(2), "15"),
	)
	require.NoError(t, err)

	tier, err := s.TierFor(2)
	require.NoError(t, err)
	assert.True(t, tier.PricePerPerson().Equal(usd("15")))

	tier, err = s.TierFor(5)
	require.NoError(t, err)
	assert.True(t, tier.PricePerPerson().Equal(usd("12")))

	total, err := s.Total(make([]AgeCategory, 5))
	require.NoError(t, err)
	assert.True(t, total.Equal(usd("60")))

	_, err = s.TierFor(0)
	assert.ErrorIs(t, err, ErrInvalidPricing)

	_, err = s.PriceFor(Adult)
	assert.ErrorIs(t, err, ErrInvalidPricing)
}

func TestTiered_WithOverlappingTierRejected(t *testing.T) {
	s, err := NewTiered(mustTier(t, 1, intp(2), "15"), mustTier(t, 3, nil, "12"))
	require.NoError(t, err)

	_, err = s.WithTier(mustTier(t, 2, intp(4), "13"))
	require.ErrorIs(t, err, ErrInvalidPricing)
	assert.Contains(t, err.Error(), "overlap")

	assert.Len(t, s.Tiers(), 2)
}

func TestTiered_Validation(t *testing.T) {
	tests := []struct {
		name  string
		tiers func(t *testing.T) []Tier
		msg   string
	}{
		{
			name:  "empty",
			tiers: func(t *testing.T) []Tier { return nil },
			msg:   "at least one tier",
		},
		{
			name: "two unbounded tiers",
			tiers: func(t *testing.T) []Tier {
				return []Tier{mustTier(t, 1, nil, "10"), mustTier(t, 50, nil, "8")}
			},
			msg: "overlap",
		},
		{
			name: "does not start at one",
			tiers: func(t *testing.T) []Tier {
				return []Tier{mustTier(t, 2, nil, "10")}
			},
			msg: "start at 1",
		},
		{
			name: "gap",
			tiers: func(t *testing.T) []Tier {
				return []Tier{mustTier(t, 1, intp(2), "10"), mustTier(t, 4, nil, "8")}
			},
			msg: "gap",
		},
		{
			name: "currency mismatch",
			tiers: func(t *testing.T) []Tier {
				eur, err := NewTier(3, nil, money.MustParse("8", money.EUR))
				require.NoError(t, err)
				return []Tier{mustTier(t, 1, intp(2), "10"), eur}
			},
			msg: "currency",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTiered(tt.tiers(t)...)
			require.ErrorIs(t, err, ErrInvalidPricing)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestNewTier_Validation(t *testing.T) {
	_, err := NewTier(0, nil, usd("1"))
	assert.ErrorIs(t, err, ErrInvalidPricing)

	_, err = NewTier(5, intp(4), usd("1"))
	assert.ErrorIs(t, err, ErrInvalidPricing)
}

func TestTiered_EveryCountMapsToOneTier(t *testing.T) {
	tiers := []Tier{
		mustTier(t, 1, intp(3), "20"),
		mustTier(t, 4, intp(9), "18"),
		mustTier(t, 10, nil, "15"),
	}
	s, err := NewTiered(tiers...)
	require.NoError(t, err)

	for n := 1; n <= 40; n++ {
		matches := 0
		for _, tier := range s.Tiers() {
			if tier.Covers(n) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "count %d", n)
	}
}

func TestTierOverlaps(t *testing.T) {
	a := mustTier(t, 1, intp(2), "1")
	b := mustTier(t, 3, nil, "1")
	c := mustTier(t, 2, intp(4), "1")

	assert.False(t, a.Overlaps(b))
	assert.True(t, a.Overlaps(c))
	assert.True(t, c.Overlaps(b))
	assert.True(t, b.Overlaps(mustTier(t, 100, nil, "1")))
}

func TestIsFree(t *testing.T) {
	free, err := NewSingle(usd("0"))
	require.NoError(t, err)
	assert.True(t, free.IsFree())

	tiered, err := NewTiered(mustTier(t, 1, nil, "0"))
	require.NoError(t, err)
	assert.True(t, tiered.IsFree())
}

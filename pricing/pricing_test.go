package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightDiscountLadder(t *testing.T) {
	tests := []struct {
		weightKg int
		want     string
	}{
		{1, "0"},
		{2, "0.05"},
		{3, "0.1"},
		{4, "0.15"},
		{5, "0.2"},
		// "≥" ladder: anything above the top tier takes the top fraction
		{6, "0.2"},
		{10, "0.2"},
		// below domain: no discount
		{0, "0"},
	}
	for _, tt := range tests {
		got := WeightDiscount(tt.weightKg)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
			"WeightDiscount(%d) = %s, want %s", tt.weightKg, got, tt.want)
	}
}

func TestWeightDiscountNonDecreasing(t *testing.T) {
	prev := decimal.Zero
	for kg := 1; kg <= 10; kg++ {
		got := WeightDiscount(kg)
		assert.True(t, got.GreaterThanOrEqual(prev), "discount dropped at %d kg", kg)
		prev = got
	}
}

func TestPriceLine(t *testing.T) {
	lp, err := PriceLine(decimal.NewFromFloat(20.00), 3, 2)
	require.NoError(t, err)

	assert.True(t, lp.BasePrice.Equal(decimal.NewFromInt(120)), "base = %s", lp.BasePrice)
	assert.True(t, lp.DiscountFraction.Equal(decimal.NewFromFloat(0.10)))
	assert.True(t, lp.FinalPrice.Equal(decimal.NewFromInt(108)), "final = %s", lp.FinalPrice)
	assert.True(t, lp.Savings.Equal(decimal.NewFromInt(12)), "savings = %s", lp.Savings)
}

func TestPriceLineDeterministic(t *testing.T) {
	a, err := PriceLine(decimal.NewFromFloat(17.35), 4, 3)
	require.NoError(t, err)
	b, err := PriceLine(decimal.NewFromFloat(17.35), 4, 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPriceLineFinalEqualsBaseMinusSavings(t *testing.T) {
	prices := []float64{0.01, 2.49, 19.99, 20.00, 123.456}
	for _, p := range prices {
		for kg := 1; kg <= 5; kg++ {
			for qty := 1; qty <= 4; qty++ {
				lp, err := PriceLine(decimal.NewFromFloat(p), kg, qty)
				require.NoError(t, err)
				assert.True(t, lp.FinalPrice.Equal(lp.BasePrice.Sub(lp.Savings)),
					"drift at price=%v kg=%d qty=%d", p, kg, qty)
			}
		}
	}
}

func TestPriceLineRejectsBadInput(t *testing.T) {
	_, err := PriceLine(decimal.Zero, 3, 1)
	assert.ErrorIs(t, err, ErrBadUnitPrice)

	_, err = PriceLine(decimal.NewFromFloat(-5), 3, 1)
	assert.ErrorIs(t, err, ErrBadUnitPrice)

	_, err = PriceLine(decimal.NewFromInt(10), 0, 1)
	assert.ErrorIs(t, err, ErrBadWeight)

	_, err = PriceLine(decimal.NewFromInt(10), 3, 0)
	assert.ErrorIs(t, err, ErrBadQuantity)

	_, err = PriceLine(decimal.NewFromInt(10), 3, -2)
	assert.ErrorIs(t, err, ErrBadQuantity)
}

func TestPriceCartEmpty(t *testing.T) {
	totals, err := PriceCart(nil)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.WeightDiscountTotal.IsZero())
	assert.True(t, totals.AfterWeightDiscount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestPriceCartSums(t *testing.T) {
	lines := []Line{
		{ProductID: "p1", UnitPrice: decimal.NewFromFloat(20.00), WeightKg: 3, Quantity: 2}, // 120 - 12
		{ProductID: "p2", UnitPrice: decimal.NewFromFloat(10.00), WeightKg: 1, Quantity: 1}, // 10 - 0
		{ProductID: "p3", UnitPrice: decimal.NewFromFloat(8.00), WeightKg: 5, Quantity: 1},  // 40 - 8
	}

	totals, err := PriceCart(lines)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(170)), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.WeightDiscountTotal.Equal(decimal.NewFromInt(20)), "weight discount = %s", totals.WeightDiscountTotal)
	assert.True(t, totals.AfterWeightDiscount.Equal(decimal.NewFromInt(150)))
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(150)))
}

func TestPriceCartRejectsBadLine(t *testing.T) {
	lines := []Line{
		{ProductID: "p1", UnitPrice: decimal.NewFromFloat(20.00), WeightKg: 3, Quantity: -1},
	}
	_, err := PriceCart(lines)
	assert.ErrorIs(t, err, ErrBadQuantity)
}

func TestRoundedOnlyAtBoundary(t *testing.T) {
	// 3 kg of 19.99/kg: base 59.97, savings 5.997 held at full precision,
	// two decimals only in the rounded view.
	lp, err := PriceLine(decimal.NewFromFloat(19.99), 3, 1)
	require.NoError(t, err)

	assert.True(t, lp.Savings.Equal(decimal.NewFromFloat(5.997)))

	r := lp.Rounded()
	assert.Equal(t, 59.97, r.BasePrice)
	assert.Equal(t, 6.00, r.Savings)
	assert.Equal(t, 53.97, r.FinalPrice)
}

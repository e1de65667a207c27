package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaika/models"
	"zaika/pricing"
)

func pricedTestView(t *testing.T) View {
	t.Helper()
	// 3 kg at 20.00/kg, twice: subtotal 120, weight savings 12, after 108
	totals, err := pricing.PriceCart([]pricing.Line{
		{ProductID: "pA", UnitPrice: decimal.NewFromInt(20), WeightKg: 3, Quantity: 2},
	})
	require.NoError(t, err)
	return View{Lines: []LineView{}, Totals: totals}
}

func TestApplyDiscountAcceptsValidCode(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	view := pricedTestView(t)

	dc := models.DiscountCode{
		Code:       "SAVE10",
		Type:       models.DiscountPercentage,
		Value:      10,
		ValidFrom:  now.Add(-24 * time.Hour),
		ValidUntil: now.Add(24 * time.Hour),
		IsActive:   true,
	}

	got := applyDiscount(view, dc, now)
	require.NoError(t, got.CodeErr)

	rounded := got.Totals.Rounded()
	assert.Equal(t, "SAVE10", rounded.Code)
	assert.InDelta(t, 10.80, rounded.CodeDiscountAmount, 0.001)
	assert.InDelta(t, 97.20, rounded.Total, 0.001)
}

func TestApplyDiscountRejectionKeepsCodeFreeTotals(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	view := pricedTestView(t)

	dc := models.DiscountCode{
		Code:       "SAVE10",
		Type:       models.DiscountPercentage,
		Value:      10,
		ValidFrom:  now.Add(-24 * time.Hour),
		ValidUntil: now.Add(24 * time.Hour),
		IsActive:   false,
	}

	got := applyDiscount(view, dc, now)
	require.ErrorIs(t, got.CodeErr, pricing.ErrCodeInactive)

	// the cart still prices itself without the code
	rounded := got.Totals.Rounded()
	assert.Empty(t, rounded.Code)
	assert.Zero(t, rounded.CodeDiscountAmount)
	assert.InDelta(t, 108.00, rounded.Total, 0.001)
}

package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaika/models"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// validCode returns a code that passes every check against cartTotals.
func validCode() Code {
	return Code{
		Code:       "SAVE10",
		Type:       models.DiscountPercentage,
		Value:      decimal.NewFromInt(10),
		ValidFrom:  now.Add(-24 * time.Hour),
		ValidUntil: now.Add(24 * time.Hour),
		Active:     true,
	}
}

// cartTotals prices the reference cart: one line 20.00/kg × 3 kg × 2,
// subtotal 120.00, after weight discount 108.00.
func cartTotals(t *testing.T) Totals {
	t.Helper()
	totals, err := PriceCart([]Line{
		{ProductID: "p1", UnitPrice: decimal.NewFromFloat(20.00), WeightKg: 3, Quantity: 2},
	})
	require.NoError(t, err)
	return totals
}

func TestApplyCodePercentage(t *testing.T) {
	got, err := ApplyCode(cartTotals(t), validCode(), now)
	require.NoError(t, err)

	// 10% of 108.00, not of the raw 120.00 subtotal.
	assert.True(t, got.CodeDiscountAmount.Equal(decimal.NewFromFloat(10.8)), "discount = %s", got.CodeDiscountAmount)
	assert.True(t, got.Total.Equal(decimal.NewFromFloat(97.2)), "total = %s", got.Total)
	assert.Equal(t, "SAVE10", got.Code)
}

func TestApplyCodePercentageCapped(t *testing.T) {
	c := validCode()
	c.MaxDiscount = decimal.NewFromInt(5)

	got, err := ApplyCode(cartTotals(t), c, now)
	require.NoError(t, err)

	assert.True(t, got.CodeDiscountAmount.Equal(decimal.NewFromInt(5)))
	assert.True(t, got.Total.Equal(decimal.NewFromInt(103)), "total = %s", got.Total)
}

func TestApplyCodeFixedClampedToCart(t *testing.T) {
	c := validCode()
	c.Type = models.DiscountFixed
	c.Value = decimal.NewFromInt(500)

	got, err := ApplyCode(cartTotals(t), c, now)
	require.NoError(t, err)

	assert.True(t, got.CodeDiscountAmount.Equal(decimal.NewFromInt(108)))
	assert.True(t, got.Total.IsZero(), "total = %s", got.Total)
}

func TestApplyCodeFixed(t *testing.T) {
	c := validCode()
	c.Type = models.DiscountFixed
	c.Value = decimal.NewFromInt(25)

	got, err := ApplyCode(cartTotals(t), c, now)
	require.NoError(t, err)

	assert.True(t, got.Total.Equal(decimal.NewFromInt(83)))
}

func TestApplyCodeInactive(t *testing.T) {
	c := validCode()
	c.Active = false

	_, err := ApplyCode(cartTotals(t), c, now)
	assert.ErrorIs(t, err, ErrCodeInactive)
}

func TestApplyCodeExpired(t *testing.T) {
	c := validCode()
	c.ValidUntil = now.Add(-time.Hour)

	_, err := ApplyCode(cartTotals(t), c, now)
	assert.ErrorIs(t, err, ErrCodeExpired)

	c = validCode()
	c.ValidFrom = now.Add(time.Hour)

	_, err = ApplyCode(cartTotals(t), c, now)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestApplyCodeWindowInclusive(t *testing.T) {
	c := validCode()
	c.ValidFrom = now
	c.ValidUntil = now

	_, err := ApplyCode(cartTotals(t), c, now)
	assert.NoError(t, err)
}

func TestApplyCodeExhausted(t *testing.T) {
	// Exhaustion wins regardless of other validity fields.
	c := validCode()
	c.UsageLimit = 1
	c.TimesUsed = 1

	_, err := ApplyCode(cartTotals(t), c, now)
	assert.ErrorIs(t, err, ErrCodeExhausted)
}

func TestApplyCodeUnlimitedUsage(t *testing.T) {
	c := validCode()
	c.UsageLimit = 0
	c.TimesUsed = 100000

	_, err := ApplyCode(cartTotals(t), c, now)
	assert.NoError(t, err)
}

func TestApplyCodeMinimumNotMet(t *testing.T) {
	c := validCode()
	c.MinPurchase = decimal.NewFromInt(200)

	_, err := ApplyCode(cartTotals(t), c, now)
	assert.ErrorIs(t, err, ErrMinimumNotMet)
}

func TestApplyCodeMinimumAgainstDiscountedSubtotal(t *testing.T) {
	// The floor compares against 108.00 (after weight discount), not 120.00.
	c := validCode()
	c.MinPurchase = decimal.NewFromInt(110)

	_, err := ApplyCode(cartTotals(t), c, now)
	assert.ErrorIs(t, err, ErrMinimumNotMet)
}

func TestApplyCodeEmptyCart(t *testing.T) {
	empty, err := PriceCart(nil)
	require.NoError(t, err)

	// Positive minimum rejects an empty cart.
	c := validCode()
	c.MinPurchase = decimal.NewFromFloat(0.01)
	_, err = ApplyCode(empty, c, now)
	assert.ErrorIs(t, err, ErrMinimumNotMet)

	// No minimum: code applies, total stays zero.
	got, err := ApplyCode(empty, validCode(), now)
	require.NoError(t, err)
	assert.True(t, got.Total.IsZero())
	assert.True(t, got.CodeDiscountAmount.IsZero())
}

func TestApplyCodeUnknownType(t *testing.T) {
	c := validCode()
	c.Type = "buy_one_get_one"

	_, err := ApplyCode(cartTotals(t), c, now)
	assert.Error(t, err)
}

func TestApplyCodeDoesNotMutateInput(t *testing.T) {
	totals := cartTotals(t)
	before := totals

	_, err := ApplyCode(totals, validCode(), now)
	require.NoError(t, err)
	assert.Equal(t, before, totals)
}

func TestCodeFromModel(t *testing.T) {
	dc := models.DiscountCode{
		Code:              "WELCOME",
		Type:              models.DiscountFixed,
		Value:             15,
		MinPurchaseAmount: 50,
		MaxDiscountAmount: 0,
		ValidFrom:         now,
		ValidUntil:        now.Add(time.Hour),
		UsageLimit:        3,
		TimesUsed:         1,
		IsActive:          true,
	}

	c := CodeFromModel(dc)
	assert.Equal(t, "WELCOME", c.Code)
	assert.True(t, c.Value.Equal(decimal.NewFromInt(15)))
	assert.True(t, c.MinPurchase.Equal(decimal.NewFromInt(50)))
	assert.True(t, c.MaxDiscount.IsZero())
	assert.Equal(t, 3, c.UsageLimit)
	assert.True(t, c.Active)
}

package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"zaika/models"
)

// Discount-code rejection reasons. All are recoverable: the cart keeps
// pricing itself without the code and checkout is otherwise unaffected.
var (
	ErrCodeNotFound  = errors.New("discount code not found")
	ErrCodeInactive  = errors.New("discount code is inactive")
	ErrCodeExpired   = errors.New("discount code is expired")
	ErrCodeExhausted = errors.New("discount code usage limit reached")
	ErrMinimumNotMet = errors.New("cart does not meet the code's minimum purchase amount")
)

// Code is the engine's view of a stored discount code. Zero MinPurchase
// means no floor; zero MaxDiscount means no cap; zero UsageLimit means
// unlimited redemptions.
type Code struct {
	Code        string
	Type        string
	Value       decimal.Decimal
	MinPurchase decimal.Decimal
	MaxDiscount decimal.Decimal
	ValidFrom   time.Time
	ValidUntil  time.Time
	UsageLimit  int
	TimesUsed   int
	Active      bool
}

// CodeFromModel converts a stored discount code into the engine's decimal
// representation.
func CodeFromModel(dc models.DiscountCode) Code {
	return Code{
		Code:        dc.Code,
		Type:        dc.Type,
		Value:       decimal.NewFromFloat(dc.Value),
		MinPurchase: decimal.NewFromFloat(dc.MinPurchaseAmount),
		MaxDiscount: decimal.NewFromFloat(dc.MaxDiscountAmount),
		ValidFrom:   dc.ValidFrom,
		ValidUntil:  dc.ValidUntil,
		UsageLimit:  dc.UsageLimit,
		TimesUsed:   dc.TimesUsed,
		Active:      dc.IsActive,
	}
}

var hundred = decimal.NewFromInt(100)

// ApplyCode validates c against t and, on success, returns a copy of t with
// CodeDiscountAmount and Total set. The discount is always computed against
// AfterWeightDiscount, never the raw subtotal, and never exceeds it.
//
// ApplyCode is pure: it does not increment TimesUsed. That effect happens
// exactly once per order, at checkout time, via the store's conditional
// increment.
func ApplyCode(t Totals, c Code, now time.Time) (Totals, error) {
	if !c.Active {
		return t, ErrCodeInactive
	}
	// Validity window is inclusive on both ends.
	if now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return t, ErrCodeExpired
	}
	if c.UsageLimit > 0 && c.TimesUsed >= c.UsageLimit {
		return t, ErrCodeExhausted
	}
	if c.MinPurchase.IsPositive() && t.AfterWeightDiscount.LessThan(c.MinPurchase) {
		return t, ErrMinimumNotMet
	}

	var raw decimal.Decimal
	switch c.Type {
	case models.DiscountPercentage:
		raw = t.AfterWeightDiscount.Mul(c.Value).Div(hundred)
		if c.MaxDiscount.IsPositive() && raw.GreaterThan(c.MaxDiscount) {
			raw = c.MaxDiscount
		}
	case models.DiscountFixed:
		raw = c.Value
	default:
		return t, fmt.Errorf("pricing: unknown discount type %q", c.Type)
	}

	if raw.GreaterThan(t.AfterWeightDiscount) {
		raw = t.AfterWeightDiscount
	}
	if raw.IsNegative() {
		raw = decimal.Zero
	}

	t.CodeDiscountAmount = raw
	t.Total = t.AfterWeightDiscount.Sub(raw)
	t.Code = c.Code
	return t, nil
}

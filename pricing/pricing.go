// Package pricing computes cart and line prices for per-kilogram products.
// It is pure computation: no database access, no mutation of anything outside
// its inputs. All arithmetic is done with decimals at full precision; rounding
// to 2 decimal places happens only at the display/persist boundary via
// Rounded().
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Bulk discount ladder. A pack weight earns the highest tier whose threshold
// it meets ("≥" ladder), so weights above 5 kg still get the 5 kg fraction.
var weightTiers = []struct {
	minKg    int
	fraction decimal.Decimal
}{
	{1, decimal.Zero},
	{2, decimal.NewFromFloat(0.05)},
	{3, decimal.NewFromFloat(0.10)},
	{4, decimal.NewFromFloat(0.15)},
	{5, decimal.NewFromFloat(0.20)},
}

var (
	ErrBadUnitPrice = errors.New("pricing: unit price must be positive")
	ErrBadWeight    = errors.New("pricing: pack weight must be at least 1 kg")
	ErrBadQuantity  = errors.New("pricing: quantity must be at least 1")
)

// WeightDiscount returns the bulk discount fraction for a pack weight in
// kilograms. Weights below 1 kg are out of domain and earn no discount;
// callers validate before pricing.
func WeightDiscount(weightKg int) decimal.Decimal {
	fraction := decimal.Zero
	for _, t := range weightTiers {
		if weightKg >= t.minKg {
			fraction = t.fraction
		}
	}
	return fraction
}

// Line is one (product, pack weight) pairing with a quantity. UnitPrice is
// the current per-kg catalog price; the engine never trusts client prices.
type Line struct {
	ProductID string
	UnitPrice decimal.Decimal
	WeightKg  int
	Quantity  int
}

// LinePrice is the priced view of a single line.
type LinePrice struct {
	BasePrice        decimal.Decimal
	DiscountFraction decimal.Decimal
	FinalPrice       decimal.Decimal
	Savings          decimal.Decimal
}

// PriceLine prices one line: base = unitPrice × weight × quantity, then the
// weight-tier discount. Inputs outside the domain are caller errors and are
// rejected, not clamped.
func PriceLine(unitPrice decimal.Decimal, weightKg, quantity int) (LinePrice, error) {
	if !unitPrice.IsPositive() {
		return LinePrice{}, ErrBadUnitPrice
	}
	if weightKg < 1 {
		return LinePrice{}, ErrBadWeight
	}
	if quantity < 1 {
		return LinePrice{}, ErrBadQuantity
	}

	base := unitPrice.Mul(decimal.NewFromInt(int64(weightKg))).Mul(decimal.NewFromInt(int64(quantity)))
	fraction := WeightDiscount(weightKg)
	savings := base.Mul(fraction)

	return LinePrice{
		BasePrice:        base,
		DiscountFraction: fraction,
		FinalPrice:       base.Sub(savings),
		Savings:          savings,
	}, nil
}

// Totals is the derived priced view of a cart. It is ephemeral and recomputed
// on every render; the source of truth is the line list plus whichever
// discount code, if any, is currently applied.
type Totals struct {
	Subtotal            decimal.Decimal
	WeightDiscountTotal decimal.Decimal
	AfterWeightDiscount decimal.Decimal
	CodeDiscountAmount  decimal.Decimal
	Total               decimal.Decimal
	Code                string
}

// PriceCart sums PriceLine across all lines. An empty cart prices to zero,
// not an error.
func PriceCart(lines []Line) (Totals, error) {
	t := Totals{
		Subtotal:            decimal.Zero,
		WeightDiscountTotal: decimal.Zero,
		AfterWeightDiscount: decimal.Zero,
		CodeDiscountAmount:  decimal.Zero,
		Total:               decimal.Zero,
	}
	for _, l := range lines {
		lp, err := PriceLine(l.UnitPrice, l.WeightKg, l.Quantity)
		if err != nil {
			return Totals{}, err
		}
		t.Subtotal = t.Subtotal.Add(lp.BasePrice)
		t.WeightDiscountTotal = t.WeightDiscountTotal.Add(lp.Savings)
	}
	t.AfterWeightDiscount = t.Subtotal.Sub(t.WeightDiscountTotal)
	t.Total = t.AfterWeightDiscount
	return t, nil
}

// RoundedLine is the 2-dp boundary view of a LinePrice.
type RoundedLine struct {
	BasePrice        float64 `json:"base_price"`
	DiscountFraction float64 `json:"discount_fraction"`
	FinalPrice       float64 `json:"final_price"`
	Savings          float64 `json:"savings"`
}

func (lp LinePrice) Rounded() RoundedLine {
	return RoundedLine{
		BasePrice:        lp.BasePrice.Round(2).InexactFloat64(),
		DiscountFraction: lp.DiscountFraction.InexactFloat64(),
		FinalPrice:       lp.FinalPrice.Round(2).InexactFloat64(),
		Savings:          lp.Savings.Round(2).InexactFloat64(),
	}
}

// RoundedTotals is the 2-dp boundary view of Totals, used for JSON responses
// and for the amounts snapshotted onto an order.
type RoundedTotals struct {
	Subtotal            float64 `json:"subtotal"`
	WeightDiscountTotal float64 `json:"weight_discount_total"`
	AfterWeightDiscount float64 `json:"after_weight_discount"`
	CodeDiscountAmount  float64 `json:"code_discount_amount"`
	Total               float64 `json:"total"`
	Code                string  `json:"discount_code,omitempty"`
}

func (t Totals) Rounded() RoundedTotals {
	return RoundedTotals{
		Subtotal:            t.Subtotal.Round(2).InexactFloat64(),
		WeightDiscountTotal: t.WeightDiscountTotal.Round(2).InexactFloat64(),
		AfterWeightDiscount: t.AfterWeightDiscount.Round(2).InexactFloat64(),
		CodeDiscountAmount:  t.CodeDiscountAmount.Round(2).InexactFloat64(),
		Total:               t.Total.Round(2).InexactFloat64(),
		Code:                t.Code,
	}
}

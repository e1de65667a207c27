package models

import "time"

// Order statuses.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// OrderLine snapshots one cart line at checkout time, including the unit
// price that was current when the order was placed.
type OrderLine struct {
	ProductID        string  `json:"productid" bson:"productid"`
	Name             string  `json:"name" bson:"name"`
	UnitPrice        float64 `json:"unit_price" bson:"unit_price"` // per kg at checkout
	WeightKg         int     `json:"weight_kg" bson:"weight_kg"`
	Quantity         int     `json:"quantity" bson:"quantity"`
	BasePrice        float64 `json:"base_price" bson:"base_price"`
	DiscountFraction float64 `json:"discount_fraction" bson:"discount_fraction"`
	FinalPrice       float64 `json:"final_price" bson:"final_price"`
}

// Order is an immutable snapshot of a priced cart. Its amounts are written
// once at checkout and replayed verbatim on every later read; they are never
// recomputed even if catalog prices or discount rules change.
type Order struct {
	OrderID             string      `json:"orderId" bson:"orderId"`
	UserID              string      `json:"userId" bson:"userId"`
	Lines               []OrderLine `json:"lines" bson:"lines"`
	Address             Address     `json:"address" bson:"address"`
	PaymentMethod       string      `json:"paymentMethod" bson:"paymentMethod"`
	Subtotal            float64     `json:"subtotal" bson:"subtotal"`
	WeightDiscountTotal float64     `json:"weight_discount_total" bson:"weight_discount_total"`
	DiscountCode        string      `json:"discount_code,omitempty" bson:"discount_code,omitempty"`
	CodeDiscountAmount  float64     `json:"code_discount_amount" bson:"code_discount_amount"`
	Total               float64     `json:"total" bson:"total"`
	Status              string      `json:"status" bson:"status"`
	CreatedAt           time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt" bson:"updatedAt"`
}

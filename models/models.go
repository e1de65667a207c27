package models

import "time"

type Response struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Product is a catalog item priced per kilogram and sold in 1–5 kg packs.
type Product struct {
	ProductID   string    `json:"productid" bson:"productid"`
	Name        string    `json:"name" bson:"name"`
	Slug        string    `json:"slug,omitempty" bson:"slug,omitempty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"` // e.g. "spices", "dry-fruits", "grains"
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	ShortDesc   string    `json:"short_desc,omitempty" bson:"short_desc,omitempty"`
	PricePerKg  float64   `json:"price_per_kg" bson:"price_per_kg"`
	Stock       int       `json:"stock" bson:"stock"` // in kilograms
	StockStatus string    `json:"stock_status,omitempty" bson:"stock_status,omitempty"`
	Origin      string    `json:"origin,omitempty" bson:"origin,omitempty"`
	Rating      float64   `json:"rating,omitempty" bson:"rating,omitempty"` // average, 0.0–5.0
	ReviewCount int       `json:"review_count,omitempty" bson:"review_count,omitempty"`
	Tags        []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
	CreatedBy   string    `json:"created_by,omitempty" bson:"created_by,omitempty"`
}

// CartLine is one (product, pack weight) pairing in a user's cart.
// At most one line exists per (userId, productid, weight_kg); adding the
// same pair again increments quantity.
type CartLine struct {
	UserID    string    `json:"userId" bson:"userId"`
	ProductID string    `json:"productid" bson:"productid"`
	WeightKg  int       `json:"weight_kg" bson:"weight_kg"` // 1..5
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

// Discount code types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed_amount"
)

// DiscountCode is an operator-issued promotional rule applied once per order,
// on top of (after) the weight-tier discount. Codes are stored upper-cased.
type DiscountCode struct {
	Code              string    `json:"code" bson:"code"`
	Type              string    `json:"type" bson:"type"` // percentage | fixed_amount
	Value             float64   `json:"value" bson:"value"`
	MinPurchaseAmount float64   `json:"min_purchase_amount,omitempty" bson:"min_purchase_amount,omitempty"` // 0 = no floor
	MaxDiscountAmount float64   `json:"max_discount_amount,omitempty" bson:"max_discount_amount,omitempty"` // 0 = no cap
	ValidFrom         time.Time `json:"valid_from" bson:"valid_from"`
	ValidUntil        time.Time `json:"valid_until" bson:"valid_until"`
	UsageLimit        int       `json:"usage_limit,omitempty" bson:"usage_limit,omitempty"` // 0 = unlimited
	TimesUsed         int       `json:"times_used" bson:"times_used"`
	IsActive          bool      `json:"is_active" bson:"is_active"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

type Review struct {
	ReviewID  string    `json:"reviewid" bson:"reviewid"`
	ProductID string    `json:"productid" bson:"productid"`
	UserID    string    `json:"userid" bson:"userid"`
	Username  string    `json:"username,omitempty" bson:"username,omitempty"`
	Rating    int       `json:"rating" bson:"rating"` // 1..5
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type Address struct {
	AddressID  string `json:"addressid" bson:"addressid"`
	UserID     string `json:"userId" bson:"userId"`
	Label      string `json:"label,omitempty" bson:"label,omitempty"` // e.g. "home", "office"
	FullName   string `json:"full_name" bson:"full_name"`
	Street     string `json:"street" bson:"street"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty"`
	IsDefault  bool   `json:"is_default" bson:"is_default"`
}

type WishlistItem struct {
	UserID    string    `json:"userId" bson:"userId"`
	ProductID string    `json:"productid" bson:"productid"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

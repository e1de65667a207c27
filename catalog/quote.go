package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"zaika/db"
	"zaika/models"
	"zaika/pricing"
	"zaika/utils"
)

// QuoteLinePrice is the product-page price calculator:
// GET /api/products/:productid/price?weight=3&quantity=2
//
// The quote is always computed from the current catalog price, never from a
// client-supplied one.
func QuoteLinePrice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	weight, ok := parsePositiveInt(r, "weight")
	if !ok || weight > 5 {
		http.Error(w, "weight must be between 1 and 5 kg", http.StatusBadRequest)
		return
	}
	quantity, ok := parsePositiveInt(r, "quantity")
	if !ok {
		quantity = 1
	}

	productID := ps.ByName("productid")

	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID, "is_active": true}).Decode(&product)
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	lp, err := pricing.PriceLine(decimal.NewFromFloat(product.PricePerKg), weight, quantity)
	if err != nil {
		http.Error(w, "Could not price this selection", http.StatusUnprocessableEntity)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"productid":    productID,
		"price_per_kg": product.PricePerKg,
		"weight_kg":    weight,
		"quantity":     quantity,
		"price":        lp.Rounded(),
	})
}

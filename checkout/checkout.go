// Package checkout turns a priced cart into an immutable order snapshot.
// This is the only place a discount code's usage counter is incremented and
// the only place cart pricing is persisted.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"zaika/cart"
	"zaika/db"
	"zaika/live"
	"zaika/models"
	"zaika/pricing"
	"zaika/utils"
)

type placeOrderRequest struct {
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
	Code          string `json:"code,omitempty"`
}

// PlaceOrder finalizes the user's cart into an order. Pricing is recomputed
// server-side from current catalog prices; nothing from the client's priced
// view is trusted. The stored order replays its numbers verbatim forever.
func PlaceOrder(hub *live.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		userID := utils.GetUserIDFromRequest(r)
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req placeOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid order payload", http.StatusBadRequest)
			return
		}
		if req.AddressID == "" {
			http.Error(w, "A delivery address is required", http.StatusBadRequest)
			return
		}
		if req.PaymentMethod == "" {
			req.PaymentMethod = "cod"
		}

		var address models.Address
		err := db.AddressCollection.FindOne(ctx, bson.M{"addressid": req.AddressID, "userId": userID}).Decode(&address)
		if err != nil {
			http.Error(w, "Address not found", http.StatusBadRequest)
			return
		}

		view, err := cart.PricedView(ctx, userID, req.Code)
		if err != nil {
			log.Println("PlaceOrder pricing error:", err)
			http.Error(w, "Could not price cart", http.StatusInternalServerError)
			return
		}
		if len(view.Lines) == 0 {
			http.Error(w, "Cart is empty", http.StatusBadRequest)
			return
		}
		if view.CodeErr != nil {
			// An invalid code rejects checkout rather than silently dropping
			// the discount the user expects.
			utils.RespondWithJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error": "discount code rejected: " + view.CodeErr.Error(),
			})
			return
		}

		if err := reserveStock(ctx, view.Lines, applyStockDelta); err != nil {
			if errors.Is(err, errInsufficientStock) {
				utils.RespondWithJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
				return
			}
			log.Println("PlaceOrder reserveStock error:", err)
			http.Error(w, "Order creation failed", http.StatusInternalServerError)
			return
		}

		// Redeem the code with a conditional increment so two concurrent
		// checkouts cannot both slip past the usage limit.
		if view.Totals.Code != "" {
			if err := redeemCode(ctx, view.Totals.Code); err != nil {
				releaseStock(view.Lines, applyStockDelta)
				utils.RespondWithJSON(w, http.StatusUnprocessableEntity, map[string]string{
					"error": "discount code rejected: " + err.Error(),
				})
				return
			}
		}

		order := buildOrder(userID, view, address, req.PaymentMethod)

		if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
			log.Println("PlaceOrder InsertOne error:", err)
			releaseStock(view.Lines, applyStockDelta)
			if order.DiscountCode != "" {
				unredeemCode(order.DiscountCode)
			}
			http.Error(w, "Order creation failed", http.StatusInternalServerError)
			return
		}

		if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
			log.Println("PlaceOrder cart cleanup error:", err)
		}

		if hub != nil {
			hub.BroadcastOrderCreated(order)
		}

		utils.RespondWithJSON(w, http.StatusCreated, order)
	}
}

// buildOrder snapshots the priced view into an immutable order. Amounts are
// rounded here, at the persist boundary, and never recomputed afterwards.
func buildOrder(userID string, view cart.View, address models.Address, paymentMethod string) models.Order {
	totals := view.Totals.Rounded()

	lines := make([]models.OrderLine, 0, len(view.Lines))
	for _, l := range view.Lines {
		lines = append(lines, models.OrderLine{
			ProductID:        l.ProductID,
			Name:             l.Name,
			UnitPrice:        l.PricePerKg,
			WeightKg:         l.WeightKg,
			Quantity:         l.Quantity,
			BasePrice:        l.Price.BasePrice,
			DiscountFraction: l.Price.DiscountFraction,
			FinalPrice:       l.Price.FinalPrice,
		})
	}

	now := time.Now()
	return models.Order{
		OrderID:             "ord-" + utils.GetUUID(),
		UserID:              userID,
		Lines:               lines,
		Address:             address,
		PaymentMethod:       paymentMethod,
		Subtotal:            totals.Subtotal,
		WeightDiscountTotal: totals.WeightDiscountTotal,
		DiscountCode:        totals.Code,
		CodeDiscountAmount:  totals.CodeDiscountAmount,
		Total:               totals.Total,
		Status:              models.OrderPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

var errInsufficientStock = errors.New("insufficient stock for one or more items")

// stockUpdater applies a signed kilogram delta to one product's stock. The
// bool reports whether a row matched.
type stockUpdater func(ctx context.Context, productID string, deltaKg int) (bool, error)

// applyStockDelta is the store-backed updater. A negative delta only applies
// while enough stock remains, so a row never goes negative; a positive delta
// is unconditional.
func applyStockDelta(ctx context.Context, productID string, deltaKg int) (bool, error) {
	filter := bson.M{"productid": productID}
	if deltaKg < 0 {
		filter["stock"] = bson.M{"$gte": -deltaKg}
	}
	result, err := db.ProductCollection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"stock": deltaKg}})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// reserveStock decrements catalog stock per line. Lines compete with
// concurrent checkouts; the conditional update makes each check-and-decrement
// a single step. A failure part-way through restores the lines already taken,
// so a rejected checkout leaves stock as it found it.
func reserveStock(ctx context.Context, lines []cart.LineView, apply stockUpdater) error {
	for i, l := range lines {
		ok, err := apply(ctx, l.ProductID, -(l.WeightKg * l.Quantity))
		if err != nil || !ok {
			releaseStock(lines[:i], apply)
			if err != nil {
				return err
			}
			return errInsufficientStock
		}
	}
	return nil
}

// releaseStock returns reserved kilograms to the catalog. It runs on its own
// context because the request context may already be dead when compensation
// is needed. Failures only log; the order was already rejected.
func releaseStock(lines []cart.LineView, apply stockUpdater) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, l := range lines {
		if _, err := apply(ctx, l.ProductID, l.WeightKg*l.Quantity); err != nil {
			log.Printf("releaseStock %s: %v", l.ProductID, err)
		}
	}
}

// redeemCode increments times_used only while it is still under the usage
// limit. A plain read-then-write here would let two concurrent checkouts
// both pass validation against a stale count.
func redeemCode(ctx context.Context, code string) error {
	filter := bson.M{
		"code": code,
		"$or": []bson.M{
			{"usage_limit": bson.M{"$exists": false}},
			{"usage_limit": 0},
			{"$expr": bson.M{"$lt": []string{"$times_used", "$usage_limit"}}},
		},
	}

	result, err := db.DiscountCollection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"times_used": 1}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return pricing.ErrCodeExhausted
	}
	return nil
}

// unredeemCode hands a redeemed use back after the order failed to persist.
// Runs on its own context for the same reason as releaseStock.
func unredeemCode(code string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := db.DiscountCollection.UpdateOne(ctx,
		bson.M{"code": code, "times_used": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"times_used": -1}},
	)
	if err != nil {
		log.Printf("unredeemCode %s: %v", code, err)
	}
}

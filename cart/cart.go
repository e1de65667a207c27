package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaika/db"
	"zaika/models"
	"zaika/utils"
)

// AddToCart increments quantity if a line for the same (product, weight)
// pair exists, or inserts a new CartLine.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var line models.CartLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// Must be logged in
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	line.UserID = userID

	if line.ProductID == "" || line.Quantity < 1 || line.WeightKg < 1 || line.WeightKg > 5 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	// The line must point at a real, active product. Price is NOT stored;
	// it is read fresh from the catalog on every priced view.
	count, err := db.ProductCollection.CountDocuments(ctx, bson.M{"productid": line.ProductID, "is_active": true})
	if err != nil || count == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	// Upsert: increment quantity if the same (user, product, weight) exists
	filter := bson.M{
		"userId":    line.UserID,
		"productid": line.ProductID,
		"weight_kg": line.WeightKg,
	}
	update := bson.M{
		"$inc":         bson.M{"quantity": line.Quantity},
		"$setOnInsert": bson.M{"addedAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := db.CartCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Println("AddToCart UpdateOne error:", err)
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// SetQuantity replaces the quantity of one line. A quantity at or below zero
// removes the line instead of ever producing a negative price.
func SetQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	weightKg, err := strconv.Atoi(ps.ByName("weight"))
	if err != nil {
		http.Error(w, "Invalid weight", http.StatusBadRequest)
		return
	}

	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	filter := bson.M{
		"userId":    userID,
		"productid": ps.ByName("productid"),
		"weight_kg": weightKg,
	}

	if payload.Quantity < 1 {
		if _, err := db.CartCollection.DeleteOne(ctx, filter); err != nil {
			log.Println("SetQuantity DeleteOne error:", err)
			http.Error(w, "Failed to remove line", http.StatusInternalServerError)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
		return
	}

	result, err := db.CartCollection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"quantity": payload.Quantity}})
	if err != nil {
		log.Println("SetQuantity UpdateOne error:", err)
		http.Error(w, "Failed to update quantity", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Cart line not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// RemoveLine deletes one (product, weight) line from the user's cart.
func RemoveLine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	weightKg, err := strconv.Atoi(ps.ByName("weight"))
	if err != nil {
		http.Error(w, "Invalid weight", http.StatusBadRequest)
		return
	}

	if _, err := db.CartCollection.DeleteOne(ctx, bson.M{
		"userId":    userID,
		"productid": ps.ByName("productid"),
		"weight_kg": weightKg,
	}); err != nil {
		log.Println("RemoveLine DeleteOne error:", err)
		http.Error(w, "Failed to remove line", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ClearCart removes every line for the user.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		log.Println("ClearCart DeleteMany error:", err)
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// GetCart returns the priced view of the user's cart. An optional ?code=
// query applies a discount code to the preview; a rejected code is reported
// in the response without failing the cart itself.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	view, err := PricedView(ctx, userID, r.URL.Query().Get("code"))
	if err != nil {
		log.Println("GetCart pricing error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{
		"lines":  view.Lines,
		"totals": view.Totals.Rounded(),
	}
	if view.CodeErr != nil {
		resp["code_error"] = view.CodeErr.Error()
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

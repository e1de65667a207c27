package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"zaika/db"
	"zaika/models"
	"zaika/utils"
)

func validateDiscount(dc models.DiscountCode) string {
	switch dc.Type {
	case models.DiscountPercentage:
		if dc.Value <= 0 || dc.Value > 100 {
			return "Percentage value must be between 0 and 100"
		}
	case models.DiscountFixed:
		if dc.Value <= 0 {
			return "Fixed amount must be positive"
		}
	default:
		return "Type must be percentage or fixed_amount"
	}
	if dc.Code == "" {
		return "Code is required"
	}
	if dc.MinPurchaseAmount < 0 || dc.MaxDiscountAmount < 0 || dc.UsageLimit < 0 {
		return "Amounts and limits cannot be negative"
	}
	if !dc.ValidUntil.After(dc.ValidFrom) && !dc.ValidUntil.Equal(dc.ValidFrom) {
		return "valid_until must not precede valid_from"
	}
	return ""
}

// CreateDiscount registers a new code. Codes are stored upper-cased so
// customer lookups can be case-insensitive.
func CreateDiscount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var dc models.DiscountCode
	if err := json.NewDecoder(r.Body).Decode(&dc); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	dc.Code = strings.ToUpper(strings.TrimSpace(dc.Code))
	if msg := validateDiscount(dc); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	var existing models.DiscountCode
	err := db.DiscountCollection.FindOne(ctx, bson.M{"code": dc.Code}).Decode(&existing)
	if err == nil {
		http.Error(w, "Code already exists", http.StatusConflict)
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dc.TimesUsed = 0
	dc.CreatedAt = time.Now()
	dc.UpdatedAt = dc.CreatedAt

	if _, err := db.DiscountCollection.InsertOne(ctx, dc); err != nil {
		log.Println("CreateDiscount InsertOne error:", err)
		http.Error(w, "Failed to create discount code", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dc)
}

// GetDiscounts lists all codes for the admin table.
func GetDiscounts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.DiscountCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Println("GetDiscounts Find error:", err)
		http.Error(w, "Could not retrieve discount codes", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var codes []models.DiscountCode
	if err := cursor.All(ctx, &codes); err != nil {
		http.Error(w, "Error reading discount data", http.StatusInternalServerError)
		return
	}
	if len(codes) == 0 {
		codes = []models.DiscountCode{}
	}

	utils.RespondWithJSON(w, http.StatusOK, codes)
}

// EditDiscount updates a code's rule fields. The redemption counter is not
// client-writable; it only moves through checkout's conditional increment.
func EditDiscount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	code := strings.ToUpper(strings.TrimSpace(ps.ByName("code")))

	var updated map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	delete(updated, "code")
	delete(updated, "times_used")
	delete(updated, "created_at")
	updated["updated_at"] = time.Now()

	result, err := db.DiscountCollection.UpdateOne(ctx, bson.M{"code": code}, bson.M{"$set": updated})
	if err != nil {
		log.Println("EditDiscount UpdateOne error:", err)
		http.Error(w, "Failed to update discount code", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Code not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteDiscount deactivates a code. The row is kept so historical orders
// referencing it stay explainable.
func DeleteDiscount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	code := strings.ToUpper(strings.TrimSpace(ps.ByName("code")))

	result, err := db.DiscountCollection.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		log.Println("DeleteDiscount UpdateOne error:", err)
		http.Error(w, "Failed to deactivate discount code", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Code not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

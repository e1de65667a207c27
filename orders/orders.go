package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaika/db"
	"zaika/live"
	"zaika/middleware"
	"zaika/models"
	"zaika/utils"
)

// GetMyOrders lists the requesting user's orders, newest first.
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Println("GetMyOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		log.Println("GetMyOrders cursor.All error:", err)
		http.Error(w, "Error reading order data", http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrder returns one order. The stored snapshot is replayed verbatim;
// amounts are never recomputed after catalog prices or discount rules change.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"orderId": ps.ByName("orderid")}
	if !middleware.IsAdmin(r.Context()) {
		filter["userId"] = userID
	}

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, filter).Decode(&order); err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// GetAllOrders is the admin order table, with optional ?status= filter.
func GetAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	skip, limit := utils.ParsePagination(r, 50, 200)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetAllOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		log.Println("GetAllOrders cursor.All error:", err)
		http.Error(w, "Error reading order data", http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

var validStatuses = []string{
	models.OrderPending,
	models.OrderConfirmed,
	models.OrderShipped,
	models.OrderDelivered,
	models.OrderCancelled,
}

// UpdateOrderStatus moves an order along the fulfilment ladder. Only the
// status and updatedAt fields ever change; the priced snapshot is immutable.
func UpdateOrderStatus(hub *live.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		var payload struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || !utils.Contains(validStatuses, payload.Status) {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}

		orderID := ps.ByName("orderid")

		result, err := db.OrderCollection.UpdateOne(ctx,
			bson.M{"orderId": orderID},
			bson.M{"$set": bson.M{"status": payload.Status, "updatedAt": time.Now()}},
		)
		if err != nil {
			log.Println("UpdateOrderStatus UpdateOne error:", err)
			http.Error(w, "Failed to update order", http.StatusInternalServerError)
			return
		}
		if result.MatchedCount == 0 {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}

		if hub != nil {
			hub.BroadcastStatusChanged(orderID, payload.Status)
		}

		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": payload.Status})
	}
}

package admin

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaika/db"
	"zaika/models"
	"zaika/rdx"
	"zaika/utils"
)

// GetDashboardStats aggregates the numbers the admin landing page shows:
// revenue, order counts by status, top sellers, customer count and low-stock
// products. Everything is derived from the orders/products/users collections
// on demand; nothing is double-booked in a counters table.
func GetDashboardStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	stats := map[string]any{}

	// Revenue and order counts, grouped by status. Cancelled orders are
	// excluded from revenue but still counted.
	revenuePipeline := []bson.M{
		{"$group": bson.M{
			"_id":     "$status",
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total"},
		}},
	}
	cursor, err := db.OrderCollection.Aggregate(ctx, revenuePipeline)
	if err != nil {
		log.Println("GetDashboardStats orders aggregate error:", err)
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}
	var byStatus []struct {
		Status  string  `bson:"_id"`
		Count   int     `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &byStatus); err != nil {
		cursor.Close(ctx)
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}
	cursor.Close(ctx)

	totalRevenue := 0.0
	totalOrders := 0
	statusCounts := map[string]int{}
	for _, s := range byStatus {
		statusCounts[s.Status] = s.Count
		totalOrders += s.Count
		if s.Status != models.OrderCancelled {
			totalRevenue += s.Revenue
		}
	}
	stats["total_revenue"] = totalRevenue
	stats["total_orders"] = totalOrders
	stats["orders_by_status"] = statusCounts

	// Top sellers by kilograms shipped.
	topPipeline := []bson.M{
		{"$match": bson.M{"status": bson.M{"$ne": models.OrderCancelled}}},
		{"$unwind": "$lines"},
		{"$group": bson.M{
			"_id":  "$lines.productid",
			"name": bson.M{"$first": "$lines.name"},
			"kg": bson.M{"$sum": bson.M{
				"$multiply": []string{"$lines.weight_kg", "$lines.quantity"},
			}},
			"revenue": bson.M{"$sum": "$lines.final_price"},
		}},
		{"$sort": bson.M{"kg": -1}},
		{"$limit": 5},
	}
	cursor, err = db.OrderCollection.Aggregate(ctx, topPipeline)
	if err != nil {
		log.Println("GetDashboardStats top products aggregate error:", err)
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}
	var topProducts []struct {
		ProductID string  `bson:"_id" json:"productid"`
		Name      string  `bson:"name" json:"name"`
		Kg        int     `bson:"kg" json:"kg"`
		Revenue   float64 `bson:"revenue" json:"revenue"`
	}
	if err := cursor.All(ctx, &topProducts); err != nil {
		cursor.Close(ctx)
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}
	cursor.Close(ctx)

	// Attach live view counters from Redis.
	type topProductView struct {
		ProductID string  `json:"productid"`
		Name      string  `json:"name"`
		Kg        int     `json:"kg"`
		Revenue   float64 `json:"revenue"`
		Views     int64   `json:"views"`
	}
	top := make([]topProductView, 0, len(topProducts))
	for _, p := range topProducts {
		top = append(top, topProductView{
			ProductID: p.ProductID,
			Name:      p.Name,
			Kg:        p.Kg,
			Revenue:   p.Revenue,
			Views:     rdx.GetViewCount(p.ProductID),
		})
	}
	stats["top_products"] = top

	customerCount, err := db.UserCollection.CountDocuments(ctx, bson.M{"role": "user"})
	if err == nil {
		stats["customers"] = customerCount
	}

	// Products running low, for the restock widget.
	lowOpts := options.Find().SetSort(bson.D{{Key: "stock", Value: 1}}).SetLimit(10)
	lowCursor, err := db.ProductCollection.Find(ctx, bson.M{"is_active": true, "stock": bson.M{"$lt": 10}}, lowOpts)
	if err == nil {
		var low []models.Product
		if err := lowCursor.All(ctx, &low); err == nil {
			if low == nil {
				low = []models.Product{}
			}
			stats["low_stock"] = low
		}
		lowCursor.Close(ctx)
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

package wishlist

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaika/catalog"
	"zaika/db"
	"zaika/models"
	"zaika/utils"
)

// GetWishlist returns the caller's saved products, enriched with live
// catalog data so stale names or prices are never shown.
func GetWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}})
	cursor, err := db.WishlistCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Println("GetWishlist Find error:", err)
		http.Error(w, "Could not retrieve wishlist", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var items []models.WishlistItem
	if err := cursor.All(ctx, &items); err != nil {
		http.Error(w, "Error reading wishlist data", http.StatusInternalServerError)
		return
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := catalog.FetchProducts(ctx, ids)
	if err != nil {
		log.Println("GetWishlist catalog error:", err)
		http.Error(w, "Could not retrieve wishlist", http.StatusInternalServerError)
		return
	}

	out := []models.Product{}
	for _, it := range items {
		if p, ok := products[it.ProductID]; ok {
			out = append(out, p)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, out)
}

// AddToWishlist saves a product. Adding twice is a no-op (upsert).
func AddToWishlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID := ps.ByName("productid")

	count, err := db.ProductCollection.CountDocuments(ctx, bson.M{"productid": productID, "is_active": true})
	if err != nil || count == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	filter := bson.M{"userId": userID, "productid": productID}
	update := bson.M{"$setOnInsert": bson.M{"addedAt": time.Now()}}
	opts := options.Update().SetUpsert(true)

	if _, err := db.WishlistCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Println("AddToWishlist UpdateOne error:", err)
		http.Error(w, "Failed to add to wishlist", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// RemoveFromWishlist drops a saved product.
func RemoveFromWishlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := db.WishlistCollection.DeleteOne(ctx, bson.M{
		"userId":    userID,
		"productid": ps.ByName("productid"),
	}); err != nil {
		log.Println("RemoveFromWishlist DeleteOne error:", err)
		http.Error(w, "Failed to remove from wishlist", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

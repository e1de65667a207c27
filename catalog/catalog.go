package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaika/db"
	"zaika/models"
	"zaika/rdx"
	"zaika/utils"
)

// GetProducts returns the storefront catalog, with optional ?category= and
// ?search= filters plus pagination.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"is_active": true}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filter["category"] = cat
	}
	if tag := r.URL.Query().Get("tag"); tag != "" {
		filter["tags"] = strings.ToLower(strings.TrimSpace(tag))
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := db.ProductCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetProducts Find error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("GetProducts cursor.All error:", err)
		http.Error(w, "Error reading product data", http.StatusInternalServerError)
		return
	}
	if len(products) == 0 {
		products = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, products)
}

const productCacheTTL = 10 * time.Minute

// productDetail is a product plus viewer-specific fields filled in when the
// request carries a valid token.
type productDetail struct {
	models.Product
	InWishlist bool `json:"in_wishlist,omitempty"`
}

// GetProduct returns one catalog item and bumps its view counter. Details are
// served from the Redis cache when present; writes invalidate it.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	var product models.Product
	if cached, err := rdx.RdxGet("product:" + productID); err == nil && cached != "" {
		if err := json.Unmarshal([]byte(cached), &product); err != nil {
			product = models.Product{}
		}
	}
	if product.ProductID == "" {
		err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product)
		if err != nil {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		if data, err := json.Marshal(product); err == nil {
			if err := rdx.SetWithExpiry("product:"+productID, string(data), productCacheTTL); err != nil {
				log.Println("product cache set:", err)
			}
		}
	}

	rdx.IncrementViewCount(productID)

	detail := productDetail{Product: product}
	if userID := utils.GetUserIDFromRequest(r); userID != "" {
		n, err := db.WishlistCollection.CountDocuments(ctx, bson.M{"userId": userID, "productid": productID})
		if err == nil && n > 0 {
			detail.InWishlist = true
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, detail)
}

// CreateProduct adds a catalog item. Admin only (enforced by routing).
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if product.Name == "" || product.PricePerKg <= 0 {
		http.Error(w, "Name and a positive per-kg price are required", http.StatusBadRequest)
		return
	}

	product.ProductID = "p" + utils.GenerateRandomString(12)
	product.Slug = utils.Slugify(product.Name)
	product.Tags = utils.SplitTags(strings.Join(product.Tags, ","))
	product.IsActive = true
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	product.CreatedBy = utils.GetUserIDFromRequest(r)
	product.Rating = 0
	product.ReviewCount = 0

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// EditProduct updates mutable product fields. Admin only.
func EditProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	var updated map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// Identity and aggregate fields are not client-writable.
	delete(updated, "productid")
	delete(updated, "rating")
	delete(updated, "review_count")
	delete(updated, "created_at")
	delete(updated, "created_by")

	if price, ok := updated["price_per_kg"]; ok {
		p, isNum := price.(float64)
		if !isNum || p <= 0 {
			http.Error(w, "price_per_kg must be a positive number", http.StatusBadRequest)
			return
		}
	}

	if name, ok := updated["name"].(string); ok && name != "" {
		updated["slug"] = utils.Slugify(name)
	}
	// tags arrive as a comma-separated string from the admin form
	if tags, ok := updated["tags"].(string); ok {
		updated["tags"] = utils.SplitTags(tags)
	}
	updated["updated_at"] = time.Now()

	result, err := db.ProductCollection.UpdateOne(ctx, bson.M{"productid": productID}, bson.M{"$set": updated})
	if err != nil {
		log.Println("EditProduct UpdateOne error:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	invalidateProductCache(productID)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteProduct deactivates a product rather than removing the row, so
// existing order snapshots keep a valid reference. Admin only.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	result, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		log.Println("DeleteProduct UpdateOne error:", err)
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	invalidateProductCache(productID)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func invalidateProductCache(productID string) {
	if err := rdx.RdxDel("product:" + productID); err != nil {
		log.Println("product cache invalidate:", err)
	}
}

// parsePositiveInt reads a query parameter as a positive integer.
func parsePositiveInt(r *http.Request, key string) (int, bool) {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

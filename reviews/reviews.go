package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaika/db"
	"zaika/middleware"
	"zaika/models"
	"zaika/utils"
)

// GetReviews lists reviews for a product, newest first.
func GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	skip, limit := utils.ParsePagination(r, 10, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := db.ReviewsCollection.Find(ctx, bson.M{"productid": productID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}
	if len(reviews) == 0 {
		reviews = []models.Review{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"status": http.StatusOK, "ok": true, "reviews": reviews})
}

// AddReview creates the caller's review for a product. One review per
// customer per product.
func AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID := ps.ByName("productid")

	count, err := db.ReviewsCollection.CountDocuments(context.TODO(), bson.M{
		"userid":    userID,
		"productid": productID,
	})
	if err != nil {
		log.Printf("Error checking for existing review: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "You have already reviewed this product", http.StatusConflict)
		return
	}

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil || review.Rating < 1 || review.Rating > 5 || review.Comment == "" {
		http.Error(w, "Invalid review data", http.StatusBadRequest)
		return
	}

	review.ReviewID = utils.GenerateRandomString(16)
	review.UserID = userID
	review.Username = utils.GetUsernameFromRequest(r)
	review.ProductID = productID
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt

	if _, err := db.ReviewsCollection.InsertOne(context.TODO(), review); err != nil {
		http.Error(w, "Failed to insert review: "+err.Error(), http.StatusInternalServerError)
		return
	}

	refreshProductRating(productID)

	w.WriteHeader(http.StatusCreated)
}

// EditReview updates the rating/comment of an existing review. Authors may
// edit their own; admins may edit any.
func EditReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	reviewID := ps.ByName("reviewid")

	var review models.Review
	err := db.ReviewsCollection.FindOne(context.TODO(), bson.M{"reviewid": reviewID}).Decode(&review)
	if err != nil {
		http.Error(w, fmt.Sprintf("Review not found: %v", err), http.StatusNotFound)
		return
	}

	if review.UserID != userID && !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var payload struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Rating < 1 || payload.Rating > 5 || payload.Comment == "" {
		http.Error(w, "Invalid update data", http.StatusBadRequest)
		return
	}

	_, err = db.ReviewsCollection.UpdateOne(
		context.TODO(),
		bson.M{"reviewid": reviewID},
		bson.M{"$set": bson.M{"rating": payload.Rating, "comment": payload.Comment, "updated_at": time.Now()}},
	)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to update review: %v", err), http.StatusInternalServerError)
		return
	}

	refreshProductRating(review.ProductID)

	w.WriteHeader(http.StatusOK)
}

// DeleteReview removes a review. Authors may delete their own; admins any.
func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	reviewID := ps.ByName("reviewid")

	var review models.Review
	err := db.ReviewsCollection.FindOne(context.TODO(), bson.M{"reviewid": reviewID}).Decode(&review)
	if err != nil {
		http.Error(w, "Review not found", http.StatusNotFound)
		return
	}

	if review.UserID != userID && !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if _, err := db.ReviewsCollection.DeleteOne(context.TODO(), bson.M{"reviewid": reviewID}); err != nil {
		http.Error(w, "Failed to delete review", http.StatusInternalServerError)
		return
	}

	refreshProductRating(review.ProductID)

	w.WriteHeader(http.StatusOK)
}

// refreshProductRating recomputes the product's average rating and review
// count from the reviews collection. Failures only log; a stale aggregate
// never fails the review write itself.
func refreshProductRating(productID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"productid": productID}},
		{"$group": bson.M{
			"_id":    nil,
			"rating": bson.M{"$avg": "$rating"},
			"count":  bson.M{"$sum": 1},
		}},
	}

	cursor, err := db.ReviewsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("refreshProductRating aggregate error: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var result []struct {
		Rating float64 `bson:"rating"`
		Count  int     `bson:"count"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		log.Printf("refreshProductRating decode error: %v", err)
		return
	}

	rating, count := 0.0, 0
	if len(result) > 0 {
		rating, count = result[0].Rating, result[0].Count
	}

	_, err = db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": bson.M{"rating": rating, "review_count": count}},
	)
	if err != nil {
		log.Printf("refreshProductRating update error: %v", err)
	}
}

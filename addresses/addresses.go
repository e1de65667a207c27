package addresses

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"zaika/db"
	"zaika/models"
	"zaika/utils"
)

// GetAddresses lists the caller's address book.
func GetAddresses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cursor, err := db.AddressCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		log.Println("GetAddresses Find error:", err)
		http.Error(w, "Could not retrieve addresses", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var addrs []models.Address
	if err := cursor.All(ctx, &addrs); err != nil {
		http.Error(w, "Error reading address data", http.StatusInternalServerError)
		return
	}
	if len(addrs) == 0 {
		addrs = []models.Address{}
	}

	utils.RespondWithJSON(w, http.StatusOK, addrs)
}

// AddAddress creates an address for the caller. The first address, or one
// flagged is_default, becomes the default.
func AddAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var addr models.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if addr.FullName == "" || addr.Street == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		http.Error(w, "Missing required address fields", http.StatusBadRequest)
		return
	}

	addr.AddressID = "a" + utils.GenerateRandomString(12)
	addr.UserID = userID

	count, err := db.AddressCollection.CountDocuments(ctx, bson.M{"userId": userID})
	if err == nil && count == 0 {
		addr.IsDefault = true
	}

	if addr.IsDefault {
		if _, err := db.AddressCollection.UpdateMany(ctx,
			bson.M{"userId": userID},
			bson.M{"$set": bson.M{"is_default": false}},
		); err != nil {
			log.Println("AddAddress clear default error:", err)
		}
	}

	if _, err := db.AddressCollection.InsertOne(ctx, addr); err != nil {
		log.Println("AddAddress InsertOne error:", err)
		http.Error(w, "Failed to add address", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, addr)
}

// EditAddress updates one of the caller's addresses.
func EditAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var updated map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	delete(updated, "addressid")
	delete(updated, "userId")

	if isDefault, ok := updated["is_default"].(bool); ok && isDefault {
		if _, err := db.AddressCollection.UpdateMany(ctx,
			bson.M{"userId": userID},
			bson.M{"$set": bson.M{"is_default": false}},
		); err != nil {
			log.Println("EditAddress clear default error:", err)
		}
	}

	result, err := db.AddressCollection.UpdateOne(ctx,
		bson.M{"addressid": ps.ByName("addressid"), "userId": userID},
		bson.M{"$set": updated},
	)
	if err != nil {
		log.Println("EditAddress UpdateOne error:", err)
		http.Error(w, "Failed to update address", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Address not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteAddress removes one of the caller's addresses.
func DeleteAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := db.AddressCollection.DeleteOne(ctx, bson.M{
		"addressid": ps.ByName("addressid"),
		"userId":    userID,
	})
	if err != nil {
		log.Println("DeleteAddress DeleteOne error:", err)
		http.Error(w, "Failed to delete address", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "Address not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

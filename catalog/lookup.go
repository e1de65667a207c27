package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"zaika/db"
	"zaika/models"
)

// FetchProducts loads the given catalog items keyed by productid. Inactive
// or unknown ids are simply absent from the result; callers decide whether
// that is an error.
func FetchProducts(ctx context.Context, productIDs []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	cursor, err := db.ProductCollection.Find(ctx, bson.M{
		"productid": bson.M{"$in": productIDs},
		"is_active": true,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ProductID] = p
	}
	return out, nil
}

package cart

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaika/catalog"
	"zaika/db"
	"zaika/models"
	"zaika/pricing"
)

// LineView is one priced cart line as rendered to the client.
type LineView struct {
	ProductID  string              `json:"productid"`
	Name       string              `json:"name"`
	PricePerKg float64             `json:"price_per_kg"`
	WeightKg   int                 `json:"weight_kg"`
	Quantity   int                 `json:"quantity"`
	Price      pricing.RoundedLine `json:"price"`
}

// View is the derived, recomputed-on-demand priced cart. It is never
// persisted; the stored line list is the source of truth. CodeErr carries a
// discount-code rejection; Totals are then the code-free figures.
type View struct {
	Lines   []LineView
	Totals  pricing.Totals
	CodeErr error
}

// LoadLines returns the user's authoritative cart line list.
func LoadLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}})
	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lines []models.CartLine
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// PricedView rebuilds the priced cart from the stored line list and current
// catalog prices. Lines whose product has vanished from the catalog are
// dropped from the view. A non-empty code is validated and applied; a
// rejected code lands in View.CodeErr while the cart still prices itself
// without it.
func PricedView(ctx context.Context, userID, code string) (View, error) {
	stored, err := LoadLines(ctx, userID)
	if err != nil {
		return View{}, err
	}

	ids := make([]string, 0, len(stored))
	for _, l := range stored {
		ids = append(ids, l.ProductID)
	}
	products, err := catalog.FetchProducts(ctx, ids)
	if err != nil {
		return View{}, err
	}

	view := View{Lines: []LineView{}}
	var engineLines []pricing.Line

	for _, l := range stored {
		product, ok := products[l.ProductID]
		if !ok {
			continue
		}
		unitPrice := decimal.NewFromFloat(product.PricePerKg)
		lp, err := pricing.PriceLine(unitPrice, l.WeightKg, l.Quantity)
		if err != nil {
			return View{}, err
		}
		engineLines = append(engineLines, pricing.Line{
			ProductID: l.ProductID,
			UnitPrice: unitPrice,
			WeightKg:  l.WeightKg,
			Quantity:  l.Quantity,
		})
		view.Lines = append(view.Lines, LineView{
			ProductID:  l.ProductID,
			Name:       product.Name,
			PricePerKg: product.PricePerKg,
			WeightKg:   l.WeightKg,
			Quantity:   l.Quantity,
			Price:      lp.Rounded(),
		})
	}

	totals, err := pricing.PriceCart(engineLines)
	if err != nil {
		return View{}, err
	}
	view.Totals = totals

	if code == "" {
		return view, nil
	}

	dc, err := FindCode(ctx, code)
	if err != nil {
		if errors.Is(err, pricing.ErrCodeNotFound) {
			view.CodeErr = err
			return view, nil
		}
		return View{}, err
	}

	return applyDiscount(view, dc, time.Now()), nil
}

// applyDiscount runs the code against the priced totals. A rejection lands
// in CodeErr; the cart keeps its code-free totals either way.
func applyDiscount(view View, dc models.DiscountCode, now time.Time) View {
	applied, err := pricing.ApplyCode(view.Totals, pricing.CodeFromModel(dc), now)
	if err != nil {
		view.CodeErr = err
		return view
	}
	view.Totals = applied
	return view
}

// FindCode looks a discount code up case-insensitively. Codes are stored
// upper-cased, so the lookup normalizes first.
func FindCode(ctx context.Context, code string) (models.DiscountCode, error) {
	var dc models.DiscountCode
	err := db.DiscountCollection.FindOne(ctx, bson.M{"code": normalizeCode(code)}).Decode(&dc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.DiscountCode{}, pricing.ErrCodeNotFound
		}
		return models.DiscountCode{}, err
	}
	return dc, nil
}

package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaika/cart"
)

// fakeStock backs the stock updater with an in-memory ledger so reservation
// and compensation can be exercised without a store.
type fakeStock struct {
	stock map[string]int
	errOn string
}

func (f *fakeStock) apply(_ context.Context, productID string, deltaKg int) (bool, error) {
	if productID == f.errOn {
		return false, errors.New("store unavailable")
	}
	cur := f.stock[productID]
	if deltaKg < 0 && cur < -deltaKg {
		return false, nil
	}
	f.stock[productID] = cur + deltaKg
	return true, nil
}

func line(productID string, weightKg, quantity int) cart.LineView {
	return cart.LineView{ProductID: productID, WeightKg: weightKg, Quantity: quantity}
}

func TestReserveStockDecrementsEachLine(t *testing.T) {
	fs := &fakeStock{stock: map[string]int{"pA": 20, "pB": 20}}
	lines := []cart.LineView{line("pA", 3, 2), line("pB", 5, 1)}

	err := reserveStock(context.Background(), lines, fs.apply)
	require.NoError(t, err)

	assert.Equal(t, 14, fs.stock["pA"])
	assert.Equal(t, 15, fs.stock["pB"])
}

func TestReserveStockRestoresOnShortage(t *testing.T) {
	// pB is short: earlier lines must be handed back, not lost
	fs := &fakeStock{stock: map[string]int{"pA": 20, "pB": 2, "pC": 20}}
	lines := []cart.LineView{line("pA", 3, 2), line("pB", 5, 1), line("pC", 1, 1)}

	err := reserveStock(context.Background(), lines, fs.apply)
	require.ErrorIs(t, err, errInsufficientStock)

	assert.Equal(t, 20, fs.stock["pA"])
	assert.Equal(t, 2, fs.stock["pB"])
	assert.Equal(t, 20, fs.stock["pC"])
}

func TestReserveStockRestoresOnStoreError(t *testing.T) {
	fs := &fakeStock{stock: map[string]int{"pA": 20, "pB": 20}, errOn: "pB"}
	lines := []cart.LineView{line("pA", 2, 3), line("pB", 1, 1)}

	err := reserveStock(context.Background(), lines, fs.apply)
	require.Error(t, err)
	require.NotErrorIs(t, err, errInsufficientStock)

	assert.Equal(t, 20, fs.stock["pA"])
}

func TestReserveStockRetryDoesNotDrainStock(t *testing.T) {
	// repeated rejected checkouts must leave stock untouched
	fs := &fakeStock{stock: map[string]int{"pA": 10, "pB": 0}}
	lines := []cart.LineView{line("pA", 2, 1), line("pB", 2, 1)}

	for i := 0; i < 5; i++ {
		err := reserveStock(context.Background(), lines, fs.apply)
		require.ErrorIs(t, err, errInsufficientStock)
	}

	assert.Equal(t, 10, fs.stock["pA"])
	assert.Equal(t, 0, fs.stock["pB"])
}

func TestReleaseStockReturnsKilograms(t *testing.T) {
	fs := &fakeStock{stock: map[string]int{"pA": 14, "pB": 15}}
	lines := []cart.LineView{line("pA", 3, 2), line("pB", 5, 1)}

	releaseStock(lines, fs.apply)

	assert.Equal(t, 20, fs.stock["pA"])
	assert.Equal(t, 20, fs.stock["pB"])
}

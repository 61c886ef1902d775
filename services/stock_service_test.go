package services

import (
	"context"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waffle-wala/catalog"
	"github.com/yeremiapane/waffle-wala/models"
)

func TestInitializeIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	gw := NewStockGateway(store)
	ctx := context.Background()

	require.NoError(t, gw.Initialize(ctx))
	require.NoError(t, gw.SetQuantity(ctx, "Lemonade", 7))
	require.NoError(t, gw.Initialize(ctx))

	stock, err := gw.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, stock, len(catalog.Names()))
	assert.Equal(t, 7, stock.Quantity("Lemonade"))
	assert.Equal(t, models.DefaultMaxStock, stock["Waffle Combo"].MaxStock)
}

func TestGetQuantityTreatsMissingAsZero(t *testing.T) {
	store := setupTestStore(t)
	gw := NewStockGateway(store)
	ctx := context.Background()

	qty, err := gw.GetQuantity(ctx, "Lemonade")
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	require.NoError(t, gw.Initialize(ctx))
	qty, err = gw.GetQuantity(ctx, "Not On Menu")
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}

func TestAdjustWithoutDocumentIsNoop(t *testing.T) {
	gw := NewStockGateway(setupTestStore(t))
	qty, err := gw.Adjust(context.Background(), "Lemonade", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}

func TestAdjustFloorsAtZero(t *testing.T) {
	gw := setupStock(t, setupTestStore(t), map[string]int{"Lemonade": 3})
	ctx := context.Background()

	qty, err := gw.Adjust(ctx, "Lemonade", -5)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	qty, err = gw.Adjust(ctx, "Lemonade", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, qty)
}

func TestConcurrentAdjustmentsDoNotLoseDeltas(t *testing.T) {
	gw := setupStock(t, setupTestStore(t), map[string]int{"Butter Popcorn": 50})
	gw.maxAttempts = 100
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gw.Adjust(ctx, "Butter Popcorn", -1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	qty, err := gw.GetQuantity(ctx, "Butter Popcorn")
	require.NoError(t, err)
	assert.Equal(t, 40, qty)
}

func TestSetQuantityRejectsBadInput(t *testing.T) {
	gw := setupStock(t, setupTestStore(t), nil)
	ctx := context.Background()

	var verr *ValidationError
	assert.ErrorAs(t, gw.SetQuantity(ctx, "Lemonade", -1), &verr)
	assert.Equal(t, "quantity", verr.Field)
	assert.ErrorAs(t, gw.SetQuantity(ctx, "Pizza", 3), &verr)

	_, err := ParseQuantity("abc")
	assert.ErrorAs(t, err, &verr)
	_, err = ParseQuantity("-2")
	assert.ErrorAs(t, err, &verr)
	qty, err := ParseQuantity(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, qty)
}

func TestAdjustNeverStoresNegative(t *testing.T) {
	store := setupTestStore(t)
	gw := setupStock(t, store, nil)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("adjust stores max(0, q+d)", prop.ForAll(
		func(q, d int) bool {
			if err := gw.SetQuantity(ctx, "Lemonade", q); err != nil {
				return false
			}
			got, err := gw.Adjust(ctx, "Lemonade", d)
			if err != nil {
				return false
			}
			stored, err := gw.GetQuantity(ctx, "Lemonade")
			if err != nil {
				return false
			}
			return got == max(0, q+d) && stored == got && stored >= 0
		},
		gen.IntRange(0, 500),
		gen.IntRange(-600, 600),
	))

	properties.TestingRun(t)
}

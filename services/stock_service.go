package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/waffle-wala/catalog"
	"github.com/yeremiapane/waffle-wala/database"
	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/utils"
)

const defaultStockAttempts = 8

// StockGateway reads and adjusts the single inventory/stock document.
// Writes are conditional on the document version and retried on conflict,
// so concurrent adjustments never lose a delta.
type StockGateway struct {
	store       database.Store
	maxAttempts int
}

func NewStockGateway(store database.Store) *StockGateway {
	return &StockGateway{
		store:       store,
		maxAttempts: defaultStockAttempts,
	}
}

// Initialize seeds every catalog product and combo with quantity 0 when the
// stock document does not exist yet. Safe to call on every start.
func (g *StockGateway) Initialize(ctx context.Context) error {
	seed := models.StockDocument{}
	for _, name := range catalog.Names() {
		seed[name] = models.StockRecord{Quantity: 0, MaxStock: models.DefaultMaxStock}
	}
	data, err := json.Marshal(seed)
	if err != nil {
		return err
	}

	_, err = g.store.Create(ctx, models.CollectionInventory, models.DocStock, data, time.Now().UnixMilli())
	if errors.Is(err, database.ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		return persistErr("initialize inventory", err)
	}
	utils.InfoLogger.Printf("Inventory initialised with %d products", len(seed))
	return nil
}

// Snapshot returns the whole stock document, empty when it does not exist.
func (g *StockGateway) Snapshot(ctx context.Context) (models.StockDocument, error) {
	doc, err := g.store.Get(ctx, models.CollectionInventory, models.DocStock)
	if errors.Is(err, database.ErrNotFound) {
		return models.StockDocument{}, nil
	}
	if err != nil {
		return nil, err
	}
	stock := models.StockDocument{}
	if err := doc.Decode(&stock); err != nil {
		return nil, fmt.Errorf("decode stock document: %w", err)
	}
	return stock, nil
}

// GetQuantity returns the current quantity of one product. A missing document
// or entry reads as 0.
func (g *StockGateway) GetQuantity(ctx context.Context, name string) (int, error) {
	stock, err := g.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return stock.Quantity(name), nil
}

// Adjust applies delta to one product and stores max(0, current+delta).
// It returns the stored quantity. A missing stock document is a no-op.
func (g *StockGateway) Adjust(ctx context.Context, name string, delta int) (int, error) {
	var result int
	err := g.mutate(ctx, func(stock models.StockDocument) {
		rec, ok := stock[name]
		if !ok {
			rec = models.StockRecord{MaxStock: models.DefaultMaxStock}
		}
		rec.Quantity = max(0, rec.Quantity+delta)
		stock[name] = rec
		result = rec.Quantity
	})
	if errors.Is(err, database.ErrNotFound) {
		utils.InfoLogger.Warnf("Stock document missing, adjust %s by %d skipped", name, delta)
		return 0, nil
	}
	if err != nil {
		return 0, persistErr("adjust stock", err)
	}
	utils.InfoLogger.Debugf("Stock %s adjusted by %d -> %d", name, delta, result)
	return result, nil
}

// SetQuantity overwrites one product's quantity. Admin only.
func (g *StockGateway) SetQuantity(ctx context.Context, name string, qty int) error {
	if qty < 0 {
		return &ValidationError{Field: "quantity", Message: "Invalid quantity"}
	}
	if !knownStockName(name) {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("Unknown product %s", name)}
	}

	err := g.mutate(ctx, func(stock models.StockDocument) {
		rec, ok := stock[name]
		if !ok {
			rec = models.StockRecord{MaxStock: models.DefaultMaxStock}
		}
		rec.Quantity = qty
		stock[name] = rec
	})
	if errors.Is(err, database.ErrNotFound) {
		if err := g.Initialize(ctx); err != nil {
			return err
		}
		return g.SetQuantity(ctx, name, qty)
	}
	if err != nil {
		return persistErr("set stock", err)
	}
	utils.InfoLogger.Printf("%s set to %d", name, qty)
	return nil
}

// ParseQuantity validates raw admin input for SetQuantity.
func ParseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || qty < 0 {
		return 0, &ValidationError{Field: "quantity", Message: "Invalid quantity"}
	}
	return qty, nil
}

func (g *StockGateway) mutate(ctx context.Context, apply func(models.StockDocument)) error {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		doc, err := g.store.Get(ctx, models.CollectionInventory, models.DocStock)
		if err != nil {
			return err
		}

		stock := models.StockDocument{}
		if err := doc.Decode(&stock); err != nil {
			return fmt.Errorf("decode stock document: %w", err)
		}
		apply(stock)

		data, err := json.Marshal(stock)
		if err != nil {
			return err
		}
		_, err = g.store.UpdateIfVersion(ctx, models.CollectionInventory, models.DocStock, doc.Version, data)
		if errors.Is(err, database.ErrVersionConflict) {
			utils.InfoLogger.Debugf("Stock write conflict, retry %d/%d", attempt, g.maxAttempts)
			continue
		}
		return err
	}
	return ErrStockContention
}

func knownStockName(name string) bool {
	for _, n := range catalog.Names() {
		if n == name {
			return true
		}
	}
	return false
}

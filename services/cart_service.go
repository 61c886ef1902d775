package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/yeremiapane/waffle-wala/catalog"
	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/storage"
	"github.com/yeremiapane/waffle-wala/utils"
)

// CartStorageKey is the session storage name of the cart snapshot.
const CartStorageKey = "wwCart2"

// Cart is one session's ordered list of lines. Every mutation writes the full
// snapshot back to storage before returning.
type Cart struct {
	sessionID string
	store     storage.Storage
	lines     []models.CartLine
}

// LoadCart restores the cart of a session. Missing or unreadable data yields
// an empty cart.
func LoadCart(ctx context.Context, store storage.Storage, sessionID string) *Cart {
	c := &Cart{sessionID: sessionID, store: store}

	raw, err := store.Get(ctx, storage.Key(CartStorageKey, sessionID))
	if err != nil {
		if !errors.Is(err, storage.ErrMiss) {
			utils.ErrorLogger.Errorf("Failed to load cart for session %s: %v", sessionID, err)
		}
		return c
	}

	var lines []models.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		utils.InfoLogger.Warnf("Discarding unreadable cart for session %s: %v", sessionID, err)
		return c
	}
	for i := range lines {
		lines[i].Normalize()
	}
	c.lines = lines
	return c
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Find returns the line with the given identity key.
func (c *Cart) Find(key string) (models.CartLine, bool) {
	if i := c.index(key); i >= 0 {
		return c.lines[i], true
	}
	return models.CartLine{}, false
}

// Add merges line into an existing line with the same identity key, or appends it.
func (c *Cart) Add(ctx context.Context, line models.CartLine) {
	line.Normalize()
	if i := c.index(line.Key()); i >= 0 {
		c.lines[i].Quantity += line.Quantity
	} else {
		c.lines = append(c.lines, line)
	}
	c.save(ctx)
}

func (c *Cart) Increment(ctx context.Context, key string) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	c.lines[i].Quantity++
	c.save(ctx)
	return true
}

// Decrement lowers the quantity by one and drops the line when it would reach 0.
func (c *Cart) Decrement(ctx context.Context, key string) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
	} else {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
	c.save(ctx)
	return true
}

func (c *Cart) Remove(ctx context.Context, key string) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.save(ctx)
	return true
}

func (c *Cart) Clear(ctx context.Context) {
	c.lines = nil
	c.save(ctx)
}

// Settle takes the ordered lines out of the cart. Lines added after the
// snapshot, and any quantity above it, stay in the cart.
func (c *Cart) Settle(ctx context.Context, ordered []models.CartLine) {
	for _, o := range ordered {
		i := c.index(o.Key())
		if i < 0 {
			continue
		}
		if c.lines[i].Quantity > o.Quantity {
			c.lines[i].Quantity -= o.Quantity
		} else {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
	}
	c.save(ctx)
}

func (c *Cart) Subtotal() int {
	total := 0
	for _, l := range c.lines {
		total += l.LineTotal()
	}
	return total
}

// Total is the subtotal plus the flat delivery fee.
func (c *Cart) Total() int {
	return c.Subtotal() + catalog.DeliveryFee
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// QuantityOf returns the quantity of the line keyed to key, 0 when absent.
func (c *Cart) QuantityOf(key string) int {
	if i := c.index(key); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) index(key string) int {
	for i, l := range c.lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

// save writes the snapshot. A failed write is logged and the in-memory cart
// stays authoritative for this request.
func (c *Cart) save(ctx context.Context) {
	lines := c.lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to encode cart for session %s: %v", c.sessionID, err)
		return
	}
	if err := c.store.Set(ctx, storage.Key(CartStorageKey, c.sessionID), data, 0); err != nil {
		utils.ErrorLogger.Errorf("Failed to persist cart for session %s: %v", c.sessionID, err)
	}
}

// CartView is the JSON shape of a cart.
type CartView struct {
	Lines       []CartLineView `json:"items"`
	Count       int            `json:"count"`
	Subtotal    int            `json:"subtotal"`
	DeliveryFee int            `json:"deliveryFee"`
	Total       int            `json:"total"`
	Display     string         `json:"display"`
}

type CartLineView struct {
	Key string `json:"key"`
	models.CartLine
	LineTotal int `json:"lineTotal"`
}

// View summarises the cart for responses.
func (c *Cart) View() CartView {
	v := CartView{
		Lines:       make([]CartLineView, 0, len(c.lines)),
		Count:       c.Count(),
		Subtotal:    c.Subtotal(),
		DeliveryFee: catalog.DeliveryFee,
		Total:       c.Total(),
	}
	for _, l := range c.lines {
		v.Lines = append(v.Lines, CartLineView{Key: l.Key(), CartLine: l, LineTotal: l.LineTotal()})
	}
	v.Display = utils.FormatRupees(v.Total)
	return v
}

// AddItemRequest describes a line the customer wants to add.
type AddItemRequest struct {
	Kind     models.LineKind `json:"kind"`
	Name     string          `json:"name" binding:"required"`
	Toppings []string        `json:"toppings"`
	Removals []string        `json:"removals"`
}

const cartLockStripes = 64

// CartService guards carts per session and checks stock when items are added.
type CartService struct {
	store storage.Storage
	stock *StockGateway

	locks [cartLockStripes]sync.Mutex
}

func NewCartService(store storage.Storage, stock *StockGateway) *CartService {
	return &CartService{
		store: store,
		stock: stock,
	}
}

// WithCart loads the session cart and runs fn while holding the session lock.
func (s *CartService) WithCart(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	cart := LoadCart(ctx, s.store, sessionID)
	if err := fn(cart); err != nil {
		return cart, err
	}
	return cart, nil
}

func (s *CartService) Get(ctx context.Context, sessionID string) *Cart {
	cart, _ := s.WithCart(ctx, sessionID, func(*Cart) error { return nil })
	return cart
}

// AddItem builds a line from the catalog, checks it against current stock and
// merges it into the cart.
func (s *CartService) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (*Cart, error) {
	line, err := buildLine(req)
	if err != nil {
		return nil, &ValidationError{Field: "name", Message: err.Error()}
	}

	return s.WithCart(ctx, sessionID, func(cart *Cart) error {
		if err := s.checkAddStock(ctx, cart, line); err != nil {
			return err
		}
		cart.Add(ctx, line)
		utils.InfoLogger.Debugf("Session %s added %s", sessionID, line.DisplayName)
		return nil
	})
}

func (s *CartService) Increment(ctx context.Context, sessionID, key string) (*Cart, error) {
	return s.WithCart(ctx, sessionID, func(cart *Cart) error {
		if !cart.Increment(ctx, key) {
			return ErrLineNotFound
		}
		return nil
	})
}

func (s *CartService) Decrement(ctx context.Context, sessionID, key string) (*Cart, error) {
	return s.WithCart(ctx, sessionID, func(cart *Cart) error {
		if !cart.Decrement(ctx, key) {
			return ErrLineNotFound
		}
		return nil
	})
}

func (s *CartService) Remove(ctx context.Context, sessionID, key string) (*Cart, error) {
	return s.WithCart(ctx, sessionID, func(cart *Cart) error {
		if !cart.Remove(ctx, key) {
			return ErrLineNotFound
		}
		return nil
	})
}

func (s *CartService) Clear(ctx context.Context, sessionID string) (*Cart, error) {
	return s.WithCart(ctx, sessionID, func(cart *Cart) error {
		cart.Clear(ctx)
		return nil
	})
}

// sessionLock maps a session onto one of a fixed set of mutexes, so the lock
// table stays the same size however many sessions arrive.
func (s *CartService) sessionLock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%cartLockStripes]
}

func buildLine(req AddItemRequest) (models.CartLine, error) {
	kind := req.Kind
	if kind == "" {
		switch {
		case len(req.Toppings) > 0 || len(req.Removals) > 0:
			kind = models.LineCustomized
		default:
			if _, ok := catalog.FindCombo(req.Name); ok {
				kind = models.LineCombo
			} else {
				kind = models.LineSimple
			}
		}
	}

	switch kind {
	case models.LineSimple:
		return catalog.SimpleLine(req.Name)
	case models.LineCustomized:
		return catalog.CustomizedLine(req.Name, req.Toppings, req.Removals)
	case models.LineCombo:
		return catalog.ComboLine(req.Name)
	default:
		return models.CartLine{}, fmt.Errorf("unknown line kind %q", kind)
	}
}

// checkAddStock rejects an add that would put more of a product in the cart
// than is in stock.
func (s *CartService) checkAddStock(ctx context.Context, cart *Cart, line models.CartLine) error {
	stock, err := s.stock.Snapshot(ctx)
	if err != nil {
		return persistErr("read stock", err)
	}

	switch line.Kind {
	case models.LineCombo:
		for _, comp := range line.ComboComponents {
			if avail := stock.Quantity(comp.Name); avail < comp.Quantity {
				return &StockConflictError{Item: comp.Name, Available: avail, Requested: comp.Quantity}
			}
		}
	default:
		name := line.ProductName()
		avail := stock.Quantity(name)
		if avail <= 0 {
			return &StockConflictError{Item: name, Available: 0, Requested: line.Quantity}
		}
		if have := cart.QuantityOf(line.Key()); have >= avail {
			return &StockConflictError{Item: name, Available: avail, Requested: have + line.Quantity}
		}
	}
	return nil
}

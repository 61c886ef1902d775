package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yeremiapane/waffle-wala/catalog"
	"github.com/yeremiapane/waffle-wala/database"
	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/utils"
)

const (
	LowStockThreshold = 5
	topItemsLimit     = 8
)

// forward moves an admin may make one step at a time.
var nextStatus = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusPending:   models.OrderStatusPreparing,
	models.OrderStatusPreparing: models.OrderStatusReady,
	models.OrderStatusReady:     models.OrderStatusDelivered,
}

// AdminService holds the reconciliation actions and the dashboard reads.
type AdminService struct {
	store database.Store
	stock *StockGateway
}

func NewAdminService(store database.Store, stock *StockGateway) *AdminService {
	return &AdminService{store: store, stock: stock}
}

func (s *AdminService) Orders(ctx context.Context) ([]models.Order, error) {
	return listOrders(ctx, s.store)
}

// Complete marks a pending order completed.
func (s *AdminService) Complete(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.transition(ctx, id, func(cur models.OrderStatus) (models.OrderStatus, error) {
		if cur != models.OrderStatusPending {
			return "", ErrInvalidTransition
		}
		return models.OrderStatusCompleted, nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Order %s completed", order.Label())
	return order, nil
}

// Cancel marks a pending order cancelled and puts its stock back. Topping
// entries are not restored.
func (s *AdminService) Cancel(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.transition(ctx, id, func(cur models.OrderStatus) (models.OrderStatus, error) {
		if cur != models.OrderStatusPending {
			return "", ErrInvalidTransition
		}
		return models.OrderStatusCancelled, nil
	})
	if err != nil {
		return nil, err
	}

	for _, it := range order.ExpandedItems {
		if it.IsTopping {
			continue
		}
		if _, err := s.stock.Adjust(ctx, it.Name, it.Quantity); err != nil {
			utils.ErrorLogger.Errorf("Order %s cancelled but restoring %s failed: %v", order.Label(), it.Name, err)
			return order, err
		}
	}
	utils.InfoLogger.Printf("Order %s cancelled, stock restored", order.Label())
	return order, nil
}

// Advance moves an order one step along pending, preparing, ready, delivered.
func (s *AdminService) Advance(ctx context.Context, id string, to models.OrderStatus) (*models.Order, error) {
	order, err := s.transition(ctx, id, func(cur models.OrderStatus) (models.OrderStatus, error) {
		if next, ok := nextStatus[cur]; !ok || next != to {
			return "", ErrInvalidTransition
		}
		return to, nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Order %s is now %s", order.Label(), order.Status)
	return order, nil
}

// Delete removes an order outright. Stock is not restored.
func (s *AdminService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	err := s.store.Delete(ctx, models.CollectionOrders, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return persistErr("delete order", err)
	}
	utils.InfoLogger.Printf("Order %s deleted", id)
	return nil
}

func (s *AdminService) SetStock(ctx context.Context, name string, qty int) error {
	return s.stock.SetQuantity(ctx, name, qty)
}

// transition applies guard to the freshest status and writes the result
// under a versioned update.
func (s *AdminService) transition(ctx context.Context, id string, guard func(models.OrderStatus) (models.OrderStatus, error)) (*models.Order, error) {
	var order *models.Order
	_, err := updateDocument(ctx, s.store, models.CollectionOrders, id, func(doc *models.Document) ([]byte, error) {
		cur, err := decodeOrder(doc)
		if err != nil {
			return nil, err
		}
		next, err := guard(cur.Status)
		if err != nil {
			return nil, err
		}

		// patch only the status field so unknown fields survive
		var raw map[string]json.RawMessage
		if err := json.Unmarshal([]byte(doc.Data), &raw); err != nil {
			return nil, err
		}
		status, _ := json.Marshal(next)
		raw["status"] = status
		cur.Status = next
		order = cur
		return json.Marshal(raw)
	})
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil, ErrOrderNotFound
	case errors.Is(err, ErrInvalidTransition):
		return nil, err
	case err != nil:
		return nil, persistErr("update order", err)
	}
	return order, nil
}

// InventoryItem is one row of the admin stock table.
type InventoryItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	MaxStock int    `json:"maxStock"`
	Level    string `json:"level"`
}

type Inventory struct {
	Items    []InventoryItem `json:"items"`
	LowStock []string        `json:"lowStock"`
}

func stockLevel(qty int) string {
	switch {
	case qty <= 0:
		return "out"
	case qty <= LowStockThreshold:
		return "low"
	default:
		return "in"
	}
}

// Inventory lists products then combos with their stock.
func (s *AdminService) Inventory(ctx context.Context) (*Inventory, error) {
	stock, err := s.stock.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	inv := &Inventory{LowStock: []string{}}
	for _, name := range catalog.Names() {
		rec, ok := stock[name]
		if !ok {
			rec = models.StockRecord{MaxStock: models.DefaultMaxStock}
		}
		inv.Items = append(inv.Items, InventoryItem{
			Name:     name,
			Quantity: rec.Quantity,
			MaxStock: rec.MaxStock,
			Level:    stockLevel(rec.Quantity),
		})
		if rec.Quantity <= LowStockThreshold {
			inv.LowStock = append(inv.LowStock, name)
		}
	}
	return inv, nil
}

type ItemSales struct {
	Name string `json:"name"`
	Sold int    `json:"sold"`
}

// DashboardStats summarises the orders collection.
type DashboardStats struct {
	TotalOrders     int         `json:"totalOrders"`
	PendingOrders   int         `json:"pendingOrders"`
	CompletedOrders int         `json:"completedOrders"`
	CancelledOrders int         `json:"cancelledOrders"`
	Revenue         int         `json:"revenue"`
	AvgOrderValue   int         `json:"avgOrderValue"`
	CompletionRate  int         `json:"completionRate"`
	TopItems        []ItemSales `json:"topItems"`
}

// BuildDashboard computes stats over orders. Revenue and sales only count
// completed orders.
func BuildDashboard(orders []models.Order) DashboardStats {
	stats := DashboardStats{TotalOrders: len(orders), TopItems: []ItemSales{}}
	sales := map[string]int{}

	for _, o := range orders {
		switch o.Status {
		case models.OrderStatusPending:
			stats.PendingOrders++
		case models.OrderStatusCancelled:
			stats.CancelledOrders++
		case models.OrderStatusCompleted:
			stats.CompletedOrders++
			stats.Revenue += o.Total

			var lines []models.CartLine
			if err := json.Unmarshal([]byte(o.Items), &lines); err != nil {
				utils.ErrorLogger.Errorf("Order %s has unreadable items: %v", o.Label(), err)
				continue
			}
			for _, l := range lines {
				qty := l.Quantity
				if qty < 1 {
					qty = 1
				}
				sales[l.ProductName()] += qty
			}
		}
	}

	if stats.CompletedOrders > 0 {
		stats.AvgOrderValue = int(math.Round(float64(stats.Revenue) / float64(stats.CompletedOrders)))
	}
	if stats.TotalOrders > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.CompletedOrders) * 100 / float64(stats.TotalOrders)))
	}

	for name, sold := range sales {
		stats.TopItems = append(stats.TopItems, ItemSales{Name: name, Sold: sold})
	}
	sort.Slice(stats.TopItems, func(i, j int) bool {
		if stats.TopItems[i].Sold != stats.TopItems[j].Sold {
			return stats.TopItems[i].Sold > stats.TopItems[j].Sold
		}
		return stats.TopItems[i].Name < stats.TopItems[j].Name
	})
	if len(stats.TopItems) > topItemsLimit {
		stats.TopItems = stats.TopItems[:topItemsLimit]
	}
	return stats
}

func (s *AdminService) Dashboard(ctx context.Context) (DashboardStats, error) {
	orders, err := listOrders(ctx, s.store)
	if err != nil {
		return DashboardStats{}, err
	}
	return BuildDashboard(orders), nil
}

// ExportCSV writes every order, newest first.
func (s *AdminService) ExportCSV(ctx context.Context, w io.Writer) error {
	orders, err := listOrders(ctx, s.store)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Order#", "Flat", "Block", "Phone", "Items", "Total", "Payment", "Status", "Time"}); err != nil {
		return err
	}
	for _, o := range orders {
		var lines []models.CartLine
		if err := json.Unmarshal([]byte(o.Items), &lines); err != nil {
			utils.ErrorLogger.Errorf("Order %s has unreadable items, exported without them: %v", o.Label(), err)
		}
		items := make([]string, 0, len(lines))
		for _, l := range lines {
			items = append(items, fmt.Sprintf("%dx %s", max(l.Quantity, 1), l.DisplayName))
		}
		row := []string{
			strconv.Itoa(o.OrderNum),
			strconv.Itoa(o.FlatNo),
			string(o.Block),
			o.Phone,
			strings.Join(items, "; "),
			strconv.Itoa(o.Total),
			string(o.PaymentMethod),
			string(o.Status),
			o.CreatedAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

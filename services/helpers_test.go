package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/waffle-wala/database"
	"github.com/yeremiapane/waffle-wala/storage"
)

func setupTestStore(t testing.TB) *database.GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return database.NewGormStore(db)
}

// setupStock returns an initialised gateway with the given quantities.
func setupStock(t testing.TB, store database.Store, quantities map[string]int) *StockGateway {
	t.Helper()
	ctx := context.Background()
	gw := NewStockGateway(store)
	require.NoError(t, gw.Initialize(ctx))
	for name, qty := range quantities {
		require.NoError(t, gw.SetQuantity(ctx, name, qty))
	}
	return gw
}

type testServices struct {
	store   *database.GormStore
	kv      *storage.MemoryStorage
	stock   *StockGateway
	carts   *CartService
	holds   *PaymentHolds
	monitor *ChangeMonitor
	tracker *OrderTracker
	ops     *OperationsService
	orders  *OrderService
	admin   *AdminService
}

func setupServices(t testing.TB, quantities map[string]int) *testServices {
	t.Helper()
	store := setupTestStore(t)
	kv := storage.NewMemoryStorage()
	stock := setupStock(t, store, quantities)
	monitor := NewChangeMonitor(store, nil)
	require.NoError(t, monitor.Prime(context.Background()))

	s := &testServices{
		store:   store,
		kv:      kv,
		stock:   stock,
		carts:   NewCartService(kv, stock),
		holds:   NewPaymentHolds("waffle@upi", time.Minute),
		monitor: monitor,
		tracker: NewOrderTracker(kv, store, monitor),
		ops:     NewOperationsService(store),
		admin:   NewAdminService(store, stock),
	}
	s.orders = NewOrderService(store, stock, s.carts, s.holds, s.tracker, s.ops)
	s.orders.orderNumber = func() int { return 12345 }
	return s
}

func (s *testServices) add(t testing.TB, session string, req AddItemRequest) {
	t.Helper()
	_, err := s.carts.AddItem(context.Background(), session, req)
	require.NoError(t, err)
}

func validCheckout(method string) CheckoutRequest {
	return CheckoutRequest{Flat: "402", Block: "B", Phone: "9876543210", PaymentMethod: method}
}

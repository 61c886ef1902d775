package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waffle-wala/models"
)

func TestValidateCheckout(t *testing.T) {
	tests := []struct {
		name  string
		req   CheckoutRequest
		field string
	}{
		{"flat not a number", CheckoutRequest{Flat: "4A", Block: "A", Phone: "9876543210", PaymentMethod: "cod"}, "flat"},
		{"missing block", CheckoutRequest{Flat: "4", Phone: "9876543210", PaymentMethod: "cod"}, "block"},
		{"short phone", CheckoutRequest{Flat: "4", Block: "A", Phone: "98765", PaymentMethod: "cod"}, "phone"},
		{"phone with letters", CheckoutRequest{Flat: "4", Block: "A", Phone: "98765abcde", PaymentMethod: "cod"}, "phone"},
		{"unknown payment", CheckoutRequest{Flat: "4", Block: "A", Phone: "9876543210", PaymentMethod: "card"}, "payMethod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateCheckout(tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	details, err := ValidateCheckout(CheckoutRequest{Flat: " 12 ", Block: "c", Phone: "9876543210", PaymentMethod: "UPI", Notes: " ring bell "})
	require.NoError(t, err)
	assert.Equal(t, 12, details.FlatNo)
	assert.Equal(t, models.BlockC, details.Block)
	assert.Equal(t, models.PaymentUPI, details.PaymentMethod)
	assert.Equal(t, "ring bell", details.Notes)
}

func TestExpandLines(t *testing.T) {
	lines := []models.CartLine{
		{Kind: models.LineCombo, DisplayName: "Waffle Combo", UnitPrice: 120, Quantity: 2,
			ComboComponents: []models.ComboComponent{{Name: "Normal Waffle", Quantity: 1}, {Name: "Lemonade", Quantity: 1}}},
		{Kind: models.LineCustomized, DisplayName: "Normal Waffle with Sprinkles", BaseName: "Normal Waffle", UnitPrice: 80, Quantity: 1, Toppings: []string{"Sprinkles"}},
		{Kind: models.LineSimple, DisplayName: "Lemonade", UnitPrice: 10, Quantity: 3},
	}

	items := ExpandLines(lines)
	require.Len(t, items, 4)
	assert.Equal(t, models.ExpandedItem{Name: "Normal Waffle", Quantity: 2, IsCombo: true}, items[0])
	assert.Equal(t, models.ExpandedItem{Name: "Lemonade", Quantity: 2, IsCombo: true}, items[1])
	assert.Equal(t, "Normal Waffle", items[2].Name)
	assert.Equal(t, []string{"Sprinkles"}, items[2].Toppings)
	assert.Equal(t, 3, items[3].Quantity)
}

func TestCheckoutCashPlacesOrder(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, map[string]int{"Normal Waffle": 5, "Lemonade": 5})
	s.add(t, "s1", AddItemRequest{Name: "Normal Waffle"})
	s.add(t, "s1", AddItemRequest{Name: "Lemonade"})

	result, err := s.orders.Checkout(ctx, "s1", validCheckout("cod"))
	require.NoError(t, err)
	require.False(t, result.AwaitingPayment())

	order := result.Order
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, 12345, order.OrderNum)
	assert.Equal(t, 85, order.Subtotal)
	assert.Equal(t, 95, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Len(t, order.ExpandedItems, 2)

	stored, err := s.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Total, stored.Total)
	assert.Equal(t, 402, stored.FlatNo)

	qty, _ := s.stock.GetQuantity(ctx, "Normal Waffle")
	assert.Equal(t, 4, qty)
	assert.Empty(t, s.carts.Get(ctx, "s1").Lines())

	ptr, err := s.tracker.Resume(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, ptr)
	assert.Equal(t, order.ID, ptr.OrderID)
}

func TestCheckoutComboDeductsEachComponent(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, map[string]int{"Normal Waffle": 3, "Lemonade": 3})
	s.add(t, "s1", AddItemRequest{Name: "Waffle Combo"})

	result, err := s.orders.Checkout(ctx, "s1", validCheckout("cod"))
	require.NoError(t, err)

	require.Len(t, result.Order.ExpandedItems, 2)
	for _, it := range result.Order.ExpandedItems {
		assert.True(t, it.IsCombo)
	}
	waffles, _ := s.stock.GetQuantity(ctx, "Normal Waffle")
	lemonade, _ := s.stock.GetQuantity(ctx, "Lemonade")
	assert.Equal(t, 2, waffles)
	assert.Equal(t, 2, lemonade)
}

func TestCheckoutRejectsWhenStockShort(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, map[string]int{"Butter Popcorn": 3})
	s.add(t, "s1", AddItemRequest{Name: "Butter Popcorn"})
	_, err := s.carts.Increment(ctx, "s1", models.LineKey("Butter Popcorn", nil, nil))
	require.NoError(t, err)
	_, err = s.carts.Increment(ctx, "s1", models.LineKey("Butter Popcorn", nil, nil))
	require.NoError(t, err)
	require.NoError(t, s.stock.SetQuantity(ctx, "Butter Popcorn", 2))

	_, err = s.orders.Checkout(ctx, "s1", validCheckout("cod"))
	var conflict *StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Butter Popcorn", conflict.Item)
	assert.Equal(t, 3, conflict.Requested)

	qty, _ := s.stock.GetQuantity(ctx, "Butter Popcorn")
	assert.Equal(t, 2, qty)
	orders, err := s.orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 3, s.carts.Get(ctx, "s1").Count())
}

func TestCheckoutValidationLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, map[string]int{"Lemonade": 3})
	s.add(t, "s1", AddItemRequest{Name: "Lemonade"})

	req := validCheckout("cod")
	req.Phone = "123"
	_, err := s.orders.Checkout(ctx, "s1", req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, s.carts.Get(ctx, "s1").Count())

	_, err = s.orders.Checkout(ctx, "empty", validCheckout("cod"))
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutUPIWaitsForConfirmation(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, map[string]int{"Lemonade": 3})
	s.add(t, "s1", AddItemRequest{Name: "Lemonade"})

	result, err := s.orders.Checkout(ctx, "s1", validCheckout("upi"))
	require.NoError(t, err)
	require.True(t, result.AwaitingPayment())
	assert.Equal(t, 20, result.Hold.Amount)
	assert.Equal(t, "waffle@upi", result.Hold.UPIID)

	qty, _ := s.stock.GetQuantity(ctx, "Lemonade")
	assert.Equal(t, 3, qty)
	assert.Equal(t, 1, s.carts.Get(ctx, "s1").Count())

	order, err := s.orders.ConfirmPayment(ctx, "s1", result.Hold.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentUPI, order.PaymentMethod)
	qty, _ = s.stock.GetQuantity(ctx, "Lemonade")
	assert.Equal(t, 2, qty)
	assert.Empty(t, s.carts.Get(ctx, "s1").Lines())

	_, err = s.orders.ConfirmPayment(ctx, "s1", result.Hold.ID)
	assert.ErrorIs(t, err, ErrHoldNotFound)
}

func TestConfirmPaymentKeepsLinesAddedWhileHeld(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, map[string]int{"Lemonade": 3, "Butter Popcorn": 3})
	s.add(t, "s1", AddItemRequest{Name: "Lemonade"})

	result, err := s.orders.Checkout(ctx, "s1", validCheckout("upi"))
	require.NoError(t, err)
	require.True(t, result.AwaitingPayment())

	// customer keeps shopping before paying
	s.add(t, "s1", AddItemRequest{Name: "Lemonade"})
	s.add(t, "s1", AddItemRequest{Name: "Butter Popcorn"})

	order, err := s.orders.ConfirmPayment(ctx, "s1", result.Hold.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, order.Total)

	cart := s.carts.Get(ctx, "s1")
	lines := cart.Lines()
	require.Len(t, lines, 2)
	lemonade, ok := cart.Find(models.LineKey("Lemonade", nil, nil))
	require.True(t, ok)
	assert.Equal(t, 1, lemonade.Quantity)
	popcorn, ok := cart.Find(models.LineKey("Butter Popcorn", nil, nil))
	require.True(t, ok)
	assert.Equal(t, 1, popcorn.Quantity)
}

func TestCheckoutUPICancelDropsHold(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, map[string]int{"Lemonade": 3})
	s.add(t, "s1", AddItemRequest{Name: "Lemonade"})

	result, err := s.orders.Checkout(ctx, "s1", validCheckout("upi"))
	require.NoError(t, err)
	require.NoError(t, s.orders.CancelPayment(ctx, "s1", result.Hold.ID))

	_, err = s.orders.ConfirmPayment(ctx, "s1", result.Hold.ID)
	assert.ErrorIs(t, err, ErrHoldNotFound)
	assert.Equal(t, 1, s.carts.Get(ctx, "s1").Count())
}

func TestCheckoutRefusedWhileClosed(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, map[string]int{"Lemonade": 3})
	s.add(t, "s1", AddItemRequest{Name: "Lemonade"})
	_, err := s.ops.Toggle(ctx)
	require.NoError(t, err)

	_, err = s.orders.Checkout(ctx, "s1", validCheckout("cod"))
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, map[string]int{"Lemonade": 10})

	var ids []string
	for i := 0; i < 3; i++ {
		s.add(t, "s1", AddItemRequest{Name: "Lemonade"})
		result, err := s.orders.Checkout(ctx, "s1", validCheckout("cod"))
		require.NoError(t, err)
		ids = append(ids, result.Order.ID)
	}

	orders, err := s.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i := 1; i < len(orders); i++ {
		assert.GreaterOrEqual(t, orders[i-1].Timestamp, orders[i].Timestamp)
	}
	assert.ElementsMatch(t, ids, []string{orders[0].ID, orders[1].ID, orders[2].ID})
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yeremiapane/waffle-wala/catalog"
	"github.com/yeremiapane/waffle-wala/database"
	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/utils"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// CheckoutRequest is the delivery form as submitted.
type CheckoutRequest struct {
	Flat          string `json:"flat"`
	Block         string `json:"block"`
	Phone         string `json:"phone"`
	Notes         string `json:"notes"`
	Allergy       string `json:"allergy"`
	PaymentMethod string `json:"payMethod"`
}

// CheckoutDetails is a CheckoutRequest that passed validation.
type CheckoutDetails struct {
	FlatNo        int
	Block         models.Block
	Phone         string
	Notes         string
	Allergy       string
	PaymentMethod models.PaymentMethod
}

// ValidateCheckout checks the delivery form field by field and reports the
// first bad field.
func ValidateCheckout(req CheckoutRequest) (CheckoutDetails, error) {
	flat, err := strconv.Atoi(strings.TrimSpace(req.Flat))
	if err != nil {
		return CheckoutDetails{}, &ValidationError{Field: "flat", Message: "Enter your flat number"}
	}
	block := models.Block(strings.ToUpper(strings.TrimSpace(req.Block)))
	if !block.Valid() {
		return CheckoutDetails{}, &ValidationError{Field: "block", Message: "Select your block"}
	}
	phone := strings.TrimSpace(req.Phone)
	if !phonePattern.MatchString(phone) {
		return CheckoutDetails{}, &ValidationError{Field: "phone", Message: "Enter a valid 10-digit phone number"}
	}
	method := models.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod)))
	if !method.Valid() {
		return CheckoutDetails{}, &ValidationError{Field: "payMethod", Message: "Select a payment method"}
	}

	return CheckoutDetails{
		FlatNo:        flat,
		Block:         block,
		Phone:         phone,
		Notes:         strings.TrimSpace(req.Notes),
		Allergy:       strings.TrimSpace(req.Allergy),
		PaymentMethod: method,
	}, nil
}

// ExpandLines flattens cart lines into base-product deductions. A combo line
// yields one entry per component, scaled by the line quantity.
func ExpandLines(lines []models.CartLine) []models.ExpandedItem {
	var out []models.ExpandedItem
	for _, l := range lines {
		switch l.Kind {
		case models.LineCombo:
			for _, comp := range l.ComboComponents {
				out = append(out, models.ExpandedItem{
					Name:     comp.Name,
					Quantity: comp.Quantity * l.Quantity,
					IsCombo:  true,
				})
			}
		case models.LineCustomized, models.LineSimple:
			out = append(out, models.ExpandedItem{
				Name:     l.ProductName(),
				Quantity: l.Quantity,
				Toppings: l.Toppings,
				Removals: l.Removals,
			})
		default:
			utils.ErrorLogger.Errorf("Skipping cart line %q with unknown kind %q", l.DisplayName, l.Kind)
		}
	}
	return out
}

// CheckoutResult is either a placed order or a hold awaiting UPI confirmation.
type CheckoutResult struct {
	Order *models.Order `json:"order,omitempty"`
	Hold  *PaymentHold  `json:"hold,omitempty"`
}

func (r *CheckoutResult) AwaitingPayment() bool {
	return r.Hold != nil
}

// StatusChecker reports whether the store is accepting orders.
type StatusChecker interface {
	Closed(ctx context.Context) (bool, error)
}

// OrderService runs the checkout state machine and reads orders back.
type OrderService struct {
	store   database.Store
	stock   *StockGateway
	carts   *CartService
	holds   *PaymentHolds
	tracker *OrderTracker
	status  StatusChecker

	now         func() time.Time
	orderNumber func() int
}

func NewOrderService(store database.Store, stock *StockGateway, carts *CartService, holds *PaymentHolds, tracker *OrderTracker, status StatusChecker) *OrderService {
	return &OrderService{
		store:       store,
		stock:       stock,
		carts:       carts,
		holds:       holds,
		tracker:     tracker,
		status:      status,
		now:         time.Now,
		orderNumber: randomOrderNumber,
	}
}

// randomOrderNumber is a 5-digit display number. Uniqueness is not checked;
// the document id identifies the order.
func randomOrderNumber() int {
	return 10000 + rand.IntN(90000)
}

// Checkout validates the form and the cart against stock. Cash orders are
// placed immediately; UPI orders are parked in a payment hold.
func (s *OrderService) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*CheckoutResult, error) {
	details, err := ValidateCheckout(req)
	if err != nil {
		return nil, err
	}
	if s.status != nil {
		closed, err := s.status.Closed(ctx)
		if err != nil {
			utils.ErrorLogger.Errorf("Failed to read operations flag: %v", err)
		} else if closed {
			return nil, ErrStoreClosed
		}
	}

	var result *CheckoutResult
	_, err = s.carts.WithCart(ctx, sessionID, func(cart *Cart) error {
		lines := cart.Lines()
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		if err := s.VerifyStock(ctx, lines); err != nil {
			return err
		}

		pending := PendingOrder{
			Details:  details,
			Lines:    lines,
			Subtotal: cart.Subtotal(),
			Total:    cart.Total(),
		}
		if details.PaymentMethod == models.PaymentUPI {
			hold := s.holds.Put(sessionID, pending)
			utils.InfoLogger.Printf("Session %s awaiting UPI payment of %s", sessionID, hold.Display)
			result = &CheckoutResult{Hold: hold}
			return nil
		}

		order, err := s.finalize(ctx, sessionID, cart, pending)
		if err != nil {
			return err
		}
		result = &CheckoutResult{Order: order}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmPayment finalizes the order parked in the session's hold.
func (s *OrderService) ConfirmPayment(ctx context.Context, sessionID, holdID string) (*models.Order, error) {
	hold, err := s.holds.Take(sessionID, holdID)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	_, err = s.carts.WithCart(ctx, sessionID, func(cart *Cart) error {
		order, err = s.finalize(ctx, sessionID, cart, hold.order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelPayment drops the session's hold. Nothing was deducted yet.
func (s *OrderService) CancelPayment(_ context.Context, sessionID, holdID string) error {
	return s.holds.Cancel(sessionID, holdID)
}

// VerifyStock rejects the cart if any base product is requested beyond what
// is in stock. Demand is summed across lines.
func (s *OrderService) VerifyStock(ctx context.Context, lines []models.CartLine) error {
	stock, err := s.stock.Snapshot(ctx)
	if err != nil {
		return persistErr("read stock", err)
	}

	demand := map[string]int{}
	var order []string
	for _, it := range ExpandLines(lines) {
		if _, seen := demand[it.Name]; !seen {
			order = append(order, it.Name)
		}
		demand[it.Name] += it.Quantity
	}
	for _, name := range order {
		if avail := stock.Quantity(name); demand[name] > avail {
			return &StockConflictError{Item: name, Available: avail, Requested: demand[name]}
		}
	}
	return nil
}

// finalize deducts stock, writes the order and settles the ordered lines out
// of the cart. A failure
// after some deductions leaves them applied.
func (s *OrderService) finalize(ctx context.Context, sessionID string, cart *Cart, pending PendingOrder) (*models.Order, error) {
	expanded := ExpandLines(pending.Lines)
	for _, it := range expanded {
		if _, err := s.stock.Adjust(ctx, it.Name, -it.Quantity); err != nil {
			utils.ErrorLogger.Errorf("Checkout for session %s failed while deducting %s: %v", sessionID, it.Name, err)
			return nil, err
		}
	}

	items, err := json.Marshal(pending.Lines)
	if err != nil {
		return nil, err
	}
	now := s.now()
	order := &models.Order{
		OrderNum:      s.orderNumber(),
		FlatNo:        pending.Details.FlatNo,
		Block:         pending.Details.Block,
		Phone:         pending.Details.Phone,
		Notes:         pending.Details.Notes,
		Allergy:       pending.Details.Allergy,
		PaymentMethod: pending.Details.PaymentMethod,
		Items:         string(items),
		ExpandedItems: expanded,
		Subtotal:      pending.Subtotal,
		DeliveryFee:   catalog.DeliveryFee,
		Total:         pending.Total,
		Status:        models.OrderStatusPending,
		CreatedAt:     now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Timestamp:     now.UnixMilli(),
	}

	data, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	if _, err := s.store.Create(ctx, models.CollectionOrders, id, data, order.Timestamp); err != nil {
		utils.ErrorLogger.Errorf("Failed to save order %s, stock already deducted: %v", order.Label(), err)
		return nil, persistErr("save order", err)
	}
	order.ID = id

	cart.Settle(ctx, pending.Lines)
	if s.tracker != nil {
		if err := s.tracker.Begin(ctx, sessionID, order); err != nil {
			utils.ErrorLogger.Errorf("Failed to save tracking pointer for %s: %v", order.Label(), err)
		}
	}

	utils.InfoLogger.Printf("Order %s placed: %s, %s-%d, %s", order.Label(), utils.FormatRupees(order.Total), order.Block, order.FlatNo, order.PaymentMethod)
	return order, nil
}

// Get reads one order.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	return getOrder(ctx, s.store, id)
}

// List returns every order, newest first.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return listOrders(ctx, s.store)
}

func getOrder(ctx context.Context, store database.Store, id string) (*models.Order, error) {
	doc, err := store.Get(ctx, models.CollectionOrders, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeOrder(doc)
}

func decodeOrder(doc *models.Document) (*models.Order, error) {
	var order models.Order
	if err := doc.Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", doc.DocID, err)
	}
	order.ID = doc.DocID
	return &order, nil
}

func listOrders(ctx context.Context, store database.Store) ([]models.Order, error) {
	docs, err := store.List(ctx, models.CollectionOrders)
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(docs))
	for i := range docs {
		order, err := decodeOrder(&docs[i])
		if err != nil {
			utils.ErrorLogger.Errorf("Skipping unreadable order: %v", err)
			continue
		}
		orders = append(orders, *order)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Timestamp > orders[j].Timestamp
	})
	return orders, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/yeremiapane/waffle-wala/database"
	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/storage"
	"github.com/yeremiapane/waffle-wala/utils"
)

const (
	// LastOrderKey is the session storage name of the tracking pointer.
	LastOrderKey   = "wwLastOrder"
	TrackingWindow = 2 * time.Hour
	TerminalStage  = 3
)

var StageLabels = []string{"Order Placed", "Preparing", "Ready", "Delivered"}

// StageFor maps a status to its tracker stage. Cancelled has no stage.
func StageFor(status models.OrderStatus) (int, bool) {
	switch status {
	case models.OrderStatusCancelled:
		return -1, false
	case models.OrderStatusPreparing:
		return 1, true
	case models.OrderStatusReady:
		return 2, true
	case models.OrderStatusDelivered, models.OrderStatusCompleted:
		return TerminalStage, true
	default:
		return 0, true
	}
}

type StageState string

const (
	StageDone    StageState = "done"
	StageActive  StageState = "active"
	StagePending StageState = "pending"
)

type StageView struct {
	Label string     `json:"label"`
	State StageState `json:"state"`
}

// TrackingView is what the customer sees for an order in flight.
type TrackingView struct {
	OrderID   string               `json:"orderId"`
	OrderNum  int                  `json:"orderNum"`
	Label     string               `json:"label"`
	Flat      int                  `json:"flat"`
	Block     models.Block         `json:"block"`
	PayMethod models.PaymentMethod `json:"payMethod"`
	Total     int                  `json:"total"`
	Status    models.OrderStatus   `json:"status"`
	Stage     int                  `json:"stage"`
	Cancelled bool                 `json:"cancelled"`
	Finished  bool                 `json:"finished"`
	Stages    []StageView          `json:"stages,omitempty"`
}

func NewTrackingView(ptr models.LastOrder, status models.OrderStatus) TrackingView {
	order := models.Order{OrderNum: ptr.OrderNum}
	v := TrackingView{
		OrderID:   ptr.OrderID,
		OrderNum:  ptr.OrderNum,
		Label:     order.Label(),
		Flat:      ptr.Flat,
		Block:     ptr.Block,
		PayMethod: ptr.PayMethod,
		Total:     ptr.Total,
		Status:    status,
	}

	stage, ok := StageFor(status)
	if !ok {
		v.Stage = -1
		v.Cancelled = true
		return v
	}
	v.Stage = stage
	v.Finished = stage >= TerminalStage
	for i, label := range StageLabels {
		state := StagePending
		switch {
		case i < stage:
			state = StageDone
		case i == stage:
			state = StageActive
		}
		v.Stages = append(v.Stages, StageView{Label: label, State: state})
	}
	return v
}

// PointerFor builds the tracking pointer of a placed order.
func PointerFor(order *models.Order) models.LastOrder {
	return models.LastOrder{
		OrderID:   order.ID,
		OrderNum:  order.OrderNum,
		Flat:      order.FlatNo,
		Block:     order.Block,
		PayMethod: order.PaymentMethod,
		Total:     order.Total,
		Ts:        order.Timestamp,
	}
}

// OrderTracker keeps the per-session last-order pointer and follows the
// order's status.
type OrderTracker struct {
	kv      storage.Storage
	store   database.Store
	changes Subscriber
	now     func() time.Time
}

func NewOrderTracker(kv storage.Storage, store database.Store, changes Subscriber) *OrderTracker {
	return &OrderTracker{
		kv:      kv,
		store:   store,
		changes: changes,
		now:     time.Now,
	}
}

// Begin stores the pointer for a freshly placed order.
func (t *OrderTracker) Begin(ctx context.Context, sessionID string, order *models.Order) error {
	data, err := json.Marshal(PointerFor(order))
	if err != nil {
		return err
	}
	return t.kv.Set(ctx, storage.Key(LastOrderKey, sessionID), data, TrackingWindow)
}

// Resume returns the session's pointer, or nil when there is none or it is
// older than the tracking window.
func (t *OrderTracker) Resume(ctx context.Context, sessionID string) (*models.LastOrder, error) {
	raw, err := t.kv.Get(ctx, storage.Key(LastOrderKey, sessionID))
	if errors.Is(err, storage.ErrMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ptr models.LastOrder
	if err := json.Unmarshal(raw, &ptr); err != nil || ptr.OrderID == "" {
		utils.InfoLogger.Warnf("Discarding unreadable tracking pointer for session %s", sessionID)
		return nil, t.Dismiss(ctx, sessionID)
	}
	if t.now().Sub(time.UnixMilli(ptr.Ts)) >= TrackingWindow {
		return nil, t.Dismiss(ctx, sessionID)
	}
	return &ptr, nil
}

// Current resolves the pointer against the stored order. Reaching the last
// stage clears the pointer.
func (t *OrderTracker) Current(ctx context.Context, sessionID string) (*TrackingView, error) {
	ptr, err := t.Resume(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if ptr == nil {
		return nil, ErrNoActiveOrder
	}

	order, err := getOrder(ctx, t.store, ptr.OrderID)
	if err != nil {
		return nil, err
	}
	view := NewTrackingView(*ptr, order.Status)
	if view.Finished {
		if err := t.Dismiss(ctx, sessionID); err != nil {
			utils.ErrorLogger.Errorf("Failed to clear tracking pointer: %v", err)
		}
	}
	return &view, nil
}

// Watch calls fn with a fresh view whenever the tracked order changes. A
// deleted or unreadable order leaves the last view in place. The returned
// func stops watching.
func (t *OrderTracker) Watch(ctx context.Context, sessionID string, fn func(TrackingView)) (func(), error) {
	ptr, err := t.Resume(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if ptr == nil {
		return nil, ErrNoActiveOrder
	}

	pointer := *ptr
	path := models.CollectionOrders + "/" + pointer.OrderID
	return t.changes.Subscribe(path, func(e ChangeEvent) {
		if e.Deleted() {
			return
		}
		var order models.Order
		if err := json.Unmarshal(e.Data, &order); err != nil {
			utils.ErrorLogger.Errorf("Unreadable order update on %s: %v", path, err)
			return
		}
		view := NewTrackingView(pointer, order.Status)
		if view.Finished {
			if err := t.Dismiss(context.Background(), sessionID); err != nil {
				utils.ErrorLogger.Errorf("Failed to clear tracking pointer: %v", err)
			}
		}
		fn(view)
	}), nil
}

// Dismiss forgets the session's pointer.
func (t *OrderTracker) Dismiss(ctx context.Context, sessionID string) error {
	return t.kv.Delete(ctx, storage.Key(LastOrderKey, sessionID))
}

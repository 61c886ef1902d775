package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waffle-wala/models"
)

func TestStageFor(t *testing.T) {
	tests := []struct {
		status models.OrderStatus
		stage  int
		ok     bool
	}{
		{models.OrderStatusPending, 0, true},
		{models.OrderStatusPreparing, 1, true},
		{models.OrderStatusReady, 2, true},
		{models.OrderStatusDelivered, 3, true},
		{models.OrderStatusCompleted, 3, true},
		{"mystery", 0, true},
		{models.OrderStatusCancelled, -1, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			stage, ok := StageFor(tt.status)
			assert.Equal(t, tt.stage, stage)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTrackingViewStages(t *testing.T) {
	ptr := models.LastOrder{OrderID: "o1", OrderNum: 54321}

	view := NewTrackingView(ptr, models.OrderStatusReady)
	assert.Equal(t, 2, view.Stage)
	assert.Equal(t, "#54321", view.Label)
	require.Len(t, view.Stages, 4)
	assert.Equal(t, StageDone, view.Stages[0].State)
	assert.Equal(t, StageDone, view.Stages[1].State)
	assert.Equal(t, StageActive, view.Stages[2].State)
	assert.Equal(t, StagePending, view.Stages[3].State)
	assert.False(t, view.Finished)

	cancelled := NewTrackingView(ptr, models.OrderStatusCancelled)
	assert.True(t, cancelled.Cancelled)
	assert.Empty(t, cancelled.Stages)
	assert.False(t, cancelled.Finished)
}

func TestTrackerPointerExpires(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, nil)
	now := time.Now()
	s.tracker.now = func() time.Time { return now }

	order := &models.Order{ID: "o1", OrderNum: 11111, Timestamp: now.UnixMilli()}
	require.NoError(t, s.tracker.Begin(ctx, "s1", order))

	ptr, err := s.tracker.Resume(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, ptr)

	now = now.Add(TrackingWindow + time.Second)
	ptr, err = s.tracker.Resume(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, ptr)
}

func TestTrackerCurrentClearsAtTerminalStage(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, map[string]int{"Lemonade": 5})
	s.add(t, "s1", AddItemRequest{Name: "Lemonade"})
	result, err := s.orders.Checkout(ctx, "s1", validCheckout("cod"))
	require.NoError(t, err)

	view, err := s.tracker.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Stage)

	_, err = s.admin.Complete(ctx, result.Order.ID)
	require.NoError(t, err)

	view, err = s.tracker.Current(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, view.Finished)

	_, err = s.tracker.Current(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoActiveOrder)
}

func TestTrackerWatchFollowsStatus(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, map[string]int{"Lemonade": 5})
	s.add(t, "s1", AddItemRequest{Name: "Lemonade"})
	result, err := s.orders.Checkout(ctx, "s1", validCheckout("cod"))
	require.NoError(t, err)
	id := result.Order.ID

	var views []TrackingView
	stop, err := s.tracker.Watch(ctx, "s1", func(v TrackingView) { views = append(views, v) })
	require.NoError(t, err)
	defer stop()

	_, err = s.admin.Advance(ctx, id, models.OrderStatusPreparing)
	require.NoError(t, err)
	_, err = s.admin.Advance(ctx, id, models.OrderStatusReady)
	require.NoError(t, err)
	_, err = s.monitor.Poll(ctx)
	require.NoError(t, err)

	require.NotEmpty(t, views)
	assert.Equal(t, 2, views[len(views)-1].Stage)

	// a deleted order keeps the last view
	n := len(views)
	require.NoError(t, s.admin.Delete(ctx, id, true))
	_, err = s.monitor.Poll(ctx)
	require.NoError(t, err)
	assert.Len(t, views, n)
}

func TestTrackerDismiss(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t, nil)
	require.NoError(t, s.tracker.Begin(ctx, "s1", &models.Order{ID: "o1", Timestamp: time.Now().UnixMilli()}))
	require.NoError(t, s.tracker.Dismiss(ctx, "s1"))

	_, err := s.tracker.Watch(ctx, "s1", func(TrackingView) {})
	assert.ErrorIs(t, err, ErrNoActiveOrder)
}

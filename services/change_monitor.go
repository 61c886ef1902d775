package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/yeremiapane/waffle-wala/database"
	"github.com/yeremiapane/waffle-wala/kds"
	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/utils"
)

// ChangeEvent is one document change read from the change log. Data is nil
// for deletes.
type ChangeEvent struct {
	Collection string          `json:"collection"`
	DocID      string          `json:"id"`
	Path       string          `json:"path"`
	Action     string          `json:"action"`
	Version    int64           `json:"version,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func (e ChangeEvent) Deleted() bool {
	return e.Action == models.ActionDelete
}

// Publisher is implemented by kds.Hub.
type Publisher interface {
	Publish(topic string, msg kds.Message)
}

// Subscriber registers a callback for a document path or a whole collection.
type Subscriber interface {
	Subscribe(path string, fn func(ChangeEvent)) (unsubscribe func())
}

// ChangeMonitor tails db_changes and fans every change out to in-process
// subscribers and websocket clients.
type ChangeMonitor struct {
	Store     database.Store
	Hub       Publisher
	StopChan  chan struct{}
	Interval  time.Duration
	BatchSize int

	mu     sync.Mutex
	cursor uint
	nextID int
	subs   map[string]map[int]func(ChangeEvent)
}

func NewChangeMonitor(store database.Store, hub Publisher) *ChangeMonitor {
	return &ChangeMonitor{
		Store:     store,
		Hub:       hub,
		StopChan:  make(chan struct{}),
		Interval:  500 * time.Millisecond,
		BatchSize: 100,
		subs:      make(map[string]map[int]func(ChangeEvent)),
	}
}

// Prime moves the cursor to the newest change so history is not replayed.
func (cm *ChangeMonitor) Prime(ctx context.Context) error {
	id, err := cm.Store.LatestChangeID(ctx)
	if err != nil {
		return err
	}
	cm.mu.Lock()
	cm.cursor = id
	cm.mu.Unlock()
	return nil
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := cm.Poll(context.Background()); err != nil {
					utils.ErrorLogger.Errorf("Error fetching changes: %v", err)
				}
			case <-cm.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Printf("Change monitor started, interval %s", cm.Interval)
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

// Subscribe registers fn for changes to path. path is either a document path
// ("orders/abc") or a collection name ("orders").
func (cm *ChangeMonitor) Subscribe(path string, fn func(ChangeEvent)) func() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.nextID++
	id := cm.nextID
	if cm.subs[path] == nil {
		cm.subs[path] = make(map[int]func(ChangeEvent))
	}
	cm.subs[path][id] = fn

	return func() {
		cm.mu.Lock()
		defer cm.mu.Unlock()
		delete(cm.subs[path], id)
		if len(cm.subs[path]) == 0 {
			delete(cm.subs, path)
		}
	}
}

// Poll processes one batch of changes after the cursor and returns how many
// were handled.
func (cm *ChangeMonitor) Poll(ctx context.Context) (int, error) {
	cm.mu.Lock()
	cursor := cm.cursor
	cm.mu.Unlock()

	changes, err := cm.Store.ChangesSince(ctx, cursor, cm.BatchSize)
	if err != nil {
		return 0, err
	}

	for _, change := range changes {
		cm.process(ctx, change)
		cursor = change.ID
	}

	cm.mu.Lock()
	if cursor > cm.cursor {
		cm.cursor = cursor
	}
	cm.mu.Unlock()

	if len(changes) > 0 {
		utils.InfoLogger.Debugf("Processed %d changes", len(changes))
	}
	return len(changes), nil
}

func (cm *ChangeMonitor) process(ctx context.Context, change models.DBChange) {
	event := ChangeEvent{
		Collection: change.Collection,
		DocID:      change.DocID,
		Path:       change.Path(),
		Action:     change.ActionType,
	}

	if change.ActionType != models.ActionDelete {
		doc, err := cm.Store.Get(ctx, change.Collection, change.DocID)
		if errors.Is(err, database.ErrNotFound) {
			// deleted after this change was logged; the delete entry follows
			return
		}
		if err != nil {
			utils.ErrorLogger.Errorf("Error fetching %s: %v", event.Path, err)
			return
		}
		event.Version = doc.Version
		event.Data = json.RawMessage(doc.Data)
	}

	cm.dispatch(event)

	if cm.Hub != nil {
		msg := kds.Message{Event: eventName(event), Data: event}
		cm.Hub.Publish(event.Path, msg)
		cm.Hub.Publish(event.Collection, msg)
	}
}

func (cm *ChangeMonitor) dispatch(event ChangeEvent) {
	cm.mu.Lock()
	var fns []func(ChangeEvent)
	for _, key := range []string{event.Path, event.Collection} {
		for _, fn := range cm.subs[key] {
			fns = append(fns, fn)
		}
	}
	cm.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

func eventName(e ChangeEvent) string {
	switch e.Collection {
	case models.CollectionOrders:
		if e.Deleted() {
			return kds.EventOrderDelete
		}
		return kds.EventOrderUpdate
	case models.CollectionInventory:
		return kds.EventStockUpdate
	case models.CollectionSettings:
		return kds.EventSettingsUpdate
	default:
		return kds.EventSuggestionUpdate
	}
}

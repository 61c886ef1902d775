package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/utils"
)

const DefaultHoldTimeout = 15 * time.Minute

// PendingOrder is a validated checkout waiting for UPI confirmation.
type PendingOrder struct {
	Details  CheckoutDetails
	Lines    []models.CartLine
	Subtotal int
	Total    int
}

// PaymentHold is the single pending-payment slot of a session.
type PaymentHold struct {
	ID        string    `json:"holdId"`
	SessionID string    `json:"-"`
	UPIID     string    `json:"upiId"`
	Amount    int       `json:"amount"`
	Display   string    `json:"display"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	order PendingOrder
}

// PaymentHolds keeps at most one hold per session and expires stale ones.
type PaymentHolds struct {
	UPIID   string
	Timeout time.Duration

	mutex    sync.Mutex
	holds    map[string]*PaymentHold
	now      func() time.Time
	stopChan chan struct{}
}

func NewPaymentHolds(upiID string, timeout time.Duration) *PaymentHolds {
	if timeout <= 0 {
		timeout = DefaultHoldTimeout
	}
	return &PaymentHolds{
		UPIID:    upiID,
		Timeout:  timeout,
		holds:    make(map[string]*PaymentHold),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Put replaces any hold of the session with a new one for order.
func (p *PaymentHolds) Put(sessionID string, order PendingOrder) *PaymentHold {
	now := p.now()
	hold := &PaymentHold{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UPIID:     p.UPIID,
		Amount:    order.Total,
		Display:   utils.FormatRupees(order.Total),
		CreatedAt: now,
		ExpiresAt: now.Add(p.Timeout),
		order:     order,
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()
	if old, ok := p.holds[sessionID]; ok {
		utils.InfoLogger.Printf("Replacing payment hold %s for session %s", old.ID, sessionID)
	}
	p.holds[sessionID] = hold
	return hold
}

// Get returns the live hold of a session.
func (p *PaymentHolds) Get(sessionID string) (*PaymentHold, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	hold, ok := p.holds[sessionID]
	if !ok || p.expired(hold) {
		return nil, false
	}
	return hold, true
}

// Take removes and returns the hold so it can be finalized exactly once.
func (p *PaymentHolds) Take(sessionID, holdID string) (*PaymentHold, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	hold, ok := p.holds[sessionID]
	if !ok || hold.ID != holdID {
		return nil, ErrHoldNotFound
	}
	delete(p.holds, sessionID)
	if p.expired(hold) {
		return nil, ErrHoldExpired
	}
	return hold, nil
}

// Cancel drops the hold without side effects.
func (p *PaymentHolds) Cancel(sessionID, holdID string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	hold, ok := p.holds[sessionID]
	if !ok || hold.ID != holdID {
		return ErrHoldNotFound
	}
	delete(p.holds, sessionID)
	utils.InfoLogger.Printf("Payment hold %s cancelled", holdID)
	return nil
}

// Sweep drops expired holds and returns how many were removed.
func (p *PaymentHolds) Sweep() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	removed := 0
	for sessionID, hold := range p.holds {
		if p.expired(hold) {
			delete(p.holds, sessionID)
			removed++
		}
	}
	if removed > 0 {
		utils.InfoLogger.Printf("Expired %d payment holds", removed)
	}
	return removed
}

// Start runs Sweep on every interval until Stop.
func (p *PaymentHolds) Start(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.Sweep()
			case <-p.stopChan:
				return
			}
		}
	}()
}

func (p *PaymentHolds) Stop() {
	close(p.stopChan)
}

func (p *PaymentHolds) expired(hold *PaymentHold) bool {
	return !p.now().Before(hold.ExpiresAt)
}

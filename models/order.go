package models

import (
	"fmt"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentUPI PaymentMethod = "upi"
	PaymentCOD PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentUPI || m == PaymentCOD
}

type Block string

const (
	BlockA Block = "A"
	BlockB Block = "B"
	BlockC Block = "C"
)

func (b Block) Valid() bool {
	return b == BlockA || b == BlockB || b == BlockC
}

// ExpandedItem is one base-product deduction of an order. Combos are flattened
// to one entry per component.
type ExpandedItem struct {
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	IsCombo   bool     `json:"isCombo,omitempty"`
	IsTopping bool     `json:"isTopping,omitempty"`
	Toppings  []string `json:"toppings,omitempty"`
	Removals  []string `json:"removals,omitempty"`
}

// Order is the document stored under orders/{id}. Only Status changes after creation.
type Order struct {
	ID            string         `json:"id,omitempty"`
	OrderNum      int            `json:"orderNum"`
	FlatNo        int            `json:"flatNo"`
	Block         Block          `json:"block"`
	Phone         string         `json:"phone"`
	Notes         string         `json:"notes"`
	Allergy       string         `json:"allergy"`
	PaymentMethod PaymentMethod  `json:"paymentMethod"`
	Items         string         `json:"items"`
	ExpandedItems []ExpandedItem `json:"expandedItems"`
	Subtotal      int            `json:"subtotal"`
	DeliveryFee   int            `json:"deliveryFee"`
	Total         int            `json:"total"`
	Status        OrderStatus    `json:"status"`
	CreatedAt     string         `json:"createdAt"`
	Timestamp     int64          `json:"timestamp"`
}

// Label is the human facing "#12345"
func (o *Order) Label() string {
	return fmt.Sprintf("#%d", o.OrderNum)
}

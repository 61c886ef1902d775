package models

// OperationsSettings is the body of settings/operations.
type OperationsSettings struct {
	Closed bool `json:"closed"`
}

// LastOrder is the client-scoped pointer used to resume tracking after a reload.
type LastOrder struct {
	OrderID   string        `json:"orderId"`
	OrderNum  int           `json:"orderNum"`
	Flat      int           `json:"flat"`
	Block     Block         `json:"block"`
	PayMethod PaymentMethod `json:"payMethod"`
	Total     int           `json:"total"`
	Ts        int64         `json:"ts"`
}

package models

const DefaultMaxStock = 100

// StockRecord is the inventory entry of one product.
type StockRecord struct {
	Quantity int `json:"quantity"`
	MaxStock int `json:"maxStock"`
}

// StockDocument maps product name to its stock record. It is the body of inventory/stock.
type StockDocument map[string]StockRecord

// Quantity returns the quantity for name, 0 when absent.
func (s StockDocument) Quantity(name string) int {
	if rec, ok := s[name]; ok {
		return rec.Quantity
	}
	return 0
}

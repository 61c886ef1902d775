package models

import (
	"encoding/json"
	"time"
)

// Collections and well-known document ids
const (
	CollectionInventory   = "inventory"
	CollectionOrders      = "orders"
	CollectionSuggestions = "suggestions"
	CollectionSettings    = "settings"

	DocStock      = "stock"
	DocOperations = "operations"
)

// Document is a JSON document addressed by (collection, doc_id).
// Version is bumped on every write and is what conditional updates compare against.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Collection string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_collection_doc" json:"collection"`
	DocID      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_collection_doc" json:"doc_id"`
	Data       string    `gorm:"type:text;not null" json:"data"`
	Version    int64     `gorm:"not null;default:1" json:"version"`
	Timestamp  int64     `gorm:"not null;default:0;index" json:"timestamp"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// Path returns "collection/doc_id"
func (d *Document) Path() string {
	return d.Collection + "/" + d.DocID
}

// Decode unmarshals the document body into v.
func (d *Document) Decode(v interface{}) error {
	return json.Unmarshal([]byte(d.Data), v)
}

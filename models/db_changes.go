package models

import (
	"time"
)

// Action types recorded in the change log
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// DBChange is one entry of the append-only change log that feeds live subscriptions.
type DBChange struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Collection string    `gorm:"type:varchar(50);not null;index:idx_collection_action" json:"collection"`
	DocID      string    `gorm:"type:varchar(100);not null" json:"doc_id"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_collection_action" json:"action_type"`
	ChangedAt  time.Time `gorm:"not null" json:"changed_at"`
}

// Path returns "collection/doc_id"
func (c DBChange) Path() string {
	return c.Collection + "/" + c.DocID
}

package database

import (
	"context"
	"errors"

	"github.com/yeremiapane/waffle-wala/models"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrAlreadyExists   = errors.New("document already exists")
	ErrVersionConflict = errors.New("document changed since it was read")
)

// Store is a key-document store with versioned writes and a change log.
// Every mutation appends a models.DBChange that ChangeMonitor turns into live updates.
type Store interface {
	Get(ctx context.Context, collection, docID string) (*models.Document, error)
	// Create fails with ErrAlreadyExists when the document is present.
	Create(ctx context.Context, collection, docID string, data []byte, timestamp int64) (*models.Document, error)
	// Put writes the document unconditionally, creating it when missing.
	Put(ctx context.Context, collection, docID string, data []byte) (*models.Document, error)
	// UpdateIfVersion writes only when the stored version still equals version.
	UpdateIfVersion(ctx context.Context, collection, docID string, version int64, data []byte) (*models.Document, error)
	Delete(ctx context.Context, collection, docID string) error
	// List returns a collection ordered by timestamp, newest first.
	List(ctx context.Context, collection string) ([]models.Document, error)
	ChangesSince(ctx context.Context, afterID uint, limit int) ([]models.DBChange, error)
	LatestChangeID(ctx context.Context) (uint, error)
}

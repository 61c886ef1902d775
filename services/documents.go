package services

import (
	"context"
	"errors"

	"github.com/yeremiapane/waffle-wala/database"
	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/utils"
)

const defaultDocumentAttempts = 5

// updateDocument re-reads the document and applies change until the versioned
// write succeeds. change sees the freshest copy on every attempt.
func updateDocument(ctx context.Context, store database.Store, collection, docID string, change func(*models.Document) ([]byte, error)) (*models.Document, error) {
	for attempt := 1; attempt <= defaultDocumentAttempts; attempt++ {
		doc, err := store.Get(ctx, collection, docID)
		if err != nil {
			return nil, err
		}
		data, err := change(doc)
		if err != nil {
			return nil, err
		}
		updated, err := store.UpdateIfVersion(ctx, collection, docID, doc.Version, data)
		if errors.Is(err, database.ErrVersionConflict) {
			utils.InfoLogger.Debugf("Write conflict on %s, retry %d", doc.Path(), attempt)
			continue
		}
		return updated, err
	}
	return nil, database.ErrVersionConflict
}

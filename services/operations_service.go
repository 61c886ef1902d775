package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/yeremiapane/waffle-wala/database"
	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/utils"
)

// OperationsService reads and flips the settings/operations flag.
type OperationsService struct {
	store database.Store
}

func NewOperationsService(store database.Store) *OperationsService {
	return &OperationsService{store: store}
}

// Get returns the flag; a missing document means open.
func (s *OperationsService) Get(ctx context.Context) (models.OperationsSettings, error) {
	doc, err := s.store.Get(ctx, models.CollectionSettings, models.DocOperations)
	if errors.Is(err, database.ErrNotFound) {
		return models.OperationsSettings{}, nil
	}
	if err != nil {
		return models.OperationsSettings{}, err
	}
	var settings models.OperationsSettings
	if err := doc.Decode(&settings); err != nil {
		return models.OperationsSettings{}, err
	}
	return settings, nil
}

func (s *OperationsService) Closed(ctx context.Context) (bool, error) {
	settings, err := s.Get(ctx)
	return settings.Closed, err
}

// Set writes the flag outright, creating the document when missing.
func (s *OperationsService) Set(ctx context.Context, closed bool) (models.OperationsSettings, error) {
	settings := models.OperationsSettings{Closed: closed}
	data, err := json.Marshal(settings)
	if err != nil {
		return models.OperationsSettings{}, err
	}
	if _, err := s.store.Put(ctx, models.CollectionSettings, models.DocOperations, data); err != nil {
		return models.OperationsSettings{}, persistErr("set operations", err)
	}
	utils.InfoLogger.Printf("Operations flag set, closed=%t", closed)
	return settings, nil
}

// Toggle flips the flag and returns the new state.
func (s *OperationsService) Toggle(ctx context.Context) (models.OperationsSettings, error) {
	var next models.OperationsSettings
	_, err := updateDocument(ctx, s.store, models.CollectionSettings, models.DocOperations, func(doc *models.Document) ([]byte, error) {
		var cur models.OperationsSettings
		if err := doc.Decode(&cur); err != nil {
			return nil, err
		}
		next = models.OperationsSettings{Closed: !cur.Closed}
		return json.Marshal(next)
	})
	if errors.Is(err, database.ErrNotFound) {
		next = models.OperationsSettings{Closed: true}
		data, _ := json.Marshal(next)
		_, err = s.store.Create(ctx, models.CollectionSettings, models.DocOperations, data, 0)
		if errors.Is(err, database.ErrAlreadyExists) {
			return s.Toggle(ctx)
		}
	}
	if err != nil {
		return models.OperationsSettings{}, persistErr("toggle operations", err)
	}

	if next.Closed {
		utils.InfoLogger.Printf("Store is now CLOSED")
	} else {
		utils.InfoLogger.Printf("Store is now OPEN")
	}
	return next, nil
}

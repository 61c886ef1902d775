package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/waffle-wala/models"
)

// GormStore keeps documents in the documents table and the change log in db_changes.
// Both are written in the same transaction.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Get(ctx context.Context, collection, docID string) (*models.Document, error) {
	var doc models.Document
	err := s.DB.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, docID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *GormStore) Create(ctx context.Context, collection, docID string, data []byte, timestamp int64) (*models.Document, error) {
	var doc models.Document
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Document{}).
			Where("collection = ? AND doc_id = ?", collection, docID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyExists
		}

		now := time.Now()
		doc = models.Document{
			Collection: collection,
			DocID:      docID,
			Data:       string(data),
			Version:    1,
			Timestamp:  timestamp,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.Create(&doc).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyExists
			}
			return err
		}
		return recordChange(tx, collection, docID, models.ActionInsert)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *GormStore) Put(ctx context.Context, collection, docID string, data []byte) (*models.Document, error) {
	var doc models.Document
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		err := tx.Where("collection = ? AND doc_id = ?", collection, docID).First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			doc = models.Document{
				Collection: collection,
				DocID:      docID,
				Data:       string(data),
				Version:    1,
				Timestamp:  now.UnixMilli(),
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
			return recordChange(tx, collection, docID, models.ActionInsert)
		}
		if err != nil {
			return err
		}

		doc.Data = string(data)
		doc.Version++
		doc.UpdatedAt = now
		if err := tx.Save(&doc).Error; err != nil {
			return err
		}
		return recordChange(tx, collection, docID, models.ActionUpdate)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *GormStore) UpdateIfVersion(ctx context.Context, collection, docID string, version int64, data []byte) (*models.Document, error) {
	var doc models.Document
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Document{}).
			Where("collection = ? AND doc_id = ? AND version = ?", collection, docID, version).
			Updates(map[string]interface{}{
				"data":       string(data),
				"version":    gorm.Expr("version + 1"),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Document{}).
				Where("collection = ? AND doc_id = ?", collection, docID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrVersionConflict
		}
		if err := tx.Where("collection = ? AND doc_id = ?", collection, docID).First(&doc).Error; err != nil {
			return err
		}
		return recordChange(tx, collection, docID, models.ActionUpdate)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *GormStore) Delete(ctx context.Context, collection, docID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("collection = ? AND doc_id = ?", collection, docID).Delete(&models.Document{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return recordChange(tx, collection, docID, models.ActionDelete)
	})
}

func (s *GormStore) List(ctx context.Context, collection string) ([]models.Document, error) {
	var docs []models.Document
	err := s.DB.WithContext(ctx).
		Where("collection = ?", collection).
		Order("timestamp desc").
		Order("id desc").
		Find(&docs).Error
	return docs, err
}

func (s *GormStore) ChangesSince(ctx context.Context, afterID uint, limit int) ([]models.DBChange, error) {
	var changes []models.DBChange
	err := s.DB.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id asc").
		Limit(limit).
		Find(&changes).Error
	return changes, err
}

func (s *GormStore) LatestChangeID(ctx context.Context) (uint, error) {
	var change models.DBChange
	err := s.DB.WithContext(ctx).Order("id desc").First(&change).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return change.ID, nil
}

func recordChange(tx *gorm.DB, collection, docID, action string) error {
	return tx.Create(&models.DBChange{
		Collection: collection,
		DocID:      docID,
		ActionType: action,
		ChangedAt:  time.Now(),
	}).Error
}

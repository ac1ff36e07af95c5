package kv

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/memexlabs/memex/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists keys as rows in a SQLite kv table.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.DB == nil {
		return nil, false, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, nil
	}

	var row models.KVEntry
	err := s.DB.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return row.Value, true, nil
}

func (s *GormStore) Put(ctx context.Context, key string, value []byte) error {
	if s == nil || s.DB == nil {
		return nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}

	row := models.KVEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UnixMilli(),
	}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"value":      row.Value,
				"updated_at": row.UpdatedAt,
			}),
		}).
		Create(&row).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	if s == nil || s.DB == nil {
		return nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	return s.DB.WithContext(ctx).Where("key = ?", key).Delete(&models.KVEntry{}).Error
}

package storage

import (
	"context"
	"errors"

	"github.com/angelmondragon/spa-storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQL keeps records in the storage_records table.
type SQL struct {
	db *gorm.DB
}

func NewSQL(db *gorm.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var record models.StorageRecord
	err := s.db.WithContext(ctx).
		Where("record_key = ?", key).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return record.Value, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	record := models.StorageRecord{Key: key, Value: value}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
}

func (s *SQL) Del(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("record_key = ?", key).
		Delete(&models.StorageRecord{}).Error
}

func (s *SQL) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

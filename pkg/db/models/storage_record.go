package models

import "time"

// StorageRecord is one key-value entry in the storage_records table.
type StorageRecord struct {
	Key       string    `gorm:"column:record_key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StorageRecord) TableName() string {
	return "storage_records"
}

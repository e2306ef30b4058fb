package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	DisplayName  string    `gorm:"not null;default:''"`
	CreatedAt    time.Time `gorm:"not null"`
}

// KeyValueEntry is one durable slot of a user's local key-value storage.
type KeyValueEntry struct {
	OwnerID   uint   `gorm:"primaryKey;autoIncrement:false"`
	Key       string `gorm:"column:slot_key;primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (KeyValueEntry) TableName() string {
	return "kv_entries"
}

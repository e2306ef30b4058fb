package db

import (
	"context"
	"errors"
	"time"

	"github.com/terraincognita07/nestwell/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValueRepository is the durable local key-value storage. Every user gets an
// isolated namespace so slot keys stay identical across users.
type KeyValueRepository struct {
	database *gorm.DB
}

func NewKeyValueRepository(database *gorm.DB) *KeyValueRepository {
	return &KeyValueRepository{database: database}
}

func (repo *KeyValueRepository) ForOwner(ownerID uint) *OwnerKeyValues {
	return &OwnerKeyValues{database: repo.database, ownerID: ownerID}
}

type OwnerKeyValues struct {
	database *gorm.DB
	ownerID  uint
}

func (store *OwnerKeyValues) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KeyValueEntry
	err := store.database.WithContext(ctx).
		Where("owner_id = ? AND slot_key = ?", store.ownerID, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (store *OwnerKeyValues) Set(ctx context.Context, key string, value string) error {
	entry := models.KeyValueEntry{
		OwnerID:   store.ownerID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return store.database.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (store *OwnerKeyValues) Remove(ctx context.Context, key string) error {
	return store.database.WithContext(ctx).
		Where("owner_id = ? AND slot_key = ?", store.ownerID, key).
		Delete(&models.KeyValueEntry{}).Error
}

func (store *OwnerKeyValues) MultiRemove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return store.database.WithContext(ctx).
		Where("owner_id = ? AND slot_key IN ?", store.ownerID, keys).
		Delete(&models.KeyValueEntry{}).Error
}

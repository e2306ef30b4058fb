package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/nestwell/internal/logging"
	"github.com/terraincognita07/nestwell/internal/models"
)

const (
	SetupCompletedKey = "@user_setup_completed"
	SetupDataKey      = "@user_setup_data"
	SetupTempDataKey  = "@user_setup_data_temp"

	setupCompletedValue = "true"
	tempMomSetupField   = "momSetup"
)

// SetupKeyValueStore is the durable local storage the setup slots live in.
// Values are JSON text.
type SetupKeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
	MultiRemove(ctx context.Context, keys []string) error
}

// TempSetupDocument is the raw temp slot. Fields this version does not know
// about are carried through merges untouched.
type TempSetupDocument map[string]json.RawMessage

// TempSetupMerge is a pure function from the current temp document to the next one.
type TempSetupMerge func(current TempSetupDocument) (TempSetupDocument, error)

type SetupStorageService struct {
	store  SetupKeyValueStore
	logger logrus.FieldLogger
}

func NewSetupStorageService(store SetupKeyValueStore, logger logrus.FieldLogger) *SetupStorageService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SetupStorageService{store: store, logger: logger}
}

func (service *SetupStorageService) IsSetupCompleted(ctx context.Context) bool {
	value, found, err := service.store.Get(ctx, SetupCompletedKey)
	if err != nil {
		service.log(ctx).WithError(err).WithField("key", SetupCompletedKey).Warn("Failed to read setup completion flag")
		return false
	}
	return found && value == setupCompletedValue
}

func (service *SetupStorageService) GetSetupData(ctx context.Context) *models.SetupRecord {
	raw, found, err := service.store.Get(ctx, SetupDataKey)
	if err != nil {
		service.log(ctx).WithError(err).WithField("key", SetupDataKey).Warn("Failed to read setup data")
		return nil
	}
	if !found {
		return nil
	}

	var record models.SetupRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		service.log(ctx).WithError(err).WithField("key", SetupDataKey).Warn("Discarding unreadable setup data")
		return nil
	}
	return &record
}

func (service *SetupStorageService) GetTempSetupData(ctx context.Context) *models.TempSetupRecord {
	raw, found, err := service.store.Get(ctx, SetupTempDataKey)
	if err != nil {
		service.log(ctx).WithError(err).WithField("key", SetupTempDataKey).Warn("Failed to read temp setup data")
		return nil
	}
	if !found {
		return nil
	}

	var record models.TempSetupRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		service.log(ctx).WithError(err).WithField("key", SetupTempDataKey).Warn("Discarding unreadable temp setup data")
		return nil
	}
	return &record
}

func (service *SetupStorageService) SaveMomSetup(ctx context.Context, record models.MomSetupRecord) error {
	return service.UpdateTempSetup(ctx, MergeMomSetup(record))
}

// UpdateTempSetup reads the temp slot, applies merge and writes the result back.
// There is no transaction around the read and the write; a concurrent writer
// between the two would be overwritten.
func (service *SetupStorageService) UpdateTempSetup(ctx context.Context, merge TempSetupMerge) error {
	current := service.readTempDocument(ctx)

	next, err := merge(current)
	if err != nil {
		return fmt.Errorf("merge temp setup data: %w", err)
	}

	encoded, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode temp setup data: %w", err)
	}
	if err := service.store.Set(ctx, SetupTempDataKey, string(encoded)); err != nil {
		return fmt.Errorf("write temp setup data: %w", err)
	}
	return nil
}

// CompleteSetup writes the record, then the completion flag, then drops the
// temp slot. Each step is a safe resting state, so a failure stops the
// sequence without rolling back earlier steps.
func (service *SetupStorageService) CompleteSetup(ctx context.Context, record models.SetupRecord) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode setup data: %w", err)
	}

	if err := service.store.Set(ctx, SetupDataKey, string(encoded)); err != nil {
		return fmt.Errorf("write setup data: %w", err)
	}
	if err := service.store.Set(ctx, SetupCompletedKey, setupCompletedValue); err != nil {
		return fmt.Errorf("write setup completion flag: %w", err)
	}
	if err := service.store.Remove(ctx, SetupTempDataKey); err != nil {
		return fmt.Errorf("remove temp setup data: %w", err)
	}
	return nil
}

func (service *SetupStorageService) ClearSetupData(ctx context.Context) error {
	if err := service.store.MultiRemove(ctx, []string{SetupCompletedKey, SetupDataKey, SetupTempDataKey}); err != nil {
		return fmt.Errorf("clear setup data: %w", err)
	}
	return nil
}

// ResetSetup forces onboarding to run again while keeping the last submitted
// record around for prefill.
func (service *SetupStorageService) ResetSetup(ctx context.Context) error {
	if err := service.store.Remove(ctx, SetupCompletedKey); err != nil {
		return fmt.Errorf("reset setup completion flag: %w", err)
	}
	return nil
}

func (service *SetupStorageService) readTempDocument(ctx context.Context) TempSetupDocument {
	raw, found, err := service.store.Get(ctx, SetupTempDataKey)
	if err != nil {
		service.log(ctx).WithError(err).WithField("key", SetupTempDataKey).Warn("Failed to read temp setup data, starting from empty")
		return TempSetupDocument{}
	}
	if !found {
		return TempSetupDocument{}
	}

	document := TempSetupDocument{}
	if err := json.Unmarshal([]byte(raw), &document); err != nil || document == nil {
		service.log(ctx).WithError(err).WithField("key", SetupTempDataKey).Warn("Temp setup data is not an object, starting from empty")
		return TempSetupDocument{}
	}
	return document
}

func (service *SetupStorageService) log(ctx context.Context) logrus.FieldLogger {
	return logging.FromContext(ctx, service.logger)
}

// MergeMomSetup replaces the mom setup part of the temp document and keeps every other field.
func MergeMomSetup(record models.MomSetupRecord) TempSetupMerge {
	return func(current TempSetupDocument) (TempSetupDocument, error) {
		encoded, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}

		next := make(TempSetupDocument, len(current)+1)
		for key, value := range current {
			next[key] = value
		}
		next[tempMomSetupField] = encoded
		return next, nil
	}
}

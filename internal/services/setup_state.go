package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/nestwell/internal/models"
	"golang.org/x/sync/errgroup"
)

var ErrMomSetupMissing = errors.New("mom setup data is missing")

type SetupStorage interface {
	IsSetupCompleted(ctx context.Context) bool
	GetSetupData(ctx context.Context) *models.SetupRecord
	GetTempSetupData(ctx context.Context) *models.TempSetupRecord
	SaveMomSetup(ctx context.Context, record models.MomSetupRecord) error
	CompleteSetup(ctx context.Context, record models.SetupRecord) error
	ClearSetupData(ctx context.Context) error
	ResetSetup(ctx context.Context) error
}

// SetupSnapshot is a consistent view of the onboarding state.
type SetupSnapshot struct {
	IsLoading        bool                   `json:"isLoading"`
	IsSetupCompleted bool                   `json:"isSetupCompleted"`
	MomSetupData     *models.MomSetupRecord `json:"momSetupData"`
	SetupData        *models.SetupRecord    `json:"setupData"`
}

// SetupState is the in-memory source of truth for one user's onboarding,
// backed by SetupStorage. Memory only changes after the matching storage
// write succeeded.
type SetupState struct {
	storage SetupStorage
	logger  logrus.FieldLogger
	now     func() time.Time

	hydrateMu sync.Mutex
	hydrated  bool

	mu           sync.RWMutex
	loading      bool
	completed    bool
	momSetupData *models.MomSetupRecord
	setupData    *models.SetupRecord
}

func NewSetupState(storage SetupStorage, logger logrus.FieldLogger) *SetupState {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SetupState{
		storage: storage,
		logger:  logger,
		now:     time.Now,
		loading: true,
	}
}

// EnsureHydrated loads the persisted state the first time it is called and
// is a no-op afterwards. Concurrent callers wait for the first load.
func (state *SetupState) EnsureHydrated(ctx context.Context) {
	state.hydrateMu.Lock()
	defer state.hydrateMu.Unlock()

	if state.hydrated {
		return
	}
	state.hydrate(ctx)
	state.hydrated = true
}

// RefreshSetupData re-reads the persisted state, e.g. after an external mutation.
func (state *SetupState) RefreshSetupData(ctx context.Context) {
	state.hydrateMu.Lock()
	defer state.hydrateMu.Unlock()

	state.hydrate(ctx)
	state.hydrated = true
}

func (state *SetupState) hydrate(ctx context.Context) {
	state.mu.Lock()
	state.loading = true
	state.mu.Unlock()

	var (
		completed bool
		setupData *models.SetupRecord
		tempData  *models.TempSetupRecord
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		completed = state.storage.IsSetupCompleted(groupCtx)
		return nil
	})
	group.Go(func() error {
		setupData = state.storage.GetSetupData(groupCtx)
		return nil
	})
	group.Go(func() error {
		tempData = state.storage.GetTempSetupData(groupCtx)
		return nil
	})
	// Storage reads degrade to defaults on failure and never return an error.
	_ = group.Wait()

	var momSetupData *models.MomSetupRecord
	if tempData != nil {
		momSetupData = tempData.MomSetup
	}

	state.mu.Lock()
	state.completed = completed
	state.setupData = setupData
	state.momSetupData = momSetupData
	state.loading = false
	state.mu.Unlock()

	state.logger.WithFields(logrus.Fields{
		"setup_completed": completed,
		"has_setup_data":  setupData != nil,
		"has_mom_setup":   momSetupData != nil,
	}).Debug("Setup state hydrated")
}

func (state *SetupState) Snapshot() SetupSnapshot {
	state.mu.RLock()
	defer state.mu.RUnlock()

	if state.loading {
		return SetupSnapshot{IsLoading: true}
	}
	return SetupSnapshot{
		IsSetupCompleted: state.completed,
		MomSetupData:     cloneMomSetupRecord(state.momSetupData),
		SetupData:        cloneSetupRecord(state.setupData),
	}
}

func (state *SetupState) SaveMomSetup(ctx context.Context, record models.MomSetupRecord) error {
	if err := state.storage.SaveMomSetup(ctx, record); err != nil {
		return err
	}

	state.mu.Lock()
	state.momSetupData = cloneMomSetupRecord(&record)
	state.mu.Unlock()
	return nil
}

// CompleteSetup assembles the final record from the cached mom setup and the
// given children and commits it. Calling it without mom setup data means the
// flow was entered out of order.
func (state *SetupState) CompleteSetup(ctx context.Context, children []models.ChildRecord, userID string) (models.SetupRecord, error) {
	state.mu.RLock()
	momSetup := cloneMomSetupRecord(state.momSetupData)
	state.mu.RUnlock()

	if momSetup == nil {
		return models.SetupRecord{}, ErrMomSetupMissing
	}

	record := models.SetupRecord{
		UserID:      userID,
		MomSetup:    *momSetup,
		Children:    append(make([]models.ChildRecord, 0, len(children)), children...),
		CompletedAt: state.now().UTC(),
		Version:     models.SetupSchemaVersion,
	}
	if err := state.storage.CompleteSetup(ctx, record); err != nil {
		return models.SetupRecord{}, err
	}

	state.mu.Lock()
	state.completed = true
	state.setupData = cloneSetupRecord(&record)
	state.momSetupData = nil
	state.mu.Unlock()
	return record, nil
}

func (state *SetupState) ClearSetup(ctx context.Context) error {
	if err := state.storage.ClearSetupData(ctx); err != nil {
		return err
	}

	state.mu.Lock()
	state.completed = false
	state.setupData = nil
	state.momSetupData = nil
	state.mu.Unlock()
	return nil
}

func (state *SetupState) ResetSetup(ctx context.Context) error {
	if err := state.storage.ResetSetup(ctx); err != nil {
		return err
	}

	state.mu.Lock()
	state.completed = false
	state.mu.Unlock()
	return nil
}

func cloneMomSetupRecord(record *models.MomSetupRecord) *models.MomSetupRecord {
	if record == nil {
		return nil
	}
	clone := *record
	clone.SelectedGoals = cloneSlice(record.SelectedGoals)
	clone.CustomGoals = cloneSlice(record.CustomGoals)
	if record.Partner != nil {
		partner := *record.Partner
		clone.Partner = &partner
	}
	return &clone
}

func cloneSetupRecord(record *models.SetupRecord) *models.SetupRecord {
	if record == nil {
		return nil
	}
	clone := *record
	clone.MomSetup = *cloneMomSetupRecord(&record.MomSetup)
	clone.Children = cloneSlice(record.Children)
	return &clone
}

func cloneSlice[T any](values []T) []T {
	if values == nil {
		return nil
	}
	return append(make([]T, 0, len(values)), values...)
}

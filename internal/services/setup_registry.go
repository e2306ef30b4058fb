package services

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// SetupStoreFactory returns the key-value namespace owned by a user.
type SetupStoreFactory func(userID uint) SetupKeyValueStore

// SetupStateRegistry owns one SetupState per signed-in user. A state is
// created on first use after sign-in and dropped at logout.
type SetupStateRegistry struct {
	stores SetupStoreFactory
	logger logrus.FieldLogger

	mu     sync.Mutex
	states map[uint]*SetupState
}

func NewSetupStateRegistry(stores SetupStoreFactory, logger logrus.FieldLogger) *SetupStateRegistry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SetupStateRegistry{
		stores: stores,
		logger: logger,
		states: map[uint]*SetupState{},
	}
}

func (registry *SetupStateRegistry) ForUser(userID uint) *SetupState {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if state, ok := registry.states[userID]; ok {
		return state
	}

	logger := registry.logger.WithField("user_id", userID)
	storage := NewSetupStorageService(registry.stores(userID), logger)
	state := NewSetupState(storage, logger)
	registry.states[userID] = state
	return state
}

func (registry *SetupStateRegistry) Release(userID uint) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	delete(registry.states, userID)
}

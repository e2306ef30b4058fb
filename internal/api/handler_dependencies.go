package api

import (
	"github.com/terraincognita07/nestwell/internal/db"
	"github.com/terraincognita07/nestwell/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.setupStates = services.NewSetupStateRegistry(handler.setupStoreFor, handler.logger)
	handler.loginLimiter = newLoginAttemptLimiter(loginAttemptLimit, loginAttemptWindow)
	return handler
}

func (handler *Handler) setupStoreFor(userID uint) services.SetupKeyValueStore {
	return handler.repositories.KeyValues.ForOwner(userID)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/nestwell/internal/db"
	"github.com/terraincognita07/nestwell/internal/models"
	"github.com/terraincognita07/nestwell/internal/services"
	"gorm.io/gorm"
)

// RunResetOnboardingCommand makes the user go through onboarding again on
// next launch. The last submitted setup record is kept for prefill.
func RunResetOnboardingCommand(ctx context.Context, dbPath string, email string, out io.Writer, logger *logrus.Logger) error {
	storage, user, err := openUserSetupStorage(dbPath, email, logger)
	if err != nil {
		return err
	}
	if err := storage.ResetSetup(ctx); err != nil {
		return err
	}

	fmt.Fprintf(out, "Onboarding reset for %s\n", user.Email)
	fmt.Fprintln(out, "The previous answers stay available to prefill the forms.")
	return nil
}

// RunClearOnboardingCommand removes every onboarding slot of the user.
func RunClearOnboardingCommand(ctx context.Context, dbPath string, email string, out io.Writer, logger *logrus.Logger) error {
	storage, user, err := openUserSetupStorage(dbPath, email, logger)
	if err != nil {
		return err
	}
	if err := storage.ClearSetupData(ctx); err != nil {
		return err
	}

	fmt.Fprintf(out, "Onboarding data cleared for %s\n", user.Email)
	return nil
}

func openUserSetupStorage(dbPath string, email string, logger *logrus.Logger) (*services.SetupStorageService, models.User, error) {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return nil, models.User{}, fmt.Errorf("invalid email address %q", email)
	}

	database, err := db.OpenSQLite(dbPath, logger)
	if err != nil {
		return nil, models.User{}, fmt.Errorf("database init failed: %w", err)
	}

	repositories := db.NewRepositories(database)
	user, err := repositories.Users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.User{}, fmt.Errorf("user %s not found", normalizedEmail)
		}
		return nil, models.User{}, fmt.Errorf("load user: %w", err)
	}

	entry := logger.WithFields(logrus.Fields{"component": "cli", "user_id": user.ID})
	return services.NewSetupStorageService(repositories.KeyValues.ForOwner(user.ID), entry), user, nil
}

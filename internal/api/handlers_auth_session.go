package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nestwell/internal/models"
	"github.com/terraincognita07/nestwell/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondError(c, fiber.StatusBadRequest, "auth.error.invalid_input", nil)
	}
	email, password, err := services.NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return handler.respondError(c, fiber.StatusBadRequest, "auth.error.email_invalid", nil)
	}
	if strings.TrimSpace(input.ConfirmPassword) != password {
		return handler.respondError(c, fiber.StatusBadRequest, "auth.error.invalid_input", fiber.Map{
			"fields": fiber.Map{"confirm_password": handler.translate(c, "auth.error.invalid_input")},
		})
	}

	user, err := handler.authService.Register(email, password, input.DisplayName)
	switch {
	case errors.Is(err, services.ErrWeakPassword):
		return handler.respondError(c, fiber.StatusBadRequest, "auth.error.weak_password", nil)
	case errors.Is(err, services.ErrEmailAlreadyRegistered):
		return handler.respondError(c, fiber.StatusConflict, "auth.error.email_exists", nil)
	case err != nil:
		handler.requestLogger(c).WithError(err).Error("Failed to register user")
		return handler.respondError(c, fiber.StatusInternalServerError, "common.error.internal", nil)
	}

	if err := handler.setAuthCookie(c, &user, input.RememberMe); err != nil {
		handler.requestLogger(c).WithError(err).Error("Failed to create session")
		return handler.respondError(c, fiber.StatusInternalServerError, "common.error.internal", nil)
	}

	handler.requestLogger(c).WithField("user_id", user.ID).Info("User registered")
	return redirectJSON(c, fiber.StatusCreated, services.RouteMomSetup, fiber.Map{"user": newUserView(user)})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondError(c, fiber.StatusBadRequest, "auth.error.invalid_input", nil)
	}
	email, password, err := services.NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return handler.respondError(c, fiber.StatusBadRequest, "auth.error.invalid_input", nil)
	}

	limiterKey := loginLimiterKey(c, email)
	if handler.loginLimiter.blocked(limiterKey, time.Now()) {
		handler.requestLogger(c).Warn("Sign-in throttled")
		return handler.respondError(c, fiber.StatusTooManyRequests, "auth.error.too_many_attempts", nil)
	}

	user, err := handler.authService.Authenticate(email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.loginLimiter.fail(limiterKey, time.Now())
			return handler.respondError(c, fiber.StatusUnauthorized, "auth.error.invalid_credentials", nil)
		}
		handler.requestLogger(c).WithError(err).Error("Failed to authenticate user")
		return handler.respondError(c, fiber.StatusInternalServerError, "common.error.internal", nil)
	}

	handler.loginLimiter.succeed(limiterKey)

	if err := handler.setAuthCookie(c, &user, input.RememberMe); err != nil {
		handler.requestLogger(c).WithError(err).Error("Failed to create session")
		return handler.respondError(c, fiber.StatusInternalServerError, "common.error.internal", nil)
	}

	snapshot := handler.setupStateFor(c, user.ID).Snapshot()
	return redirectJSON(c, fiber.StatusOK, postLoginRedirectPath(snapshot), fiber.Map{"user": newUserView(user)})
}

// Logout wipes this device's onboarding slots and drops the cached state. The
// session ends even when the wipe fails.
func (handler *Handler) Logout(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if ok {
		log := handler.requestLogger(c).WithField("user_id", user.ID)
		if err := handler.setupStates.ForUser(user.ID).ClearSetup(c.UserContext()); err != nil {
			handler.metrics.ObserveStorageError("clear")
			log.WithError(err).Warn("Failed to clear setup data at logout")
		}
		handler.setupStates.Release(user.ID)
		log.Info("User logged out")
	}

	handler.clearAuthCookie(c)
	return redirectJSON(c, fiber.StatusOK, services.RouteSignIn, nil)
}

func postLoginRedirectPath(snapshot services.SetupSnapshot) string {
	switch {
	case snapshot.IsSetupCompleted:
		return services.RouteHome
	case snapshot.MomSetupData != nil:
		return services.RouteChildSetup
	default:
		return services.RouteMomSetup
	}
}

func newUserView(user models.User) userView {
	return userView{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName}
}

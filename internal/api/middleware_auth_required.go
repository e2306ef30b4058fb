package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nestwell/internal/services"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		if err != errSessionMissing {
			handler.requestLogger(c).WithError(err).Debug("Rejected session cookie")
		}
		return handler.respondError(c, fiber.StatusUnauthorized, "auth.error.unauthorized", fiber.Map{
			"redirect": services.RouteSignIn,
		})
	}

	c.Locals(contextUserKey, user)
	return c.Next()
}

// OptionalUser resolves the session when there is one and never rejects the request.
func (handler *Handler) OptionalUser(c *fiber.Ctx) error {
	if user, err := handler.authenticateRequest(c); err == nil {
		c.Locals(contextUserKey, user)
	}
	return c.Next()
}

// SetupRequired keeps users who have not finished onboarding away from the
// rest of the app. It must run after AuthRequired.
func (handler *Handler) SetupRequired(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, fiber.StatusUnauthorized, "auth.error.unauthorized", fiber.Map{
			"redirect": services.RouteSignIn,
		})
	}

	if !handler.setupStateFor(c, user.ID).Snapshot().IsSetupCompleted {
		return handler.respondError(c, fiber.StatusForbidden, "setup.error.required", fiber.Map{
			"redirect": services.RouteMomSetup,
		})
	}
	return c.Next()
}

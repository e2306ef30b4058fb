package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nestwell/internal/services"
)

// respondError sends {"error": <localized message>} merged with extra.
func (handler *Handler) respondError(c *fiber.Ctx, status int, messageKey string, extra fiber.Map) error {
	payload := fiber.Map{"error": handler.translate(c, messageKey)}
	for key, value := range extra {
		payload[key] = value
	}
	return c.Status(status).JSON(payload)
}

func (handler *Handler) translate(c *fiber.Ctx, key string) string {
	return handler.i18n.Translate(currentLanguage(c), key)
}

func redirectJSON(c *fiber.Ctx, status int, path string, extra fiber.Map) error {
	payload := fiber.Map{"ok": true, "redirect": path}
	for key, value := range extra {
		payload[key] = value
	}
	return c.Status(status).JSON(payload)
}

func (handler *Handler) setupStateFor(c *fiber.Ctx, userID uint) *services.SetupState {
	state := handler.setupStates.ForUser(userID)
	state.EnsureHydrated(c.UserContext())
	return state
}

func formatUserID(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

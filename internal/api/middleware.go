package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nestwell/internal/models"
)

const (
	authCookieName     = "nestwell_auth"
	languageCookieName = "nestwell_lang"
	contextUserKey     = "current_user"
	contextLanguageKey = "current_language"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}

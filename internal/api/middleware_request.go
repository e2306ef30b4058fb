package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/nestwell/internal/logging"
)

// RequestLogger attaches a request scoped logger to the user context and logs
// the request once the rest of the chain has run. It expects the requestid
// middleware to run first.
func (handler *Handler) RequestLogger(c *fiber.Ctx) error {
	started := time.Now()
	entry := handler.logger.WithFields(logrus.Fields{
		"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
		"method":     c.Method(),
		"path":       c.Path(),
	})
	c.SetUserContext(logging.WithLogger(c.UserContext(), entry))

	err := c.Next()

	status := c.Response().StatusCode()
	if fiberErr, ok := err.(*fiber.Error); ok {
		status = fiberErr.Code
	}
	fields := logrus.Fields{
		"status":     status,
		"latency_ms": time.Since(started).Milliseconds(),
	}
	if user, ok := currentUser(c); ok {
		fields["user_id"] = user.ID
	}

	switch {
	case err != nil || status >= fiber.StatusInternalServerError:
		entry.WithFields(fields).WithError(err).Error("Request failed")
	case status >= fiber.StatusBadRequest:
		entry.WithFields(fields).Warn("Request rejected")
	default:
		entry.WithFields(fields).Info("Request handled")
	}
	return err
}

func (handler *Handler) requestLogger(c *fiber.Ctx) logrus.FieldLogger {
	return logging.FromContext(c.UserContext(), handler.logger)
}

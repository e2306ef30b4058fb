package api

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/nestwell/internal/metrics"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, options HandlerOptions) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if options.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if options.SetupAPI == nil {
		return nil, errors.New("profile setup client is required")
	}
	if len(options.SecretKey) == 0 {
		return nil, errors.New("secret key is required")
	}

	logger := options.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	collectors := options.Metrics
	if collectors == nil {
		collectors = metrics.New()
	}

	handler := &Handler{
		secretKey:    []byte(options.SecretKey),
		cookieSecure: options.CookieSecure,
		i18n:         options.I18n,
		logger:       logger,
		metrics:      collectors,
		setupAPI:     options.SetupAPI,
	}
	return handler.withDependencies(database), nil
}

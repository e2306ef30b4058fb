package api

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/nestwell/internal/db"
	"github.com/terraincognita07/nestwell/internal/i18n"
	"github.com/terraincognita07/nestwell/internal/metrics"
	"github.com/terraincognita07/nestwell/internal/services"
)

type Handler struct {
	secretKey    []byte
	cookieSecure bool
	i18n         *i18n.Manager
	logger       logrus.FieldLogger
	metrics      *metrics.Metrics

	repositories *db.Repositories
	authService  *services.AuthService
	setupStates  *services.SetupStateRegistry
	setupAPI     services.SetupFlowAPI
	loginLimiter *loginAttemptLimiter
}

type HandlerOptions struct {
	SecretKey    string
	CookieSecure bool
	I18n         *i18n.Manager
	Logger       logrus.FieldLogger
	Metrics      *metrics.Metrics
	SetupAPI     services.SetupFlowAPI
}

type credentialsInput struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	DisplayName     string `json:"display_name" form:"display_name"`
	RememberMe      bool   `json:"remember_me" form:"remember_me"`
}

type childSetupInput struct {
	Children []childDraftInput `json:"children"`
}

type childDraftInput struct {
	FullName string `json:"fullName"`
	Age      string `json:"age"`
	DOB      string `json:"dob"`
	Gender   string `json:"gender"`
}

type userView struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
)

package api

import (
	"html/template"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/saludboard/internal/db"
	"github.com/terraincognita07/saludboard/internal/i18n"
	"github.com/terraincognita07/saludboard/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	i18n         *i18n.Manager
	templates    map[string]*template.Template
	logger       zerolog.Logger

	locker            services.Locker
	publisher         services.EventPublisher
	completionLockTTL time.Duration

	repositories        *db.Repositories
	authService         *services.AuthService
	organizationService *services.OrganizationService
	onboardingSvc       *services.OnboardingService
}

type FlashPayload struct {
	AuthError       string `json:"auth_error,omitempty"`
	OnboardingError string `json:"onboarding_error,omitempty"`
	LoginEmail      string `json:"login_email,omitempty"`
	RegisterEmail   string `json:"register_email,omitempty"`
}

type credentialsInput struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	RememberMe      bool   `json:"remember_me" form:"remember_me"`
}

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
)

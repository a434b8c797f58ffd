package api

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/saludboard/internal/i18n"
	"github.com/terraincognita07/saludboard/internal/services"
	"gorm.io/gorm"
)

var templatePages = []string{
	"login",
	"register",
	"onboarding",
	"dashboard",
	"patient",
}

type HandlerOption func(*Handler)

func WithLogger(logger zerolog.Logger) HandlerOption {
	return func(handler *Handler) {
		handler.logger = logger
	}
}

// WithLocker replaces the in-process completion lock, typically with a
// Redis-backed one shared by every replica.
func WithLocker(locker services.Locker) HandlerOption {
	return func(handler *Handler) {
		if locker != nil {
			handler.locker = locker
		}
	}
}

func WithEventPublisher(publisher services.EventPublisher) HandlerOption {
	return func(handler *Handler) {
		if publisher != nil {
			handler.publisher = publisher
		}
	}
}

func WithCompletionLockTTL(ttl time.Duration) HandlerOption {
	return func(handler *Handler) {
		handler.completionLockTTL = ttl
	}
}

func NewHandler(database *gorm.DB, secret string, templateFS fs.FS, location *time.Location, i18nManager *i18n.Manager, cookieSecure bool, options ...HandlerOption) (*Handler, error) {
	if location == nil {
		location = time.Local
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if templateFS == nil {
		return nil, errors.New("templates are required")
	}

	funcMap := newTemplateFuncMap()
	templates := make(map[string]*template.Template, len(templatePages))
	for _, page := range templatePages {
		parsed, err := template.New("base").Funcs(funcMap).ParseFS(templateFS, "base.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = parsed
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(secret),
		location:     location,
		cookieSecure: cookieSecure,
		i18n:         i18nManager,
		templates:    templates,
		logger:       zerolog.Nop(),
	}
	for _, option := range options {
		option(handler)
	}
	if handler.locker == nil {
		handler.locker = services.NewMemoryLocker()
	}
	if handler.publisher == nil {
		handler.publisher = services.NewLogPublisher(handler.logger)
	}
	return handler.withDependencies(database), nil
}

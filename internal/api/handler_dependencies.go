package api

import (
	"github.com/terraincognita07/saludboard/internal/db"
	"github.com/terraincognita07/saludboard/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.organizationService = services.NewOrganizationService(handler.repositories.Organizations)
	handler.onboardingSvc = handler.newOnboardingService()
	return handler
}

func (handler *Handler) ensureDependencies() {
	if handler.repositories == nil {
		if handler.db == nil {
			return
		}
		handler.repositories = db.NewRepositories(handler.db)
	}

	if handler.authService == nil {
		handler.authService = services.NewAuthService(handler.repositories.Users)
	}
	if handler.organizationService == nil {
		handler.organizationService = services.NewOrganizationService(handler.repositories.Organizations)
	}
	if handler.onboardingSvc == nil {
		handler.onboardingSvc = handler.newOnboardingService()
	}
}

func (handler *Handler) newOnboardingService() *services.OnboardingService {
	return services.NewOnboardingService(
		handler.repositories.Onboarding,
		handler.repositories.Organizations,
		handler.locker,
		handler.publisher,
		handler.logger,
		services.WithCompletionLockTTL(handler.completionLockTTL),
	)
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/saludboard/internal/onboarding"
	"github.com/terraincognita07/saludboard/internal/services"
)

func (handler *Handler) ShowOnboarding(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	if !requiresOnboarding(user) {
		return redirectOrJSON(c, services.PortalPath(*user))
	}

	controller, err := handler.mountCurrentStep(c, user.ID)
	if err != nil {
		return handler.respondOnboardingError(c, err)
	}
	snapshot := handler.buildOnboardingSnapshot(c, user, controller)
	if acceptsJSON(c) {
		return c.JSON(snapshot)
	}

	flash := handler.popFlashCookie(c)
	return handler.render(c, "onboarding", buildOnboardingViewData(snapshot, currentMessages(c), flash.OnboardingError))
}

func (handler *Handler) GetOnboardingState(c *fiber.Ctx) error {
	user, handled, err := onboardingUser(c)
	if handled {
		return err
	}

	controller, err := handler.mountCurrentStep(c, user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load onboarding")
	}
	return c.JSON(handler.buildOnboardingSnapshot(c, user, controller))
}

func (handler *Handler) ListHealthFields(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"health_fields": onboarding.HealthFields()})
}

// mountCurrentStep starts or resumes the wizard and lets the mounted step
// publish its footer intent.
func (handler *Handler) mountCurrentStep(c *fiber.Ctx, userID uint) (*onboarding.Controller, error) {
	messages := currentMessages(c)
	return handler.onboardingSvc.Update(c.UserContext(), userID, func(controller *onboarding.Controller) error {
		mountStepFooter(controller, messages)
		return nil
	})
}

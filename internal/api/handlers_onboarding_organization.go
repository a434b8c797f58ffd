package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/saludboard/internal/onboarding"
)

// OnboardingCreateOrganization creates the caller's organization from the
// professional-type step. The new admin membership opens the gate.
func (handler *Handler) OnboardingCreateOrganization(c *fiber.Ctx) error {
	user, handled, err := onboardingUser(c)
	if handled {
		return err
	}

	input := organizationInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondOnboardingError(c, errOnboardingInvalidInput)
	}

	controller, err := handler.onboardingSvc.Load(user.ID)
	if err != nil {
		return handler.respondOnboardingError(c, err)
	}
	if controller.CurrentStep() != onboarding.StepProfessionalType || !controller.State().Track().IsOrganization() {
		return handler.respondOnboardingError(c, errOnboardingInvalidInput)
	}
	if handler.onboardingSvc.Facts(user.ID).HasOrganizationMembership() {
		return handler.respondOnboardingError(c, errOrganizationExists)
	}

	organization, err := handler.organizationService.Create(user.ID, input.Name)
	if err != nil {
		return handler.respondOnboardingError(c, err)
	}
	handler.logger.Info().
		Uint("user_id", user.ID).
		Str("organization", organization.PublicID).
		Str("slug", organization.Slug).
		Msg("organization created")

	if acceptsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(handler.buildOnboardingSnapshot(c, user, controller))
	}
	return handler.respondOnboardingUpdated(c, user, controller)
}

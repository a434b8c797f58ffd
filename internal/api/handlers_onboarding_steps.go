package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/saludboard/internal/onboarding"
)

func (handler *Handler) OnboardingPrev(c *fiber.Ctx) error {
	return handler.updateOnboarding(c, func(controller *onboarding.Controller) error {
		controller.Prev()
		return nil
	})
}

func (handler *Handler) OnboardingReset(c *fiber.Ctx) error {
	return handler.updateOnboarding(c, func(controller *onboarding.Controller) error {
		controller.Reset()
		return nil
	})
}

func (handler *Handler) OnboardingUserType(c *fiber.Ctx) error {
	input := userTypeInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondOnboardingError(c, errOnboardingInvalidInput)
	}
	userType, ok := onboarding.ParseUserType(input.UserType)
	if !ok {
		return handler.respondOnboardingError(c, errOnboardingInvalidInput)
	}

	return handler.updateOnboarding(c, func(controller *onboarding.Controller) error {
		controller.SetUserType(userType)
		return nil
	})
}

func (handler *Handler) OnboardingProfessionalType(c *fiber.Ctx) error {
	input := professionalTypeInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondOnboardingError(c, errOnboardingInvalidInput)
	}
	professionalType, ok := onboarding.ParseProfessionalType(input.ProfessionalType)
	if !ok {
		return handler.respondOnboardingError(c, errOnboardingInvalidInput)
	}

	return handler.updateOnboarding(c, func(controller *onboarding.Controller) error {
		controller.SetProfessionalType(professionalType)
		return nil
	})
}

func (handler *Handler) OnboardingToggleHealthField(c *fiber.Ctx) error {
	id, err := parseHealthFieldInput(c)
	if err != nil {
		return handler.respondOnboardingError(c, err)
	}
	return handler.updateOnboarding(c, func(controller *onboarding.Controller) error {
		// Only organizations pick several fields.
		if !controller.State().Track().IsOrganization() {
			return errOnboardingInvalidInput
		}
		controller.ToggleHealthField(id)
		return nil
	})
}

func (handler *Handler) OnboardingSetHealthField(c *fiber.Ctx) error {
	id, err := parseHealthFieldInput(c)
	if err != nil {
		return handler.respondOnboardingError(c, err)
	}
	return handler.updateOnboarding(c, func(controller *onboarding.Controller) error {
		if controller.State().Track().IsOrganization() {
			return errOnboardingInvalidInput
		}
		controller.SetHealthField(id)
		return nil
	})
}

func (handler *Handler) OnboardingProfile(c *fiber.Ctx) error {
	input := profileInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondOnboardingError(c, errOnboardingInvalidInput)
	}

	updates := map[onboarding.ProfileField]*string{
		onboarding.ProfileFullName:       input.FullName,
		onboarding.ProfileEmail:          input.Email,
		onboarding.ProfileDocumentNumber: input.DocumentNumber,
		onboarding.ProfilePhone:          input.Phone,
		onboarding.ProfileLicenseNumber:  input.LicenseNumber,
	}
	return handler.updateOnboarding(c, func(controller *onboarding.Controller) error {
		for _, field := range onboarding.ProfileFields() {
			if value := updates[field]; value != nil {
				controller.UpdateProfileField(field, *value)
			}
		}
		return nil
	})
}

func (handler *Handler) OnboardingPlan(c *fiber.Ctx) error {
	input := planInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondOnboardingError(c, errOnboardingInvalidInput)
	}
	return handler.updateOnboarding(c, func(controller *onboarding.Controller) error {
		controller.SetPlanSelected(input.PlanSelected)
		return nil
	})
}

func parseHealthFieldInput(c *fiber.Ctx) (onboarding.HealthFieldID, error) {
	input := healthFieldInput{}
	if err := c.BodyParser(&input); err != nil {
		return "", errOnboardingInvalidInput
	}
	id, ok := onboarding.ParseHealthFieldID(input.HealthField)
	if !ok {
		return "", errOnboardingInvalidInput
	}
	return id, nil
}

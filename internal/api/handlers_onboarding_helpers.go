package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/saludboard/internal/models"
	"github.com/terraincognita07/saludboard/internal/onboarding"
	"github.com/terraincognita07/saludboard/internal/services"
)

var (
	errOnboardingInvalidInput   = errors.New("invalid onboarding input")
	errOnboardingStepIncomplete = errors.New("step incomplete")
	errOrganizationExists       = errors.New("organization already created")
)

// onboardingUser resolves the signed-in user for an onboarding endpoint.
// Users who already finished are sent to their portal.
func onboardingUser(c *fiber.Ctx) (*models.User, bool, error) {
	user, ok := currentUser(c)
	if !ok {
		return nil, true, apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !requiresOnboarding(user) {
		return nil, true, redirectOrJSON(c, services.PortalPath(*user))
	}
	return user, false, nil
}

// updateOnboarding runs mutate against the stored wizard, mounts the
// resulting step and answers in the format the caller asked for.
func (handler *Handler) updateOnboarding(c *fiber.Ctx, mutate func(*onboarding.Controller) error) error {
	user, handled, err := onboardingUser(c)
	if handled {
		return err
	}

	messages := currentMessages(c)
	controller, err := handler.onboardingSvc.Update(c.UserContext(), user.ID, func(controller *onboarding.Controller) error {
		if err := mutate(controller); err != nil {
			return err
		}
		mountStepFooter(controller, messages)
		return nil
	})
	if err != nil {
		return handler.respondOnboardingError(c, err)
	}
	return handler.respondOnboardingUpdated(c, user, controller)
}

func (handler *Handler) respondOnboardingUpdated(c *fiber.Ctx, user *models.User, controller *onboarding.Controller) error {
	if acceptsJSON(c) {
		return c.JSON(handler.buildOnboardingSnapshot(c, user, controller))
	}
	if isHTMX(c) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Redirect("/onboarding", fiber.StatusSeeOther)
}

func onboardingErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errOnboardingInvalidInput):
		return fiber.StatusBadRequest, errOnboardingInvalidInput.Error()
	case errors.Is(err, errOnboardingStepIncomplete):
		return fiber.StatusConflict, errOnboardingStepIncomplete.Error()
	case errors.Is(err, errOrganizationExists):
		return fiber.StatusConflict, errOrganizationExists.Error()
	case errors.Is(err, services.ErrOrganizationNameInvalid):
		return fiber.StatusBadRequest, "invalid organization name"
	case errors.Is(err, services.ErrOrganizationSlugInvalid):
		return fiber.StatusBadRequest, "invalid organization slug"
	case errors.Is(err, services.ErrOrganizationSlugUnavailable):
		return fiber.StatusConflict, "organization slug unavailable"
	case errors.Is(err, services.ErrOnboardingAlreadyCompleted):
		return fiber.StatusConflict, "onboarding already completed"
	case errors.Is(err, services.ErrOnboardingInProgress):
		return fiber.StatusConflict, "onboarding submission in progress"
	case errors.Is(err, services.ErrOnboardingIncomplete),
		errors.Is(err, onboarding.ErrCompletionUnavailable),
		errors.Is(err, onboarding.ErrUnknownCompletion):
		return fiber.StatusConflict, "onboarding incomplete"
	case errors.Is(err, services.ErrOnboardingOrganizationNeeded):
		return fiber.StatusConflict, "organization membership required"
	case errors.Is(err, services.ErrPatientPortalUnavailable):
		return fiber.StatusConflict, "patient portal not available"
	default:
		return fiber.StatusInternalServerError, "failed to save onboarding step"
	}
}

func (handler *Handler) respondOnboardingError(c *fiber.Ctx, err error) error {
	status, message := onboardingErrorStatus(err)
	if status >= fiber.StatusInternalServerError {
		event := handler.logger.Error().Err(err).Str("path", c.Path())
		if user, ok := currentUser(c); ok {
			event = event.Uint("user_id", user.ID)
		}
		event.Msg("onboarding request failed")
	}

	if !acceptsJSON(c) && !isHTMX(c) && status < fiber.StatusInternalServerError {
		handler.setFlashCookie(c, FlashPayload{OnboardingError: message})
		return c.Redirect("/onboarding", fiber.StatusSeeOther)
	}
	return apiError(c, status, message)
}

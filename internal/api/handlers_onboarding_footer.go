package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/saludboard/internal/onboarding"
)

// OnboardingNext is the footer primary action. What it does depends on the
// footer resolved for the stored state: finalize a patient, run the
// registered completion on the last step, or advance when the gate is open.
func (handler *Handler) OnboardingNext(c *fiber.Ctx) error {
	user, handled, err := onboardingUser(c)
	if handled {
		return err
	}

	controller, err := handler.onboardingSvc.Load(user.ID)
	if err != nil {
		return handler.respondOnboardingError(c, err)
	}
	facts := handler.onboardingSvc.Facts(user.ID)
	footer := controller.ResolveFooter(facts, footerLabels(currentMessages(c)))

	switch footer.Action {
	case onboarding.FooterActionPatientPortal:
		if _, err := handler.onboardingSvc.EnterPatientPortal(c.UserContext(), user.ID); err != nil {
			return handler.respondOnboardingError(c, err)
		}
		return redirectOrJSON(c, "/patient")

	case onboarding.FooterActionComplete:
		if !footer.CanAdvance {
			return handler.respondOnboardingError(c, errOnboardingStepIncomplete)
		}
		if _, incomplete := controller.FirstIncompleteStep(facts); incomplete {
			return handler.respondOnboardingError(c, errOnboardingStepIncomplete)
		}
		if err := handler.onboardingSvc.Complete(c.UserContext(), user.ID); err != nil {
			return handler.respondOnboardingError(c, err)
		}
		return redirectOrJSON(c, "/dashboard")
	}

	return handler.updateOnboarding(c, func(controller *onboarding.Controller) error {
		if !controller.CanAdvance(facts) {
			return errOnboardingStepIncomplete
		}
		controller.Next()
		return nil
	})
}

package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/saludboard/internal/models"
	"github.com/terraincognita07/saludboard/internal/onboarding"
	"github.com/terraincognita07/saludboard/internal/services"
)

const (
	fallbackWelcomeLabel      = "Empezar"
	fallbackConfirmationLabel = "Ir al dashboard"
)

type organizationView struct {
	PublicID  string `json:"public_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedOn string `json:"created_on"`
}

type onboardingSnapshot struct {
	OK            bool                  `json:"ok"`
	Step          onboarding.Step       `json:"step"`
	Steps         []onboarding.Step     `json:"steps"`
	State         onboarding.State      `json:"state"`
	Facts         onboarding.Facts      `json:"facts"`
	CanAdvance    bool                  `json:"can_advance"`
	Footer        onboarding.FooterView `json:"footer"`
	Organizations []organizationView    `json:"organizations"`
}

type choiceView struct {
	Value    string
	LabelKey string
	Selected bool
}

type healthFieldView struct {
	ID          string
	Name        string
	Description string
	Selected    bool
}

type profileFieldView struct {
	Key      string
	LabelKey string
	Value    string
}

// mountStepFooter publishes the footer intent of the step that is now
// mounted. Re-mounting the same step refreshes the label in the current
// language.
func mountStepFooter(controller *onboarding.Controller, messages map[string]string) {
	switch controller.CurrentStep() {
	case onboarding.StepWelcome:
		controller.SetFooterOverride(onboarding.FooterOverride{
			NextLabel: messageOr(messages, "onboarding.welcome.cta", fallbackWelcomeLabel),
		})
	case onboarding.StepConfirmation:
		controller.SetFooterOverride(onboarding.FooterOverride{
			NextLabel:  messageOr(messages, "onboarding.confirmation.cta", fallbackConfirmationLabel),
			OnComplete: services.CompletionSubmitProfessional,
		})
	}
}

func footerLabels(messages map[string]string) onboarding.FooterLabels {
	defaults := onboarding.DefaultFooterLabels()
	return onboarding.FooterLabels{
		Next:          messageOr(messages, "footer.next", defaults.Next),
		Finish:        messageOr(messages, "footer.finish", defaults.Finish),
		PatientPortal: messageOr(messages, "footer.patient_portal", defaults.PatientPortal),
	}
}

func messageOr(messages map[string]string, key string, fallback string) string {
	value := translateMessage(messages, key)
	if value == key || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// stepView names the block the onboarding page renders. Anything the page
// does not know renders the welcome step.
func stepView(step onboarding.Step) string {
	switch step {
	case onboarding.StepUserType,
		onboarding.StepProfessionalType,
		onboarding.StepHealthField,
		onboarding.StepProfile,
		onboarding.StepConfirmation:
		return string(step)
	default:
		return string(onboarding.StepWelcome)
	}
}

func (handler *Handler) buildOnboardingSnapshot(c *fiber.Ctx, user *models.User, controller *onboarding.Controller) onboardingSnapshot {
	facts := handler.onboardingSvc.Facts(user.ID)
	return onboardingSnapshot{
		OK:            true,
		Step:          controller.CurrentStep(),
		Steps:         controller.Steps(),
		State:         controller.State(),
		Facts:         facts,
		CanAdvance:    controller.CanAdvance(facts),
		Footer:        controller.ResolveFooter(facts, footerLabels(currentMessages(c))),
		Organizations: handler.memberOrganizations(user.ID),
	}
}

func (handler *Handler) memberOrganizations(userID uint) []organizationView {
	organizations, err := handler.organizationService.ListForMember(userID)
	if err != nil {
		handler.logger.Warn().Err(err).Uint("user_id", userID).Msg("list organizations")
		return []organizationView{}
	}
	views := make([]organizationView, 0, len(organizations))
	for _, organization := range organizations {
		views = append(views, organizationView{
			PublicID:  organization.PublicID,
			Name:      organization.Name,
			Slug:      organization.Slug,
			CreatedOn: organization.CreatedAt.In(handler.location).Format("2006-01-02"),
		})
	}
	return views
}

func buildOnboardingViewData(snapshot onboardingSnapshot, messages map[string]string, errorMessage string) fiber.Map {
	state := snapshot.State
	track := state.Track()

	userTypes := []choiceView{
		{Value: string(onboarding.UserTypePatient), LabelKey: "onboarding.user_type.patient", Selected: state.UserType == onboarding.UserTypePatient},
		{Value: string(onboarding.UserTypeProfessional), LabelKey: "onboarding.user_type.professional", Selected: state.UserType == onboarding.UserTypeProfessional},
	}
	professionalTypes := []choiceView{
		{Value: string(onboarding.ProfessionalTypeIndividual), LabelKey: "onboarding.professional_type.individual", Selected: track.IsIndividual()},
		{Value: string(onboarding.ProfessionalTypeOrganization), LabelKey: "onboarding.professional_type.organization", Selected: track.IsOrganization()},
	}

	healthFields := make([]healthFieldView, 0, len(onboarding.HealthFields()))
	for _, field := range onboarding.HealthFields() {
		healthFields = append(healthFields, healthFieldView{
			ID:          string(field.ID),
			Name:        field.Name,
			Description: field.Description,
			Selected:    state.HasHealthField(field.ID),
		})
	}

	profileFields := make([]profileFieldView, 0, len(onboarding.ProfileFields()))
	for _, field := range onboarding.ProfileFields() {
		profileFields = append(profileFields, profileFieldView{
			Key:      string(field),
			LabelKey: "onboarding.profile." + string(field),
			Value:    state.Profile.Get(field),
		})
	}

	return fiber.Map{
		"Title":             localizedPageTitle(messages, "app.name", "SaludBoard"),
		"StepView":          stepView(snapshot.Step),
		"StepNumber":        snapshot.Footer.Index + 1,
		"State":             state,
		"Footer":            snapshot.Footer,
		"UserTypes":         userTypes,
		"ProfessionalTypes": professionalTypes,
		"IsIndividual":      track.IsIndividual(),
		"IsOrganization":    track.IsOrganization(),
		"HealthFields":      healthFields,
		"ProfileFields":     profileFields,
		"Organizations":     snapshot.Organizations,
		"ErrorKey":          errorTranslationKey(errorMessage),
	}
}

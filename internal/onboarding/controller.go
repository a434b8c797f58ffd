package onboarding

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrCompletionUnavailable = errors.New("onboarding completion unavailable")
	ErrUnknownCompletion     = errors.New("onboarding completion not registered")
)

// CompletionFunc receives a snapshot of the state as it was when the footer
// primary action fired on the last step.
type CompletionFunc func(ctx context.Context, snapshot State) error

type Option func(*Controller)

func WithCompletion(name string, fn CompletionFunc) Option {
	return func(controller *Controller) {
		if name == "" || fn == nil {
			return
		}
		controller.completions[name] = fn
	}
}

type Controller struct {
	state       State
	completions map[string]CompletionFunc
}

func NewController(options ...Option) *Controller {
	return Restore(NewState(), options...)
}

// Restore rebuilds a controller from persisted state. Values that no longer
// fit the catalog are repaired rather than rejected.
func Restore(state State, options ...Option) *Controller {
	controller := &Controller{
		state:       state.normalize(),
		completions: make(map[string]CompletionFunc),
	}
	for _, option := range options {
		option(controller)
	}
	return controller
}

func (controller *Controller) State() State {
	return controller.state.clone()
}

func (controller *Controller) CurrentStep() Step {
	return controller.state.CurrentStep
}

func (controller *Controller) Steps() []Step {
	return StepsFor(controller.state.UserType)
}

func (controller *Controller) Progress() (int, int) {
	steps := controller.Steps()
	return stepIndex(steps, controller.state.CurrentStep), len(steps)
}

func (controller *Controller) IsFirstStep() bool {
	index, _ := controller.Progress()
	return index == 0
}

func (controller *Controller) IsLastStep() bool {
	index, total := controller.Progress()
	return index == total-1
}

// Next moves forward without consulting CanAdvance; the host decides whether
// the user may leave the current step.
func (controller *Controller) Next() {
	index, total := controller.Progress()
	if index < 0 || index >= total-1 {
		return
	}
	controller.moveTo(controller.Steps()[index+1])
}

func (controller *Controller) Prev() {
	index, _ := controller.Progress()
	if index <= 0 {
		return
	}
	controller.moveTo(controller.Steps()[index-1])
}

func (controller *Controller) Reset() {
	controller.state = NewState()
}

func (controller *Controller) SetUserType(userType UserType) {
	if userType != UserTypePatient && userType != UserTypeProfessional {
		return
	}
	if controller.state.UserType == userType {
		return
	}
	controller.state.UserType = userType
	if userType == UserTypePatient {
		controller.state.ProfessionalType = ProfessionalTypeUnset
		controller.clearProfessionalAnswers()
	}
	controller.clamp()
}

func (controller *Controller) SetProfessionalType(professionalType ProfessionalType) {
	if professionalType != ProfessionalTypeIndividual && professionalType != ProfessionalTypeOrganization {
		return
	}
	if controller.state.UserType == UserTypePatient {
		return
	}
	if controller.state.ProfessionalType == professionalType {
		return
	}
	controller.state.ProfessionalType = professionalType
	controller.clearProfessionalAnswers()
}

func (controller *Controller) ToggleHealthField(id HealthFieldID) {
	if !controller.acceptsHealthField(id) {
		return
	}
	selected := controller.state.SelectedHealthFields
	for index, existing := range selected {
		if existing == id {
			controller.state.SelectedHealthFields = append(selected[:index:index], selected[index+1:]...)
			return
		}
	}
	controller.state.SelectedHealthFields = append(selected, id)
}

func (controller *Controller) SetHealthField(id HealthFieldID) {
	if !controller.acceptsHealthField(id) {
		return
	}
	controller.state.SelectedHealthFields = []HealthFieldID{id}
}

func (controller *Controller) UpdateProfileField(field ProfileField, value string) {
	controller.state.Profile.set(field, value)
}

func (controller *Controller) SetPlanSelected(selected bool) {
	if controller.state.UserType == UserTypePatient {
		return
	}
	controller.state.PlanSelected = selected
}

func (controller *Controller) SetFooterOverride(override FooterOverride) {
	controller.state.Footer = controller.state.Footer.merge(override)
}

func (controller *Controller) ClearFooterOverride() {
	controller.state.Footer = FooterIntent{}
}

func (controller *Controller) CanAdvance(facts Facts) bool {
	return controller.stepOpen(controller.state.CurrentStep, facts)
}

// FirstIncompleteStep re-checks the gate of every step before the current
// one. Answers can change after a gate was passed, so hosts call this before
// running a completion.
func (controller *Controller) FirstIncompleteStep(facts Facts) (Step, bool) {
	for _, step := range controller.Steps() {
		if step == controller.state.CurrentStep {
			break
		}
		if !controller.stepOpen(step, facts) {
			return step, true
		}
	}
	return "", false
}

func (controller *Controller) stepOpen(step Step, facts Facts) bool {
	state := controller.state
	switch step {
	case StepWelcome:
		return true
	case StepUserType:
		return state.UserType != UserTypeUnset
	case StepProfessionalType:
		switch state.ProfessionalType {
		case ProfessionalTypeOrganization:
			return facts.HasOrganizationMembership()
		case ProfessionalTypeIndividual:
			return state.PlanSelected
		default:
			return false
		}
	case StepHealthField:
		// Individuals practice a single field.
		if state.Track().IsIndividual() {
			return len(state.SelectedHealthFields) == 1
		}
		return len(state.SelectedHealthFields) > 0
	case StepProfile:
		return state.Profile.IsComplete()
	case StepConfirmation:
		return true
	default:
		return false
	}
}

// CompletionName is the action the footer would run on the last step, or ""
// when there is none.
func (controller *Controller) CompletionName() string {
	if !controller.IsLastStep() {
		return ""
	}
	return controller.state.Footer.OnComplete
}

// Complete runs the registered completion named by the footer intent. Once a
// completion has succeeded further calls return nil without running it again.
func (controller *Controller) Complete(ctx context.Context) error {
	if controller.state.Completed {
		return nil
	}
	name := controller.CompletionName()
	if name == "" {
		return ErrCompletionUnavailable
	}
	fn, ok := controller.completions[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCompletion, name)
	}
	if err := fn(ctx, controller.State()); err != nil {
		return fmt.Errorf("run completion %s: %w", name, err)
	}
	controller.state.Completed = true
	return nil
}

func (controller *Controller) acceptsHealthField(id HealthFieldID) bool {
	if controller.state.UserType == UserTypePatient {
		return false
	}
	_, ok := LookupHealthField(id)
	return ok
}

func (controller *Controller) clearProfessionalAnswers() {
	controller.state.SelectedHealthFields = []HealthFieldID{}
	controller.state.PlanSelected = false
}

func (controller *Controller) moveTo(step Step) {
	if controller.state.CurrentStep == step {
		return
	}
	controller.state.CurrentStep = step
	controller.state.Footer = FooterIntent{}
}

func (controller *Controller) clamp() {
	steps := controller.Steps()
	if stepIndex(steps, controller.state.CurrentStep) < 0 {
		controller.moveTo(steps[0])
	}
}

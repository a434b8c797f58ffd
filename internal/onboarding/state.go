package onboarding

type State struct {
	CurrentStep          Step             `json:"current_step"`
	UserType             UserType         `json:"user_type"`
	ProfessionalType     ProfessionalType `json:"professional_type"`
	SelectedHealthFields []HealthFieldID  `json:"selected_health_fields"`
	Profile              Profile          `json:"profile"`
	PlanSelected         bool             `json:"plan_selected"`
	Footer               FooterIntent     `json:"footer"`
	Completed            bool             `json:"completed"`
}

func NewState() State {
	return State{
		CurrentStep:          StepWelcome,
		SelectedHealthFields: []HealthFieldID{},
	}
}

func (state State) Track() Track {
	return Track{UserType: state.UserType, ProfessionalType: state.ProfessionalType}
}

func (state State) HasHealthField(id HealthFieldID) bool {
	for _, selected := range state.SelectedHealthFields {
		if selected == id {
			return true
		}
	}
	return false
}

func (state State) clone() State {
	copied := state
	copied.SelectedHealthFields = make([]HealthFieldID, len(state.SelectedHealthFields))
	copy(copied.SelectedHealthFields, state.SelectedHealthFields)
	return copied
}

// normalize repairs a state that came from storage: unknown enum values are
// dropped, health fields are deduplicated against the catalog and the step
// pointer is clamped into the current track.
func (state State) normalize() State {
	normalized := state.clone()

	if _, ok := stepCatalog[normalized.UserType]; !ok {
		normalized.UserType = UserTypeUnset
	}
	switch normalized.ProfessionalType {
	case ProfessionalTypeUnset, ProfessionalTypeIndividual, ProfessionalTypeOrganization:
	default:
		normalized.ProfessionalType = ProfessionalTypeUnset
	}
	if normalized.UserType == UserTypePatient {
		normalized.ProfessionalType = ProfessionalTypeUnset
		normalized.SelectedHealthFields = normalized.SelectedHealthFields[:0]
		normalized.PlanSelected = false
	}

	fields := make([]HealthFieldID, 0, len(normalized.SelectedHealthFields))
	seen := make(map[HealthFieldID]struct{}, len(normalized.SelectedHealthFields))
	for _, id := range normalized.SelectedHealthFields {
		if _, ok := LookupHealthField(id); !ok {
			continue
		}
		if _, duplicate := seen[id]; duplicate {
			continue
		}
		seen[id] = struct{}{}
		fields = append(fields, id)
	}
	normalized.SelectedHealthFields = fields

	steps := StepsFor(normalized.UserType)
	if stepIndex(steps, normalized.CurrentStep) < 0 {
		normalized.CurrentStep = steps[0]
		normalized.Footer = FooterIntent{}
	}
	return normalized
}

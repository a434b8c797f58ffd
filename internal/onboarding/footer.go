package onboarding

import "strings"

// FooterIntent is what the mounted step asks the shared footer to do. The
// zero value is the default intent.
type FooterIntent struct {
	NextLabel  string `json:"next_label,omitempty"`
	OnComplete string `json:"on_complete,omitempty"`
}

func (intent FooterIntent) IsDefault() bool {
	return intent.NextLabel == "" && intent.OnComplete == ""
}

// FooterOverride is a partial intent. Empty fields leave the previous value
// in place.
type FooterOverride struct {
	NextLabel  string
	OnComplete string
}

func (intent FooterIntent) merge(override FooterOverride) FooterIntent {
	merged := intent
	if label := strings.TrimSpace(override.NextLabel); label != "" {
		merged.NextLabel = label
	}
	if action := strings.TrimSpace(override.OnComplete); action != "" {
		merged.OnComplete = action
	}
	return merged
}

type FooterAction string

const (
	FooterActionNext          FooterAction = "next"
	FooterActionComplete      FooterAction = "complete"
	FooterActionPatientPortal FooterAction = "patient-portal"
)

type FooterLabels struct {
	Next          string
	Finish        string
	PatientPortal string
}

func DefaultFooterLabels() FooterLabels {
	return FooterLabels{
		Next:          "Continuar",
		Finish:        "Comenzar",
		PatientPortal: "Ir a mi portal",
	}
}

func (labels FooterLabels) withDefaults() FooterLabels {
	defaults := DefaultFooterLabels()
	if strings.TrimSpace(labels.Next) == "" {
		labels.Next = defaults.Next
	}
	if strings.TrimSpace(labels.Finish) == "" {
		labels.Finish = defaults.Finish
	}
	if strings.TrimSpace(labels.PatientPortal) == "" {
		labels.PatientPortal = defaults.PatientPortal
	}
	return labels
}

type FooterView struct {
	Label      string       `json:"label"`
	Action     FooterAction `json:"action"`
	CanAdvance bool         `json:"can_advance"`
	CanGoBack  bool         `json:"can_go_back"`
	Index      int          `json:"index"`
	Total      int          `json:"total"`
}

// ResolveFooter computes what the persistent footer renders for the current
// state. Labels left empty fall back to DefaultFooterLabels.
func (controller *Controller) ResolveFooter(facts Facts, labels FooterLabels) FooterView {
	labels = labels.withDefaults()
	index, total := controller.Progress()
	view := FooterView{
		Action:     FooterActionNext,
		CanAdvance: controller.CanAdvance(facts),
		CanGoBack:  !controller.IsFirstStep(),
		Index:      index,
		Total:      total,
	}

	state := controller.state
	switch {
	case state.CurrentStep == StepUserType && state.UserType == UserTypePatient:
		view.Label = labels.PatientPortal
		view.Action = FooterActionPatientPortal
		return view
	case state.Footer.NextLabel != "":
		view.Label = state.Footer.NextLabel
	case controller.IsLastStep():
		view.Label = labels.Finish
	default:
		view.Label = labels.Next
	}

	if controller.IsLastStep() && state.Footer.OnComplete != "" {
		view.Action = FooterActionComplete
	}
	return view
}

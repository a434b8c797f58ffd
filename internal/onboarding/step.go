// Package onboarding holds the wizard state machine that sequences sign-up
// steps for patients and health professionals.
//
// A Controller owns one State. It is not safe for concurrent use; hosts
// serialize access per user.
package onboarding

import "strings"

type Step string

const (
	StepWelcome          Step = "welcome"
	StepUserType         Step = "user-type"
	StepProfessionalType Step = "professional-type"
	StepHealthField      Step = "health-field"
	StepProfile          Step = "profile"
	StepConfirmation     Step = "confirmation"
)

var allSteps = []Step{
	StepWelcome,
	StepUserType,
	StepProfessionalType,
	StepHealthField,
	StepProfile,
	StepConfirmation,
}

func AllSteps() []Step {
	steps := make([]Step, len(allSteps))
	copy(steps, allSteps)
	return steps
}

// ParseStep returns false for anything outside the closed step set.
func ParseStep(raw string) (Step, bool) {
	candidate := Step(strings.ToLower(strings.TrimSpace(raw)))
	for _, step := range allSteps {
		if step == candidate {
			return step, true
		}
	}
	return "", false
}

type UserType string

const (
	UserTypeUnset        UserType = ""
	UserTypePatient      UserType = "patient"
	UserTypeProfessional UserType = "professional"
)

func ParseUserType(raw string) (UserType, bool) {
	switch UserType(strings.ToLower(strings.TrimSpace(raw))) {
	case UserTypePatient:
		return UserTypePatient, true
	case UserTypeProfessional:
		return UserTypeProfessional, true
	default:
		return UserTypeUnset, false
	}
}

type ProfessionalType string

const (
	ProfessionalTypeUnset        ProfessionalType = ""
	ProfessionalTypeIndividual   ProfessionalType = "individual"
	ProfessionalTypeOrganization ProfessionalType = "organization"
)

func ParseProfessionalType(raw string) (ProfessionalType, bool) {
	switch ProfessionalType(strings.ToLower(strings.TrimSpace(raw))) {
	case ProfessionalTypeIndividual:
		return ProfessionalTypeIndividual, true
	case ProfessionalTypeOrganization:
		return ProfessionalTypeOrganization, true
	default:
		return ProfessionalTypeUnset, false
	}
}

// Track is the branch of the flow implied by the answers so far.
type Track struct {
	UserType         UserType
	ProfessionalType ProfessionalType
}

func (track Track) IsPatient() bool {
	return track.UserType == UserTypePatient
}

func (track Track) IsOrganization() bool {
	return track.UserType == UserTypeProfessional && track.ProfessionalType == ProfessionalTypeOrganization
}

func (track Track) IsIndividual() bool {
	return track.UserType == UserTypeProfessional && track.ProfessionalType == ProfessionalTypeIndividual
}

func (track Track) String() string {
	switch {
	case track.IsPatient():
		return "patient"
	case track.IsOrganization():
		return "professional/organization"
	case track.IsIndividual():
		return "professional/individual"
	case track.UserType == UserTypeProfessional:
		return "professional"
	default:
		return "undecided"
	}
}

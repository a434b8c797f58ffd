package onboarding

var professionalSteps = []Step{
	StepWelcome,
	StepUserType,
	StepProfessionalType,
	StepHealthField,
	StepProfile,
	StepConfirmation,
}

// Patients leave the wizard once the user type is answered, so their list
// ends there.
var patientSteps = []Step{
	StepWelcome,
	StepUserType,
}

var stepCatalog = map[UserType][]Step{
	UserTypeUnset:        professionalSteps,
	UserTypePatient:      patientSteps,
	UserTypeProfessional: professionalSteps,
}

// StepsFor returns the ordered steps of a track. Unknown or unset user types
// get the professional list so a progress indicator does not jump before the
// user commits to a track.
func StepsFor(userType UserType) []Step {
	source, ok := stepCatalog[userType]
	if !ok {
		source = professionalSteps
	}
	steps := make([]Step, len(source))
	copy(steps, source)
	return steps
}

func stepIndex(steps []Step, step Step) int {
	for index, candidate := range steps {
		if candidate == step {
			return index
		}
	}
	return -1
}

package onboarding

import (
	"reflect"
	"testing"
)

func TestStepsForTracks(t *testing.T) {
	tests := []struct {
		name     string
		userType UserType
		want     []Step
	}{
		{
			name:     "patient",
			userType: UserTypePatient,
			want:     []Step{StepWelcome, StepUserType},
		},
		{
			name:     "professional",
			userType: UserTypeProfessional,
			want:     []Step{StepWelcome, StepUserType, StepProfessionalType, StepHealthField, StepProfile, StepConfirmation},
		},
		{
			name:     "unset uses professional list",
			userType: UserTypeUnset,
			want:     []Step{StepWelcome, StepUserType, StepProfessionalType, StepHealthField, StepProfile, StepConfirmation},
		},
		{
			name:     "unknown uses professional list",
			userType: UserType("robot"),
			want:     []Step{StepWelcome, StepUserType, StepProfessionalType, StepHealthField, StepProfile, StepConfirmation},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := StepsFor(tc.userType)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("StepsFor(%q) = %v, want %v", tc.userType, got, tc.want)
			}
		})
	}
}

func TestStepsForAlwaysStartsWithWelcome(t *testing.T) {
	for _, userType := range []UserType{UserTypeUnset, UserTypePatient, UserTypeProfessional} {
		steps := StepsFor(userType)
		if len(steps) == 0 {
			t.Fatalf("StepsFor(%q) returned no steps", userType)
		}
		if steps[0] != StepWelcome {
			t.Fatalf("StepsFor(%q)[0] = %q, want welcome", userType, steps[0])
		}
	}
}

func TestStepsForReturnsCopy(t *testing.T) {
	steps := StepsFor(UserTypeProfessional)
	steps[0] = StepConfirmation

	again := StepsFor(UserTypeProfessional)
	if again[0] != StepWelcome {
		t.Fatalf("expected catalog to be unaffected by caller mutation, got %q", again[0])
	}
}

func TestParseStep(t *testing.T) {
	step, ok := ParseStep(" Health-Field ")
	if !ok || step != StepHealthField {
		t.Fatalf("ParseStep() = (%q, %v), want (health-field, true)", step, ok)
	}
	if _, ok := ParseStep("billing"); ok {
		t.Fatal("expected unknown step to be rejected")
	}
}

func TestParseHealthFieldID(t *testing.T) {
	id, ok := ParseHealthFieldID("PSYCHOLOGY")
	if !ok || id != HealthFieldPsychology {
		t.Fatalf("ParseHealthFieldID() = (%q, %v), want (psychology, true)", id, ok)
	}
	if _, ok := ParseHealthFieldID("astrology"); ok {
		t.Fatal("expected unknown health field to be rejected")
	}
	if len(HealthFields()) != 7 {
		t.Fatalf("expected 7 health fields, got %d", len(HealthFields()))
	}
}

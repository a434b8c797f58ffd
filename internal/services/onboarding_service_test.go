package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/saludboard/internal/models"
	"github.com/terraincognita07/saludboard/internal/onboarding"
	"gorm.io/gorm"
)

type stubOnboardingRepo struct {
	mu                sync.Mutex
	sessions          map[uint]models.OnboardingSession
	completed         map[uint]bool
	professionals     []models.ProfessionalProfile
	patients          []models.Patient
	completeErr       error
	completeCallCount int
}

func newStubOnboardingRepo() *stubOnboardingRepo {
	return &stubOnboardingRepo{
		sessions:  make(map[uint]models.OnboardingSession),
		completed: make(map[uint]bool),
	}
}

func (stub *stubOnboardingRepo) FindSession(userID uint) (models.OnboardingSession, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	session, ok := stub.sessions[userID]
	if !ok {
		return models.OnboardingSession{}, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (stub *stubOnboardingRepo) SaveSession(session *models.OnboardingSession) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.sessions[session.UserID] = *session
	return nil
}

func (stub *stubOnboardingRepo) CompleteProfessional(_ context.Context, profile *models.ProfessionalProfile) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.completeCallCount++
	if stub.completeErr != nil {
		return stub.completeErr
	}
	if stub.completed[profile.UserID] {
		return models.ErrOnboardingAlreadyCompleted
	}
	stub.completed[profile.UserID] = true
	stub.professionals = append(stub.professionals, *profile)
	delete(stub.sessions, profile.UserID)
	return nil
}

func (stub *stubOnboardingRepo) CompletePatient(_ context.Context, patient *models.Patient) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.completed[patient.UserID] {
		return models.ErrOnboardingAlreadyCompleted
	}
	stub.completed[patient.UserID] = true
	stub.patients = append(stub.patients, *patient)
	delete(stub.sessions, patient.UserID)
	return nil
}

type stubMembershipRepo struct {
	count         int64
	organizations []models.Organization
	err           error
}

func (stub *stubMembershipRepo) CountMembershipsByUser(uint) (int64, error) {
	return stub.count, stub.err
}

func (stub *stubMembershipRepo) ListByMember(uint) ([]models.Organization, error) {
	return stub.organizations, stub.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
	keys   []string
}

func (publisher *recordingPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	publisher.keys = append(publisher.keys, routingKey)
	publisher.events = append(publisher.events, payload)
	return nil
}

func newTestOnboardingService(repo *stubOnboardingRepo, memberships *stubMembershipRepo, publisher EventPublisher) *OnboardingService {
	return NewOnboardingService(repo, memberships, NewMemoryLocker(), publisher, zerolog.Nop())
}

func walkToConfirmation(t *testing.T, service *OnboardingService, userID uint, professionalType onboarding.ProfessionalType) {
	t.Helper()

	_, err := service.Update(context.Background(), userID, func(controller *onboarding.Controller) error {
		controller.Next()
		controller.SetUserType(onboarding.UserTypeProfessional)
		controller.Next()
		controller.SetProfessionalType(professionalType)
		controller.SetPlanSelected(professionalType == onboarding.ProfessionalTypeIndividual)
		controller.Next()
		controller.SetHealthField(onboarding.HealthFieldDentistry)
		controller.Next()
		controller.UpdateProfileField(onboarding.ProfileFullName, "Ana Pérez")
		controller.UpdateProfileField(onboarding.ProfileEmail, "ana@clinica.example")
		controller.UpdateProfileField(onboarding.ProfileDocumentNumber, "12345678")
		controller.Next()
		controller.SetFooterOverride(onboarding.FooterOverride{
			NextLabel:  "Ir al dashboard",
			OnComplete: CompletionSubmitProfessional,
		})
		return nil
	})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
}

func TestLoadStartsFreshWizard(t *testing.T) {
	service := newTestOnboardingService(newStubOnboardingRepo(), &stubMembershipRepo{}, nil)

	controller, err := service.Load(7)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if controller.CurrentStep() != onboarding.StepWelcome {
		t.Fatalf("expected welcome, got %q", controller.CurrentStep())
	}
}

func TestUpdatePersistsState(t *testing.T) {
	repo := newStubOnboardingRepo()
	service := newTestOnboardingService(repo, &stubMembershipRepo{}, nil)

	_, err := service.Update(context.Background(), 7, func(controller *onboarding.Controller) error {
		controller.Next()
		controller.SetUserType(onboarding.UserTypeProfessional)
		return nil
	})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}

	stored := repo.sessions[7]
	if stored.CurrentStep != string(onboarding.StepUserType) || stored.UserType != string(onboarding.UserTypeProfessional) {
		t.Fatalf("unexpected stored session %#v", stored)
	}

	controller, err := service.Load(7)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if controller.CurrentStep() != onboarding.StepUserType {
		t.Fatalf("expected restored step user-type, got %q", controller.CurrentStep())
	}
}

func TestUpdateMutationErrorSkipsSave(t *testing.T) {
	repo := newStubOnboardingRepo()
	service := newTestOnboardingService(repo, &stubMembershipRepo{}, nil)
	boom := errors.New("boom")

	_, err := service.Update(context.Background(), 7, func(*onboarding.Controller) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, ok := repo.sessions[7]; ok {
		t.Fatal("did not expect session to be saved")
	}
}

func TestFactsFailClosedOnLookupError(t *testing.T) {
	service := newTestOnboardingService(newStubOnboardingRepo(), &stubMembershipRepo{count: 3, err: errors.New("db down")}, nil)

	facts := service.Facts(7)
	if facts.Loaded || facts.HasOrganizationMembership() {
		t.Fatalf("expected zero facts, got %#v", facts)
	}
}

func TestFactsReportMemberships(t *testing.T) {
	service := newTestOnboardingService(newStubOnboardingRepo(), &stubMembershipRepo{count: 2}, nil)

	facts := service.Facts(7)
	if !facts.Loaded || facts.OrganizationCount != 2 {
		t.Fatalf("unexpected facts %#v", facts)
	}
}

func TestCompleteSubmitsIndividualProfessional(t *testing.T) {
	repo := newStubOnboardingRepo()
	publisher := &recordingPublisher{}
	service := newTestOnboardingService(repo, &stubMembershipRepo{}, publisher)
	walkToConfirmation(t, service, 7, onboarding.ProfessionalTypeIndividual)

	if err := service.Complete(context.Background(), 7); err != nil {
		t.Fatalf("Complete() unexpected error: %v", err)
	}

	if len(repo.professionals) != 1 {
		t.Fatalf("expected one stored profile, got %d", len(repo.professionals))
	}
	profile := repo.professionals[0]
	if profile.ProfessionalType != "individual" || profile.OrganizationID != nil || !profile.PlanSelected {
		t.Fatalf("unexpected profile %#v", profile)
	}
	if len(profile.HealthFields) != 1 || profile.HealthFields[0] != "dentistry" {
		t.Fatalf("unexpected health fields %v", profile.HealthFields)
	}
	if len(publisher.keys) != 1 || publisher.keys[0] != EventOnboardingCompleted {
		t.Fatalf("expected one completion event, got %v", publisher.keys)
	}
}

func TestCompleteOrganizationAttachesMembership(t *testing.T) {
	repo := newStubOnboardingRepo()
	memberships := &stubMembershipRepo{count: 1, organizations: []models.Organization{{ID: 42, Slug: "clinica-norte"}}}
	service := newTestOnboardingService(repo, memberships, nil)
	walkToConfirmation(t, service, 7, onboarding.ProfessionalTypeOrganization)

	if err := service.Complete(context.Background(), 7); err != nil {
		t.Fatalf("Complete() unexpected error: %v", err)
	}
	profile := repo.professionals[0]
	if profile.OrganizationID == nil || *profile.OrganizationID != 42 {
		t.Fatalf("expected organization 42, got %v", profile.OrganizationID)
	}
}

func TestCompleteOrganizationWithoutMembershipFails(t *testing.T) {
	repo := newStubOnboardingRepo()
	service := newTestOnboardingService(repo, &stubMembershipRepo{}, nil)
	walkToConfirmation(t, service, 7, onboarding.ProfessionalTypeOrganization)

	if err := service.Complete(context.Background(), 7); !errors.Is(err, ErrOnboardingOrganizationNeeded) {
		t.Fatalf("expected ErrOnboardingOrganizationNeeded, got %v", err)
	}
	if repo.completeCallCount != 0 {
		t.Fatalf("did not expect storage completion, got %d calls", repo.completeCallCount)
	}
}

func TestCompleteTwiceReportsAlreadyCompleted(t *testing.T) {
	repo := newStubOnboardingRepo()
	service := newTestOnboardingService(repo, &stubMembershipRepo{}, nil)
	walkToConfirmation(t, service, 7, onboarding.ProfessionalTypeIndividual)
	saved := repo.sessions[7]

	if err := service.Complete(context.Background(), 7); err != nil {
		t.Fatalf("Complete() unexpected error: %v", err)
	}

	repo.sessions[7] = saved
	if err := service.Complete(context.Background(), 7); !errors.Is(err, ErrOnboardingAlreadyCompleted) {
		t.Fatalf("expected ErrOnboardingAlreadyCompleted, got %v", err)
	}
	if len(repo.professionals) != 1 {
		t.Fatalf("expected a single stored profile, got %d", len(repo.professionals))
	}
}

func TestCompleteWhileLockedReportsInProgress(t *testing.T) {
	repo := newStubOnboardingRepo()
	locker := NewMemoryLocker()
	service := NewOnboardingService(repo, &stubMembershipRepo{}, locker, nil, zerolog.Nop())
	walkToConfirmation(t, service, 7, onboarding.ProfessionalTypeIndividual)

	if _, acquired, _ := locker.TryLock(context.Background(), "onboarding:complete:7", defaultCompletionLockTTL); !acquired {
		t.Fatal("expected to acquire lock in test")
	}

	if err := service.Complete(context.Background(), 7); !errors.Is(err, ErrOnboardingInProgress) {
		t.Fatalf("expected ErrOnboardingInProgress, got %v", err)
	}
	if repo.completeCallCount != 0 {
		t.Fatalf("did not expect storage completion, got %d calls", repo.completeCallCount)
	}
}

func TestCompleteAwayFromConfirmationFails(t *testing.T) {
	service := newTestOnboardingService(newStubOnboardingRepo(), &stubMembershipRepo{}, nil)

	if err := service.Complete(context.Background(), 7); !errors.Is(err, onboarding.ErrCompletionUnavailable) {
		t.Fatalf("expected ErrCompletionUnavailable, got %v", err)
	}
}

func TestCompleteRechecksEarlierAnswers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*onboarding.Controller)
	}{
		{
			name:   "plan cleared",
			mutate: func(controller *onboarding.Controller) { controller.SetPlanSelected(false) },
		},
		{
			name: "second health field",
			mutate: func(controller *onboarding.Controller) {
				controller.ToggleHealthField(onboarding.HealthFieldNutrition)
			},
		},
		{
			name: "professional type switched",
			mutate: func(controller *onboarding.Controller) {
				controller.SetProfessionalType(onboarding.ProfessionalTypeOrganization)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStubOnboardingRepo()
			memberships := &stubMembershipRepo{count: 1, organizations: []models.Organization{{ID: 3, Name: "Clínica Norte"}}}
			service := newTestOnboardingService(repo, memberships, nil)
			walkToConfirmation(t, service, 7, onboarding.ProfessionalTypeIndividual)

			_, err := service.Update(context.Background(), 7, func(controller *onboarding.Controller) error {
				tt.mutate(controller)
				return nil
			})
			if err != nil {
				t.Fatalf("Update() unexpected error: %v", err)
			}

			if err := service.Complete(context.Background(), 7); !errors.Is(err, ErrOnboardingIncomplete) {
				t.Fatalf("expected ErrOnboardingIncomplete, got %v", err)
			}
			if repo.completeCallCount != 0 || len(repo.professionals) != 0 {
				t.Fatalf("did not expect a stored profile, got %d calls", repo.completeCallCount)
			}
		})
	}
}

func TestUserLocksAreReleased(t *testing.T) {
	service := newTestOnboardingService(newStubOnboardingRepo(), &stubMembershipRepo{}, nil)

	var wg sync.WaitGroup
	for userID := uint(1); userID <= 20; userID++ {
		for range 3 {
			wg.Add(1)
			go func(userID uint) {
				defer wg.Done()
				_, _ = service.Update(context.Background(), userID, func(controller *onboarding.Controller) error {
					controller.Next()
					return nil
				})
			}(userID)
		}
	}
	wg.Wait()

	walkToConfirmation(t, service, 99, onboarding.ProfessionalTypeIndividual)
	if err := service.Complete(context.Background(), 99); err != nil {
		t.Fatalf("Complete() unexpected error: %v", err)
	}

	service.mu.Lock()
	remaining := len(service.userLocks)
	service.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected no per-user locks left, got %d", remaining)
	}
}

func TestEnterPatientPortal(t *testing.T) {
	repo := newStubOnboardingRepo()
	publisher := &recordingPublisher{}
	service := newTestOnboardingService(repo, &stubMembershipRepo{}, publisher)

	if _, err := service.EnterPatientPortal(context.Background(), 7); !errors.Is(err, ErrPatientPortalUnavailable) {
		t.Fatalf("expected ErrPatientPortalUnavailable on welcome, got %v", err)
	}

	_, err := service.Update(context.Background(), 7, func(controller *onboarding.Controller) error {
		controller.Next()
		controller.SetUserType(onboarding.UserTypePatient)
		return nil
	})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}

	patient, err := service.EnterPatientPortal(context.Background(), 7)
	if err != nil {
		t.Fatalf("EnterPatientPortal() unexpected error: %v", err)
	}
	if patient.PublicID == "" || patient.UserID != 7 {
		t.Fatalf("unexpected patient %#v", patient)
	}
	if len(repo.patients) != 1 || len(publisher.events) != 1 {
		t.Fatalf("expected one patient and one event, got %d and %d", len(repo.patients), len(publisher.events))
	}
	event, ok := publisher.events[0].(OnboardingCompletedEvent)
	if !ok || event.Track != models.UserTypePatient {
		t.Fatalf("unexpected event %#v", publisher.events[0])
	}
}

func TestSessionStateMappingKeepsFooterIntent(t *testing.T) {
	state := onboarding.State{
		CurrentStep:          onboarding.StepConfirmation,
		UserType:             onboarding.UserTypeProfessional,
		ProfessionalType:     onboarding.ProfessionalTypeOrganization,
		SelectedHealthFields: []onboarding.HealthFieldID{onboarding.HealthFieldNutrition},
		Footer:               onboarding.FooterIntent{NextLabel: "Ir al dashboard", OnComplete: CompletionSubmitProfessional},
	}

	restored := sessionToState(stateToSession(7, state))
	if restored.Footer != state.Footer || restored.CurrentStep != state.CurrentStep {
		t.Fatalf("unexpected restored state %#v", restored)
	}
	if len(restored.SelectedHealthFields) != 1 || restored.SelectedHealthFields[0] != onboarding.HealthFieldNutrition {
		t.Fatalf("unexpected health fields %v", restored.SelectedHealthFields)
	}
}

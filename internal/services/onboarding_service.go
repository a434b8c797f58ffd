package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/saludboard/internal/models"
	"github.com/terraincognita07/saludboard/internal/onboarding"
	"gorm.io/gorm"
)

// CompletionSubmitProfessional is the footer completion published by the
// confirmation step.
const CompletionSubmitProfessional = "submit-professional"

const defaultCompletionLockTTL = 30 * time.Second

var (
	ErrOnboardingAlreadyCompleted   = errors.New("onboarding already completed")
	ErrOnboardingInProgress         = errors.New("onboarding submission in progress")
	ErrOnboardingIncomplete         = errors.New("onboarding answers incomplete")
	ErrOnboardingOrganizationNeeded = errors.New("onboarding organization membership required")
	ErrPatientPortalUnavailable     = errors.New("patient portal not available from this step")
)

type OnboardingRepository interface {
	FindSession(userID uint) (models.OnboardingSession, error)
	SaveSession(session *models.OnboardingSession) error
	CompleteProfessional(ctx context.Context, profile *models.ProfessionalProfile) error
	CompletePatient(ctx context.Context, patient *models.Patient) error
}

type MembershipRepository interface {
	CountMembershipsByUser(userID uint) (int64, error)
	ListByMember(userID uint) ([]models.Organization, error)
}

type OnboardingService struct {
	sessions    OnboardingRepository
	memberships MembershipRepository
	locker      Locker
	publisher   EventPublisher
	logger      zerolog.Logger
	lockTTL     time.Duration
	now         func() time.Time

	mu        sync.Mutex
	userLocks map[uint]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

type OnboardingServiceOption func(*OnboardingService)

func WithCompletionLockTTL(ttl time.Duration) OnboardingServiceOption {
	return func(service *OnboardingService) {
		if ttl > 0 {
			service.lockTTL = ttl
		}
	}
}

func NewOnboardingService(
	sessions OnboardingRepository,
	memberships MembershipRepository,
	locker Locker,
	publisher EventPublisher,
	logger zerolog.Logger,
	options ...OnboardingServiceOption,
) *OnboardingService {
	service := &OnboardingService{
		sessions:    sessions,
		memberships: memberships,
		locker:      locker,
		publisher:   publisher,
		logger:      logger.With().Str("component", "onboarding").Logger(),
		lockTTL:     defaultCompletionLockTTL,
		now:         time.Now,
		userLocks:   make(map[uint]*userLock),
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// Load returns the user's wizard, starting a fresh one when none is stored.
func (service *OnboardingService) Load(userID uint) (*onboarding.Controller, error) {
	session, err := service.sessions.FindSession(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return onboarding.NewController(service.controllerOptions(userID)...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load onboarding session: %w", err)
	}
	return onboarding.Restore(sessionToState(session), service.controllerOptions(userID)...), nil
}

// Update applies mutate to the stored wizard and persists the result.
// Mutations for one user run one at a time.
func (service *OnboardingService) Update(ctx context.Context, userID uint, mutate func(*onboarding.Controller) error) (*onboarding.Controller, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock := service.lockUser(userID)
	defer unlock()

	controller, err := service.Load(userID)
	if err != nil {
		return nil, err
	}
	if err := mutate(controller); err != nil {
		return nil, err
	}

	session := stateToSession(userID, controller.State())
	if err := service.sessions.SaveSession(&session); err != nil {
		return nil, fmt.Errorf("save onboarding session: %w", err)
	}
	return controller, nil
}

// Facts resolves the organization facts for the gate. Lookup failures return
// the zero value, which keeps membership-dependent gates closed.
func (service *OnboardingService) Facts(userID uint) onboarding.Facts {
	count, err := service.memberships.CountMembershipsByUser(userID)
	if err != nil {
		service.logger.Warn().Err(err).Uint("user_id", userID).Msg("membership lookup failed")
		return onboarding.Facts{}
	}
	return onboarding.Facts{Loaded: true, OrganizationCount: int(count)}
}

// Complete runs the completion the confirmation step registered on the
// footer. A second concurrent call fails with ErrOnboardingInProgress and a
// later one with ErrOnboardingAlreadyCompleted.
func (service *OnboardingService) Complete(ctx context.Context, userID uint) error {
	return service.withCompletionLock(ctx, userID, func() error {
		unlock := service.lockUser(userID)
		defer unlock()

		controller, err := service.Load(userID)
		if err != nil {
			return err
		}
		if err := controller.Complete(ctx); err != nil {
			if errors.Is(err, models.ErrOnboardingAlreadyCompleted) {
				return ErrOnboardingAlreadyCompleted
			}
			return err
		}
		return nil
	})
}

// EnterPatientPortal finalizes a patient account from the user-type step.
func (service *OnboardingService) EnterPatientPortal(ctx context.Context, userID uint) (models.Patient, error) {
	var patient models.Patient
	err := service.withCompletionLock(ctx, userID, func() error {
		unlock := service.lockUser(userID)
		defer unlock()

		controller, err := service.Load(userID)
		if err != nil {
			return err
		}
		view := controller.ResolveFooter(onboarding.Facts{}, onboarding.FooterLabels{})
		if view.Action != onboarding.FooterActionPatientPortal {
			return ErrPatientPortalUnavailable
		}

		patient = models.Patient{
			PublicID:  uuid.NewString(),
			UserID:    userID,
			CreatedAt: service.now().UTC(),
		}
		if err := service.sessions.CompletePatient(ctx, &patient); err != nil {
			if errors.Is(err, models.ErrOnboardingAlreadyCompleted) {
				return ErrOnboardingAlreadyCompleted
			}
			return fmt.Errorf("complete patient onboarding: %w", err)
		}
		service.logger.Info().Uint("user_id", userID).Str("track", controller.State().Track().String()).Msg("onboarding completed")

		service.publish(ctx, OnboardingCompletedEvent{
			UserID:          userID,
			Track:           models.UserTypePatient,
			PatientPublicID: patient.PublicID,
			CompletedAt:     patient.CreatedAt,
		})
		return nil
	})
	return patient, err
}

func (service *OnboardingService) controllerOptions(userID uint) []onboarding.Option {
	return []onboarding.Option{
		onboarding.WithCompletion(CompletionSubmitProfessional, service.submitProfessional(userID)),
	}
}

func (service *OnboardingService) submitProfessional(userID uint) onboarding.CompletionFunc {
	return func(ctx context.Context, snapshot onboarding.State) error {
		track := snapshot.Track()
		if !track.IsIndividual() && !track.IsOrganization() {
			return ErrOnboardingIncomplete
		}
		facts := service.Facts(userID)
		if track.IsOrganization() && !facts.HasOrganizationMembership() {
			return ErrOnboardingOrganizationNeeded
		}
		if step, incomplete := onboarding.Restore(snapshot).FirstIncompleteStep(facts); incomplete {
			return fmt.Errorf("%w: %s", ErrOnboardingIncomplete, step)
		}

		profile := models.ProfessionalProfile{
			UserID:           userID,
			ProfessionalType: string(snapshot.ProfessionalType),
			FullName:         snapshot.Profile.FullName,
			Email:            snapshot.Profile.Email,
			DocumentNumber:   snapshot.Profile.DocumentNumber,
			Phone:            snapshot.Profile.Phone,
			LicenseNumber:    snapshot.Profile.LicenseNumber,
			HealthFields:     healthFieldStrings(snapshot.SelectedHealthFields),
			PlanSelected:     snapshot.PlanSelected,
		}

		if track.IsOrganization() {
			organizations, err := service.memberships.ListByMember(userID)
			if err != nil {
				return fmt.Errorf("load organizations: %w", err)
			}
			if len(organizations) == 0 {
				return ErrOnboardingOrganizationNeeded
			}
			organizationID := organizations[0].ID
			profile.OrganizationID = &organizationID
		}

		if err := service.sessions.CompleteProfessional(ctx, &profile); err != nil {
			return err
		}
		service.logger.Info().Uint("user_id", userID).Str("track", track.String()).Msg("onboarding completed")

		service.publish(ctx, OnboardingCompletedEvent{
			UserID:           userID,
			Track:            models.UserTypeProfessional,
			ProfessionalType: profile.ProfessionalType,
			OrganizationID:   profile.OrganizationID,
			HealthFields:     profile.HealthFields,
			CompletedAt:      service.now().UTC(),
		})
		return nil
	}
}

// publish is best effort; the completion is already committed.
func (service *OnboardingService) publish(ctx context.Context, event OnboardingCompletedEvent) {
	if service.publisher == nil {
		return
	}
	if err := service.publisher.Publish(ctx, EventOnboardingCompleted, event); err != nil {
		service.logger.Error().Err(err).Uint("user_id", event.UserID).Msg("publish onboarding completed event")
	}
}

func (service *OnboardingService) withCompletionLock(ctx context.Context, userID uint, fn func() error) error {
	key := "onboarding:complete:" + strconv.FormatUint(uint64(userID), 10)
	err := withLock(ctx, service.locker, key, service.lockTTL, fn)
	if errors.Is(err, ErrLockNotAcquired) {
		return ErrOnboardingInProgress
	}
	return err
}

// lockUser serializes work for one user. The entry is dropped once no
// caller holds or waits for it.
func (service *OnboardingService) lockUser(userID uint) func() {
	service.mu.Lock()
	entry, ok := service.userLocks[userID]
	if !ok {
		entry = &userLock{}
		service.userLocks[userID] = entry
	}
	entry.refs++
	service.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		service.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(service.userLocks, userID)
		}
		service.mu.Unlock()
	}
}

func sessionToState(session models.OnboardingSession) onboarding.State {
	fields := make([]onboarding.HealthFieldID, 0, len(session.HealthFields))
	for _, field := range session.HealthFields {
		fields = append(fields, onboarding.HealthFieldID(field))
	}
	return onboarding.State{
		CurrentStep:          onboarding.Step(session.CurrentStep),
		UserType:             onboarding.UserType(session.UserType),
		ProfessionalType:     onboarding.ProfessionalType(session.ProfessionalType),
		SelectedHealthFields: fields,
		Profile: onboarding.Profile{
			FullName:       session.FullName,
			Email:          session.Email,
			DocumentNumber: session.DocumentNumber,
			Phone:          session.Phone,
			LicenseNumber:  session.LicenseNumber,
		},
		PlanSelected: session.PlanSelected,
		Footer: onboarding.FooterIntent{
			NextLabel:  session.FooterNextLabel,
			OnComplete: session.FooterOnComplete,
		},
		Completed: session.Completed,
	}
}

func stateToSession(userID uint, state onboarding.State) models.OnboardingSession {
	return models.OnboardingSession{
		UserID:           userID,
		CurrentStep:      string(state.CurrentStep),
		UserType:         string(state.UserType),
		ProfessionalType: string(state.ProfessionalType),
		HealthFields:     healthFieldStrings(state.SelectedHealthFields),
		FullName:         state.Profile.FullName,
		Email:            state.Profile.Email,
		DocumentNumber:   state.Profile.DocumentNumber,
		Phone:            state.Profile.Phone,
		LicenseNumber:    state.Profile.LicenseNumber,
		PlanSelected:     state.PlanSelected,
		FooterNextLabel:  state.Footer.NextLabel,
		FooterOnComplete: state.Footer.OnComplete,
		Completed:        state.Completed,
	}
}

func healthFieldStrings(ids []onboarding.HealthFieldID) []string {
	fields := make([]string, 0, len(ids))
	for _, id := range ids {
		fields = append(fields, string(id))
	}
	return fields
}

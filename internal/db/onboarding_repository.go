package db

import (
	"context"
	"errors"

	"github.com/terraincognita07/saludboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OnboardingRepository struct {
	database *gorm.DB
}

func NewOnboardingRepository(database *gorm.DB) *OnboardingRepository {
	return &OnboardingRepository{database: database}
}

func (repo *OnboardingRepository) FindSession(userID uint) (models.OnboardingSession, error) {
	var session models.OnboardingSession
	if err := repo.database.Where("user_id = ?", userID).First(&session).Error; err != nil {
		return models.OnboardingSession{}, err
	}
	return session, nil
}

var sessionMutableColumns = []string{
	"current_step",
	"user_type",
	"professional_type",
	"health_fields",
	"full_name",
	"email",
	"document_number",
	"phone",
	"license_number",
	"plan_selected",
	"footer_next_label",
	"footer_on_complete",
	"completed",
	"updated_at",
}

// SaveSession inserts the session or overwrites the stored one, keeping its
// created_at.
func (repo *OnboardingRepository) SaveSession(session *models.OnboardingSession) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(sessionMutableColumns),
	}).Create(session).Error
}

func (repo *OnboardingRepository) DeleteSession(userID uint) error {
	return repo.database.Where("user_id = ?", userID).Delete(&models.OnboardingSession{}).Error
}

// CompleteProfessional stores the professional profile and closes onboarding.
// It fails with models.ErrOnboardingAlreadyCompleted when a concurrent submission
// got there first.
func (repo *OnboardingRepository) CompleteProfessional(ctx context.Context, profile *models.ProfessionalProfile) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureOnboardingOpen(tx, profile.UserID); err != nil {
			return err
		}

		var existing models.ProfessionalProfile
		result := tx.Where("user_id = ?", profile.UserID).First(&existing)
		switch {
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
		case result.Error != nil:
			return result.Error
		default:
			profile.ID = existing.ID
			profile.CreatedAt = existing.CreatedAt
			if err := tx.Save(profile).Error; err != nil {
				return err
			}
		}

		return finishOnboarding(tx, profile.UserID, models.UserTypeProfessional)
	})
}

func (repo *OnboardingRepository) CompletePatient(ctx context.Context, patient *models.Patient) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureOnboardingOpen(tx, patient.UserID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", patient.UserID).FirstOrCreate(patient).Error; err != nil {
			return err
		}
		return finishOnboarding(tx, patient.UserID, models.UserTypePatient)
	})
}

func ensureOnboardingOpen(tx *gorm.DB, userID uint) error {
	var user models.User
	if err := tx.Select("id", "onboarding_completed").First(&user, userID).Error; err != nil {
		return err
	}
	if user.OnboardingCompleted {
		return models.ErrOnboardingAlreadyCompleted
	}
	return nil
}

func finishOnboarding(tx *gorm.DB, userID uint, userType string) error {
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"user_type":            userType,
		"onboarding_completed": true,
	}).Error; err != nil {
		return err
	}
	return tx.Where("user_id = ?", userID).Delete(&models.OnboardingSession{}).Error
}

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/saludboard/internal/models"
	"github.com/terraincognita07/saludboard/internal/security"
)

var ErrOrganizationSlugUnavailable = errors.New("organization slug unavailable")

const (
	slugSuffixLength   = 4
	slugSuffixAttempts = 5
)

type OrganizationRepository interface {
	SlugExists(slug string) (bool, error)
	CreateWithAdmin(organization *models.Organization) error
	CountMembershipsByUser(userID uint) (int64, error)
	ListByMember(userID uint) ([]models.Organization, error)
}

type OrganizationService struct {
	organizations OrganizationRepository
	now           func() time.Time
}

func NewOrganizationService(organizations OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		organizations: organizations,
		now:           time.Now,
	}
}

// Create registers a new organization with the caller as its admin.
func (service *OrganizationService) Create(userID uint, nameRaw string) (models.Organization, error) {
	name, err := NormalizeOrganizationName(nameRaw)
	if err != nil {
		return models.Organization{}, err
	}
	base := CreateOrganizationSlug(name)
	if err := ValidateOrganizationSlug(base); err != nil {
		return models.Organization{}, err
	}

	slug, err := service.availableSlug(base)
	if err != nil {
		return models.Organization{}, err
	}

	organization := models.Organization{
		PublicID:        uuid.NewString(),
		Name:            name,
		Slug:            slug,
		CreatedByUserID: userID,
		CreatedAt:       service.now().UTC(),
	}
	if err := service.organizations.CreateWithAdmin(&organization); err != nil {
		return models.Organization{}, fmt.Errorf("create organization: %w", err)
	}
	return organization, nil
}

func (service *OrganizationService) ListForMember(userID uint) ([]models.Organization, error) {
	return service.organizations.ListByMember(userID)
}

func (service *OrganizationService) availableSlug(base string) (string, error) {
	taken, err := service.organizations.SlugExists(base)
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if !taken {
		return base, nil
	}

	for attempt := 0; attempt < slugSuffixAttempts; attempt++ {
		suffix, err := security.RandomString(slugSuffixLength, security.SlugAlphabet)
		if err != nil {
			return "", fmt.Errorf("generate slug suffix: %w", err)
		}
		candidate := base + "-" + suffix
		taken, err := service.organizations.SlugExists(candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrOrganizationSlugUnavailable
}

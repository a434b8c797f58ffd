package db

import (
	"github.com/terraincognita07/saludboard/internal/models"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	database *gorm.DB
}

func NewOrganizationRepository(database *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{database: database}
}

func (repo *OrganizationRepository) SlugExists(slug string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Organization{}).
		Where("slug = ?", slug).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

// CreateWithAdmin inserts the organization and makes its creator an admin
// member in one transaction.
func (repo *OrganizationRepository) CreateWithAdmin(organization *models.Organization) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(organization).Error; err != nil {
			return err
		}
		membership := models.OrganizationMembership{
			OrganizationID: organization.ID,
			UserID:         organization.CreatedByUserID,
			Role:           models.MembershipRoleAdmin,
			CreatedAt:      organization.CreatedAt,
		}
		return tx.Create(&membership).Error
	})
}

func (repo *OrganizationRepository) CountMembershipsByUser(userID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.OrganizationMembership{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *OrganizationRepository) ListByMember(userID uint) ([]models.Organization, error) {
	organizations := make([]models.Organization, 0)
	if err := repo.database.
		Joins("JOIN organization_memberships ON organization_memberships.organization_id = organizations.id").
		Where("organization_memberships.user_id = ?", userID).
		Order("organizations.id ASC").
		Find(&organizations).Error; err != nil {
		return nil, err
	}
	return organizations, nil
}

package db

import "gorm.io/gorm"

type Repositories struct {
	Users         *UserRepository
	Organizations *OrganizationRepository
	Onboarding    *OnboardingRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(database),
		Organizations: NewOrganizationRepository(database),
		Onboarding:    NewOnboardingRepository(database),
	}
}

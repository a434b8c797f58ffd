package models

import "time"

// OnboardingSession is the persisted wizard state of a user who has not
// finished onboarding yet. The row is removed on completion.
type OnboardingSession struct {
	UserID           uint     `gorm:"primaryKey;autoIncrement:false"`
	CurrentStep      string   `gorm:"not null;default:welcome"`
	UserType         string   `gorm:"not null;default:''"`
	ProfessionalType string   `gorm:"not null;default:''"`
	HealthFields     []string `gorm:"serializer:json"`
	FullName         string   `gorm:"not null;default:''"`
	Email            string   `gorm:"not null;default:''"`
	DocumentNumber   string   `gorm:"not null;default:''"`
	Phone            string   `gorm:"not null;default:''"`
	LicenseNumber    string   `gorm:"not null;default:''"`
	PlanSelected     bool     `gorm:"not null;default:false"`
	FooterNextLabel  string   `gorm:"not null;default:''"`
	FooterOnComplete string   `gorm:"not null;default:''"`
	Completed        bool     `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

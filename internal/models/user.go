package models

import "time"

const (
	UserTypePatient      = "patient"
	UserTypeProfessional = "professional"
)

type User struct {
	ID                  uint      `gorm:"primaryKey"`
	Email               string    `gorm:"uniqueIndex;not null"`
	PasswordHash        string    `gorm:"not null"`
	UserType            string    `gorm:"not null;default:''"`
	OnboardingCompleted bool      `gorm:"not null;default:false"`
	CreatedAt           time.Time `gorm:"not null"`
	LastLoginAt         *time.Time
}

package models

import "time"

type ProfessionalProfile struct {
	ID               uint     `gorm:"primaryKey"`
	UserID           uint     `gorm:"uniqueIndex;not null"`
	ProfessionalType string   `gorm:"not null"`
	OrganizationID   *uint    `gorm:"index"`
	FullName         string   `gorm:"not null"`
	Email            string   `gorm:"not null"`
	DocumentNumber   string   `gorm:"not null"`
	Phone            string   `gorm:"not null;default:''"`
	LicenseNumber    string   `gorm:"not null;default:''"`
	HealthFields     []string `gorm:"serializer:json"`
	PlanSelected     bool     `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Patient struct {
	ID        uint      `gorm:"primaryKey"`
	PublicID  string    `gorm:"uniqueIndex;not null"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

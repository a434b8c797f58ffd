package models

import "time"

const (
	MembershipRoleAdmin  = "admin"
	MembershipRoleMember = "member"
)

type Organization struct {
	ID              uint      `gorm:"primaryKey"`
	PublicID        string    `gorm:"uniqueIndex;not null"`
	Name            string    `gorm:"not null"`
	Slug            string    `gorm:"uniqueIndex;not null"`
	CreatedByUserID uint      `gorm:"not null;index"`
	CreatedAt       time.Time `gorm:"not null"`
}

type OrganizationMembership struct {
	ID             uint      `gorm:"primaryKey"`
	OrganizationID uint      `gorm:"not null;uniqueIndex:uidx_membership_org_user"`
	UserID         uint      `gorm:"not null;uniqueIndex:uidx_membership_org_user;index"`
	Role           string    `gorm:"not null;default:member"`
	CreatedAt      time.Time `gorm:"not null"`
}

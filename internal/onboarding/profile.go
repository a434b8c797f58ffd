package onboarding

import "strings"

type ProfileField string

const (
	ProfileFullName       ProfileField = "full_name"
	ProfileEmail          ProfileField = "email"
	ProfileDocumentNumber ProfileField = "document_number"
	ProfilePhone          ProfileField = "phone"
	ProfileLicenseNumber  ProfileField = "license_number"
)

var profileFields = []ProfileField{
	ProfileFullName,
	ProfileEmail,
	ProfileDocumentNumber,
	ProfilePhone,
	ProfileLicenseNumber,
}

func ProfileFields() []ProfileField {
	fields := make([]ProfileField, len(profileFields))
	copy(fields, profileFields)
	return fields
}

type Profile struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	DocumentNumber string `json:"document_number"`
	Phone          string `json:"phone"`
	LicenseNumber  string `json:"license_number"`
}

// set reports false for fields outside the known key set.
func (profile *Profile) set(field ProfileField, value string) bool {
	switch field {
	case ProfileFullName:
		profile.FullName = value
	case ProfileEmail:
		profile.Email = value
	case ProfileDocumentNumber:
		profile.DocumentNumber = value
	case ProfilePhone:
		profile.Phone = value
	case ProfileLicenseNumber:
		profile.LicenseNumber = value
	default:
		return false
	}
	return true
}

func (profile Profile) Get(field ProfileField) string {
	switch field {
	case ProfileFullName:
		return profile.FullName
	case ProfileEmail:
		return profile.Email
	case ProfileDocumentNumber:
		return profile.DocumentNumber
	case ProfilePhone:
		return profile.Phone
	case ProfileLicenseNumber:
		return profile.LicenseNumber
	default:
		return ""
	}
}

// IsComplete checks the fields required to leave the profile step.
func (profile Profile) IsComplete() bool {
	return strings.TrimSpace(profile.FullName) != "" &&
		strings.TrimSpace(profile.Email) != "" &&
		strings.TrimSpace(profile.DocumentNumber) != ""
}

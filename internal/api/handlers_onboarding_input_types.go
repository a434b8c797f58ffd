package api

type userTypeInput struct {
	UserType string `json:"user_type" form:"user_type"`
}

type professionalTypeInput struct {
	ProfessionalType string `json:"professional_type" form:"professional_type"`
}

type healthFieldInput struct {
	HealthField string `json:"health_field" form:"health_field"`
}

// profileInput is a partial update; absent keys keep their stored value.
type profileInput struct {
	FullName       *string `json:"full_name" form:"full_name"`
	Email          *string `json:"email" form:"email"`
	DocumentNumber *string `json:"document_number" form:"document_number"`
	Phone          *string `json:"phone" form:"phone"`
	LicenseNumber  *string `json:"license_number" form:"license_number"`
}

type planInput struct {
	PlanSelected bool `json:"plan_selected" form:"plan_selected"`
}

type organizationInput struct {
	Name string `json:"name" form:"name"`
}

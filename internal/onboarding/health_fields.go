package onboarding

import "strings"

type HealthFieldID string

const (
	HealthFieldGeneralMedicine HealthFieldID = "general-medicine"
	HealthFieldPediatrics      HealthFieldID = "pediatrics"
	HealthFieldDermatology     HealthFieldID = "dermatology"
	HealthFieldOrthopedics     HealthFieldID = "orthopedics"
	HealthFieldDentistry       HealthFieldID = "dentistry"
	HealthFieldNutrition       HealthFieldID = "nutrition"
	HealthFieldPsychology      HealthFieldID = "psychology"
)

type HealthField struct {
	ID          HealthFieldID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
}

var healthFields = []HealthField{
	{ID: HealthFieldGeneralMedicine, Name: "Medicina General", Description: "Atención primaria y diagnóstico integral para adultos."},
	{ID: HealthFieldPediatrics, Name: "Pediatría", Description: "Cuidado médico especializado para niños y adolescentes."},
	{ID: HealthFieldDermatology, Name: "Dermatología", Description: "Diagnóstico y tratamiento de condiciones de la piel."},
	{ID: HealthFieldOrthopedics, Name: "Ortopedia", Description: "Sistema musculoesquelético, huesos, articulaciones y ligamentos."},
	{ID: HealthFieldDentistry, Name: "Odontología", Description: "Salud oral, prevención y tratamientos dentales."},
	{ID: HealthFieldNutrition, Name: "Nutrición", Description: "Planes alimentarios y hábitos saludables personalizados."},
	{ID: HealthFieldPsychology, Name: "Psicología", Description: "Bienestar mental, terapia y acompañamiento emocional."},
}

func HealthFields() []HealthField {
	fields := make([]HealthField, len(healthFields))
	copy(fields, healthFields)
	return fields
}

func LookupHealthField(id HealthFieldID) (HealthField, bool) {
	for _, field := range healthFields {
		if field.ID == id {
			return field, true
		}
	}
	return HealthField{}, false
}

func ParseHealthFieldID(raw string) (HealthFieldID, bool) {
	candidate := HealthFieldID(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := LookupHealthField(candidate); !ok {
		return "", false
	}
	return candidate, true
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/saludboard/internal/models"
	"github.com/terraincognita07/saludboard/internal/services"
)

func (handler *Handler) ProfessionalOnly(c *fiber.Ctx) error {
	return requireUserType(c, models.UserTypeProfessional)
}

func (handler *Handler) PatientOnly(c *fiber.Ctx) error {
	return requireUserType(c, models.UserTypePatient)
}

// requireUserType sends users of the other track to their own portal.
func requireUserType(c *fiber.Ctx, userType string) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if user.UserType == userType {
		return c.Next()
	}
	if acceptsJSON(c) {
		return apiError(c, fiber.StatusForbidden, userType+" access required")
	}
	return c.Redirect(services.PortalPath(*user), fiber.StatusSeeOther)
}

package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ShowDashboard(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	organizations := handler.memberOrganizations(user.ID)
	if acceptsJSON(c) {
		return c.JSON(fiber.Map{
			"user_type":     user.UserType,
			"organizations": organizations,
		})
	}
	return handler.render(c, "dashboard", fiber.Map{
		"Title":         localizedPageTitle(currentMessages(c), "dashboard.title", "SaludBoard | Dashboard"),
		"Organizations": organizations,
	})
}

func (handler *Handler) ShowPatientPortal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	if acceptsJSON(c) {
		return c.JSON(fiber.Map{"user_type": user.UserType})
	}
	return handler.render(c, "patient", fiber.Map{
		"Title": localizedPageTitle(currentMessages(c), "patient.title", "SaludBoard | Patient"),
	})
}

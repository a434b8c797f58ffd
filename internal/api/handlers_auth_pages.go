package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/saludboard/internal/services"
)

func (handler *Handler) ShowLoginPage(c *fiber.Ctx) error {
	if redirected, err := handler.redirectAuthenticatedUserIfPresent(c); redirected || err != nil {
		return err
	}

	flash := handler.popFlashCookie(c)
	return handler.render(c, "login", fiber.Map{
		"Title":    localizedPageTitle(currentMessages(c), "auth.login.title", "SaludBoard | Login"),
		"ErrorKey": errorTranslationKey(flash.AuthError),
		"Email":    flash.LoginEmail,
	})
}

func (handler *Handler) ShowRegisterPage(c *fiber.Ctx) error {
	if redirected, err := handler.redirectAuthenticatedUserIfPresent(c); redirected || err != nil {
		return err
	}

	flash := handler.popFlashCookie(c)
	return handler.render(c, "register", fiber.Map{
		"Title":    localizedPageTitle(currentMessages(c), "auth.register.title", "SaludBoard | Register"),
		"ErrorKey": errorTranslationKey(flash.AuthError),
		"Email":    flash.RegisterEmail,
	})
}

// ShowHome sends visitors to the page that matches their account state.
func (handler *Handler) ShowHome(c *fiber.Ctx) error {
	if redirected, err := handler.redirectAuthenticatedUserIfPresent(c); redirected || err != nil {
		return err
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func (handler *Handler) redirectAuthenticatedUserIfPresent(c *fiber.Ctx) (bool, error) {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return false, nil
	}
	if redirectErr := c.Redirect(services.PortalPath(*user), fiber.StatusSeeOther); redirectErr != nil {
		return false, redirectErr
	}
	return true, nil
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/saludboard/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials, err := parseCredentials(c)
	if err != nil {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid input")
	}
	if credentials.ConfirmPassword == "" {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	user, err := handler.authService.Register(credentials.Email, credentials.Password, credentials.ConfirmPassword)
	if err != nil {
		status, message := authErrorMessage(err)
		if status == fiber.StatusInternalServerError {
			handler.logger.Error().Err(err).Msg("register user")
			return apiError(c, status, "failed to create account")
		}
		return handler.respondAuthError(c, status, message)
	}

	if err := handler.setAuthCookie(c, &user, true); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	if acceptsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"ok":       true,
			"redirect": services.PortalPath(user),
		})
	}
	return redirectOrJSON(c, services.PortalPath(user))
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	credentials, err := parseCredentials(c)
	if err != nil {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	user, err := handler.authService.Authenticate(credentials.Email, credentials.Password)
	if err != nil {
		status, message := authErrorMessage(err)
		if status == fiber.StatusInternalServerError {
			handler.logger.Error().Err(err).Msg("authenticate user")
			return apiError(c, status, "failed to sign in")
		}
		if status != fiber.StatusUnauthorized {
			status, message = fiber.StatusUnauthorized, "invalid credentials"
		}
		return handler.respondAuthError(c, status, message)
	}

	if err := handler.setAuthCookie(c, &user, credentials.RememberMe); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return redirectOrJSON(c, services.PortalPath(user))
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	if isHTMX(c) {
		c.Set("HX-Redirect", "/login")
		return c.SendStatus(fiber.StatusOK)
	}
	if acceptsJSON(c) {
		return c.JSON(fiber.Map{"ok": true})
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

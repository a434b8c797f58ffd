package api

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/saludboard/internal/services"
)

func parseCredentials(c *fiber.Ctx) (credentialsInput, error) {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return credentialsInput{}, err
	}
	input.Email = strings.TrimSpace(input.Email)
	return input, nil
}

// authErrorMessage maps service errors onto the public messages the auth
// pages translate.
func authErrorMessage(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return fiber.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, services.ErrAuthEmailInvalid):
		return fiber.StatusBadRequest, "invalid email"
	case errors.Is(err, services.ErrWeakPassword):
		return fiber.StatusBadRequest, "weak password"
	case errors.Is(err, services.ErrPasswordMismatch):
		return fiber.StatusBadRequest, "password mismatch"
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, "email already exists"
	default:
		return fiber.StatusInternalServerError, "internal error"
	}
}

func (handler *Handler) respondAuthError(c *fiber.Ctx, status int, message string) error {
	if strings.HasPrefix(c.Path(), "/api/auth/") && !acceptsJSON(c) && !isHTMX(c) {
		flash := FlashPayload{AuthError: message}
		switch c.Path() {
		case "/api/auth/register":
			flash.RegisterEmail = c.FormValue("email")
			handler.setFlashCookie(c, flash)
			return c.Redirect("/register", fiber.StatusSeeOther)
		default:
			flash.LoginEmail = c.FormValue("email")
			handler.setFlashCookie(c, flash)
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
	}
	return apiError(c, status, message)
}

func normalizeLoginEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

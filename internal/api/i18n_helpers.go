package api

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var errorKeys = map[string]string{
	"invalid input":                     "auth.error.invalid_input",
	"invalid credentials":               "auth.error.invalid_credentials",
	"invalid email":                     "auth.error.invalid_email",
	"email already exists":              "auth.error.email_exists",
	"weak password":                     "auth.error.weak_password",
	"password mismatch":                 "auth.error.password_mismatch",
	"step incomplete":                   "onboarding.error.step_incomplete",
	"invalid onboarding input":          "onboarding.error.invalid_input",
	"invalid organization name":         "onboarding.error.organization_name",
	"invalid organization slug":         "onboarding.error.organization_slug",
	"organization slug unavailable":     "onboarding.error.organization_unavailable",
	"organization membership required":  "onboarding.error.organization_required",
	"organization already created":      "onboarding.error.organization_exists",
	"onboarding already completed":      "onboarding.error.already_completed",
	"onboarding submission in progress": "onboarding.error.in_progress",
	"onboarding incomplete":             "onboarding.error.incomplete",
	"failed to save onboarding step":    "onboarding.error.generic",
	"failed to finish onboarding":       "onboarding.error.generic",
	"failed to create organization":     "onboarding.error.generic",
	"patient portal not available":      "onboarding.error.step_incomplete",
}

func translateMessage(messages map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if messages != nil {
		if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return key
}

func translateMessagef(messages map[string]string, key string, args ...any) string {
	format := translateMessage(messages, key)
	if format == key {
		return key
	}
	return fmt.Sprintf(format, args...)
}

func errorTranslationKey(message string) string {
	key, ok := errorKeys[strings.ToLower(strings.TrimSpace(message))]
	if !ok {
		return ""
	}
	return key
}

func currentLanguage(c *fiber.Ctx) string {
	language, ok := c.Locals(contextLanguageKey).(string)
	if !ok || strings.TrimSpace(language) == "" {
		return ""
	}
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, ok := c.Locals(contextMessagesKey).(map[string]string)
	if !ok || messages == nil {
		return map[string]string{}
	}
	return messages
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	if _, ok := data["Messages"]; !ok {
		data["Messages"] = currentMessages(c)
	}

	if _, ok := data["Lang"]; !ok {
		language := currentLanguage(c)
		if language == "" {
			language = handler.i18n.DefaultLanguage()
		}
		data["Lang"] = language
	}

	if _, ok := data["CSRFToken"]; !ok {
		data["CSRFToken"] = csrfToken(c)
	}

	if _, ok := data["CurrentUser"]; !ok {
		if user, ok := currentUser(c); ok {
			data["CurrentUser"] = user
		} else {
			data["CurrentUser"] = nil
		}
	}

	return data
}

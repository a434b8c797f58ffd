package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/saludboard/internal/config"
)

func TestCSRFMiddlewareConfigUsesCookieSecureFlag(t *testing.T) {
	secureConfig := csrfMiddlewareConfig(true)
	if !secureConfig.CookieSecure {
		t.Fatal("expected csrf cookie secure flag to be enabled")
	}
	if !secureConfig.CookieHTTPOnly {
		t.Fatal("expected csrf cookie to be httpOnly")
	}
	if secureConfig.CookieName != "saludboard_csrf" {
		t.Fatalf("expected csrf cookie name saludboard_csrf, got %q", secureConfig.CookieName)
	}
	if secureConfig.KeyLookup != "form:csrf_token" {
		t.Fatalf("expected csrf key lookup form:csrf_token, got %q", secureConfig.KeyLookup)
	}

	insecureConfig := csrfMiddlewareConfig(false)
	if insecureConfig.CookieSecure {
		t.Fatal("expected csrf cookie secure flag to be disabled")
	}
}

func TestCSRFMiddlewareSkipsJSONRequests(t *testing.T) {
	app := fiber.New()
	app.Use(csrf.New(csrfMiddlewareConfig(false)))
	app.Post("/onboarding/next", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	jsonRequest := httptest.NewRequest(http.MethodPost, "/onboarding/next", strings.NewReader(`{}`))
	jsonRequest.Header.Set("Content-Type", "application/json")
	response, err := app.Test(jsonRequest, -1)
	if err != nil {
		t.Fatalf("json request failed: %v", err)
	}
	if response.StatusCode != http.StatusNoContent {
		t.Fatalf("expected json request to pass csrf, got %d", response.StatusCode)
	}

	formRequest := httptest.NewRequest(http.MethodPost, "/onboarding/next", strings.NewReader("a=b"))
	formRequest.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	response, err = app.Test(formRequest, -1)
	if err != nil {
		t.Fatalf("form request failed: %v", err)
	}
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected form post without token to be rejected, got %d", response.StatusCode)
	}
}

func TestNewLoggerHonoursFormatAndLevel(t *testing.T) {
	var out bytes.Buffer
	logger := newLogger(config.Config{LogFormat: "json", LogLevel: "warn"}, &out)
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %s", logger.GetLevel())
	}

	logger.Info().Msg("hidden")
	logger.Warn().Msg("visible")
	if strings.Contains(out.String(), "hidden") {
		t.Fatalf("did not expect info line, got %q", out.String())
	}
	if !strings.Contains(out.String(), `"service":"saludboard"`) {
		t.Fatalf("expected json line with service field, got %q", out.String())
	}

	out.Reset()
	consoleLogger := newLogger(config.Config{LogFormat: "console", LogLevel: "info"}, &out)
	consoleLogger.Info().Msg("hola")
	if strings.HasPrefix(strings.TrimSpace(out.String()), "{") {
		t.Fatalf("expected console output, got %q", out.String())
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "migrate", "reset-password", "reset-onboarding"} {
		if _, _, err := root.Find([]string{name}); err != nil {
			t.Fatalf("expected %s subcommand: %v", name, err)
		}
	}
	resetPassword, _, _ := root.Find([]string{"reset-password"})
	if resetPassword.Flags().Lookup("email") == nil {
		t.Fatal("expected reset-password --email flag")
	}
}

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/saludboard/internal/db"
	"github.com/terraincognita07/saludboard/internal/i18n"
	"github.com/terraincognita07/saludboard/internal/models"
	"github.com/terraincognita07/saludboard/internal/onboarding"
	"github.com/terraincognita07/saludboard/internal/templates"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "StrongPass1"

func newOnboardingTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "saludboard-test.db")
	database, err := db.OpenSQLite(databasePath, zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	i18nManager, err := i18n.NewManager(i18n.LangES, i18n.EmbeddedLocales())
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	handler, err := NewHandler(database, "test-secret-key-with-enough-length!!", templates.FS(), time.UTC, i18nManager, false)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app, database
}

func createTestUser(t *testing.T, database *gorm.DB, email string, userType string, onboardingCompleted bool) models.User {
	t.Helper()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		Email:               strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:        string(passwordHash),
		UserType:            userType,
		OnboardingCompleted: onboardingCompleted,
		CreatedAt:           time.Now().UTC(),
	}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func loginAndExtractAuthCookie(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	form := url.Values{
		"email":    {email},
		"password": {testPassword},
	}
	request := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected login status 303, got %d", response.StatusCode)
	}

	value := responseCookieValue(response.Cookies(), authCookieName)
	if value == "" {
		t.Fatal("auth cookie is missing in login response")
	}
	return authCookieName + "=" + value
}

// sendJSON posts or gets with JSON content negotiation and returns the
// response with its body already read.
func sendJSON(t *testing.T, app *fiber.App, method string, path string, cookie string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read %s body: %v", path, err)
	}
	return response, raw
}

func postSnapshot(t *testing.T, app *fiber.App, path string, cookie string, payload any) onboardingSnapshot {
	t.Helper()

	response, raw := sendJSON(t, app, http.MethodPost, path, cookie, payload)
	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		t.Fatalf("POST %s: expected success, got %d: %s", path, response.StatusCode, raw)
	}
	return decodeSnapshot(t, raw)
}

func walkIndividualToConfirmation(t *testing.T, app *fiber.App, cookie string) {
	t.Helper()

	postSnapshot(t, app, "/onboarding/next", cookie, nil)
	postSnapshot(t, app, "/onboarding/user-type", cookie, map[string]string{"user_type": "professional"})
	postSnapshot(t, app, "/onboarding/next", cookie, nil)
	postSnapshot(t, app, "/onboarding/professional-type", cookie, map[string]string{"professional_type": "individual"})
	postSnapshot(t, app, "/onboarding/plan", cookie, map[string]bool{"plan_selected": true})
	postSnapshot(t, app, "/onboarding/next", cookie, nil)
	postSnapshot(t, app, "/onboarding/health-fields/set", cookie, map[string]string{"health_field": "dermatology"})
	postSnapshot(t, app, "/onboarding/next", cookie, nil)
	postSnapshot(t, app, "/onboarding/profile", cookie, map[string]string{
		"full_name":       "Ana Pérez",
		"email":           "ana@example.com",
		"document_number": "12345678",
	})
	snapshot := postSnapshot(t, app, "/onboarding/next", cookie, nil)
	if snapshot.Step != onboarding.StepConfirmation {
		t.Fatalf("expected confirmation step, got %q", snapshot.Step)
	}
}

func fetchSnapshot(t *testing.T, app *fiber.App, cookie string) onboardingSnapshot {
	t.Helper()

	response, raw := sendJSON(t, app, http.MethodGet, "/api/onboarding", cookie, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/onboarding: expected 200, got %d: %s", response.StatusCode, raw)
	}
	return decodeSnapshot(t, raw)
}

func decodeSnapshot(t *testing.T, raw []byte) onboardingSnapshot {
	t.Helper()

	snapshot := onboardingSnapshot{}
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v (%s)", err, raw)
	}
	return snapshot
}

func decodeJSONMap(t *testing.T, raw []byte) map[string]any {
	t.Helper()

	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode json: %v (%s)", err, raw)
	}
	return payload
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func reloadUser(t *testing.T, database *gorm.DB, userID uint) models.User {
	t.Helper()

	user := models.User{}
	if err := database.First(&user, userID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return user
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(raw)
}

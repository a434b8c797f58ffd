package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	app.Get("/", handler.ShowHome)
	app.Get("/login", handler.ShowLoginPage)
	app.Get("/register", handler.ShowRegisterPage)

	onboarding := app.Group("/onboarding", handler.AuthRequired)
	onboarding.Get("", handler.ShowOnboarding)
	onboarding.Post("/next", handler.OnboardingNext)
	onboarding.Post("/prev", handler.OnboardingPrev)
	onboarding.Post("/reset", handler.OnboardingReset)
	onboarding.Post("/user-type", handler.OnboardingUserType)
	onboarding.Post("/professional-type", handler.OnboardingProfessionalType)
	onboarding.Post("/health-fields/toggle", handler.OnboardingToggleHealthField)
	onboarding.Post("/health-fields/set", handler.OnboardingSetHealthField)
	onboarding.Post("/profile", handler.OnboardingProfile)
	onboarding.Post("/plan", handler.OnboardingPlan)
	onboarding.Post("/organization", handler.OnboardingCreateOrganization)

	app.Get("/dashboard", handler.AuthRequired, handler.ProfessionalOnly, handler.ShowDashboard)
	app.Get("/patient", handler.AuthRequired, handler.PatientOnly, handler.ShowPatientPortal)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	api.Get("/health-fields", handler.ListHealthFields)
	api.Get("/onboarding", handler.AuthRequired, handler.GetOnboardingState)
}

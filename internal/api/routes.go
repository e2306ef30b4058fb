package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", handler.Metrics())
	app.Get("/lang/:lang", handler.SetLanguage)

	registerAPIRoutes(app, handler)
	app.Use(handler.NotFound)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	setup := api.Group("/setup")
	setup.Get("/status", handler.AuthRequired, handler.SetupStatus)
	setup.Get("/mom", handler.AuthRequired, handler.GetMomSetup)
	setup.Post("/mom", handler.AuthRequired, handler.SaveMomSetup)
	setup.Get("/child", handler.OptionalUser, handler.ChildSetupGuard)
	setup.Post("/child", handler.AuthRequired, handler.SubmitChildSetup)
	setup.Post("/reset", handler.AuthRequired, handler.ResetSetup)
	setup.Post("/refresh", handler.AuthRequired, handler.RefreshSetup)

	api.Get("/home", handler.AuthRequired, handler.SetupRequired, handler.Home)
}

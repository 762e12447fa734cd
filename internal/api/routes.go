package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	users := api.Group("/users/:id")
	users.Get("/cycle", handler.GetCurrentCycle)
	users.Post("/cycles", handler.StartCycle)
	users.Get("/ovulation", handler.GetOvulationConfirmation)
	users.Get("/fertility-window", handler.GetFertilityWindow)
	users.Get("/logs", handler.GetLogs)
	users.Put("/logs/:date", handler.UpsertLog)
	users.Get("/insights", handler.GetInsights)

	cycles := api.Group("/cycles/:id")
	cycles.Post("/complete", handler.CompleteCycle)

	insights := api.Group("/insights")
	insights.Post("/:id/read", handler.MarkInsightRead)

	admin := api.Group("/admin")
	admin.Post("/insights/run", handler.RunInsightGeneration)
}

package engine

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the inference API behind the given middleware.
func RegisterRoutes(app *fiber.App, h *Handler, middleware ...fiber.Handler) {
	api := app.Group("/api", middleware...)
	api.Post("/inference", h.Infer)
	api.Get("/rulesets", h.ListRuleSets)
	api.Get("/rulesets/:id", h.GetRuleSet)
	api.Get("/schemas", h.ListSchemas)
}

package routes

import (
	"paperqa_backend/handlers"

	"github.com/gofiber/fiber/v2"
)

func RegisterQARoutes(app *fiber.App, handler *handlers.QAHandler) {
	qa := app.Group("api/qa")
	qa.Post("/ask", handler.Ask)
	qa.Post("/batch", handler.AskBatch)
	qa.Get("/cache/stats", handler.CacheStats)
}

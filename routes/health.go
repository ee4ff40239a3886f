package routes

import (
	"paperqa_backend/handlers"

	"github.com/gofiber/fiber/v2"
)

func RegisterHealthRoutes(app *fiber.App, handler *handlers.HealthHandler) {
	app.Get("/health", handler.Health)
}

package routes

import (
	"paperqa_backend/handlers"

	"github.com/gofiber/fiber/v2"
)

func RegisterDocumentRoutes(app *fiber.App, handler *handlers.DocumentHandler) {
	document := app.Group("api/documents")
	document.Post("/upload", handler.Upload)
	document.Get("/list", handler.List)
	document.Get("/:doc_id", handler.Get)
	document.Delete("/:doc_id", handler.Delete)
}

package handlers

import (
	"errors"
	"io"

	"paperqa_backend/services"

	"github.com/gofiber/fiber/v2"
)

type DocumentHandler struct {
	docService *services.DocumentService
}

func NewDocumentHandler(docService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fileHandler, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "File required"})
	}

	meta := services.UploadMeta{
		Title:    c.FormValue("title"),
		Category: c.FormValue("category"),
		Source:   c.FormValue("source"),
	}

	f, err := fileHandler.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Could not read file"})
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Could not read file"})
	}

	resp, err := h.docService.Ingest(c.Context(), fileHandler.Filename, fileHandler.Header.Get("Content-Type"), content, meta)
	if err != nil {
		return documentError(c, err)
	}
	return c.JSON(resp)
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	docs, err := h.docService.List(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list documents"})
	}
	return c.JSON(fiber.Map{"documents": docs, "total": len(docs)})
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	docID := c.Params("doc_id")
	info, err := h.docService.Get(c.Context(), docID)
	if err != nil {
		return documentError(c, err)
	}
	return c.JSON(info)
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	docID := c.Params("doc_id")
	if err := h.docService.Delete(c.Context(), docID); err != nil {
		return documentError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Document deleted", "doc_id": docID})
}

func documentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotPDF),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrEmptyDocument):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrDocumentNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
}

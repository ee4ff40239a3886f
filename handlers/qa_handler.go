package handlers

import (
	"errors"
	"strings"

	"paperqa_backend/models"
	"paperqa_backend/services"

	"github.com/gofiber/fiber/v2"
)

type QAHandler struct {
	ragService *services.RAGService
}

func NewQAHandler(ragService *services.RAGService) *QAHandler {
	return &QAHandler{ragService: ragService}
}

// Ask answers one question. Pipeline failures still return 200 with a
// fallback answer; only bad input or an unknown document is an error.
func (h *QAHandler) Ask(c *fiber.Ctx) error {
	var req models.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if strings.TrimSpace(req.DocumentID) == "" || strings.TrimSpace(req.Question) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "document_id and question are required"})
	}

	resp, err := h.ragService.AnswerQuestion(c.Context(), &req, c.IP())
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(resp)
}

func (h *QAHandler) AskBatch(c *fiber.Ctx) error {
	var req struct {
		DocumentID string   `json:"document_id"`
		Questions  []string `json:"questions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if strings.TrimSpace(req.DocumentID) == "" || len(req.Questions) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "document_id and questions are required"})
	}

	resp, err := h.ragService.AnswerBatch(c.Context(), req.DocumentID, req.Questions, c.IP())
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(resp)
}

func (h *QAHandler) CacheStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"answer_cache": h.ragService.CacheStats(),
		"memory":       h.ragService.MemoryStats(),
	})
}

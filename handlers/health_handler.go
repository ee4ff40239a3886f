package handlers

import (
	"paperqa_backend/platform/database"
	"paperqa_backend/platform/events"
	"paperqa_backend/platform/vectorstore"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	db         *database.DB
	chunkStore vectorstore.Store
	eventLog   *events.EventLog
}

func NewHealthHandler(db *database.DB, chunkStore vectorstore.Store, eventLog *events.EventLog) *HealthHandler {
	return &HealthHandler{db: db, chunkStore: chunkStore, eventLog: eventLog}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := "ok"

	dbStatus := "ok"
	if err := h.db.Ping(); err != nil {
		dbStatus = "unavailable"
		status = "degraded"
	}

	chunks, err := h.chunkStore.Count(c.Context())
	vectorStatus := "ok"
	if err != nil {
		vectorStatus = "unavailable"
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"status":        status,
		"database":      dbStatus,
		"vector_store":  vectorStatus,
		"chunks":        chunks,
		"recent_events": h.eventLog.Len(),
	})
}

package models

import "time"

type DocumentEventType string

const (
	EventDocumentIngested DocumentEventType = "ingested"
	EventDocumentDeleted  DocumentEventType = "deleted"
)

type DocumentEvent struct {
	Type       DocumentEventType `json:"type"`
	DocID      string            `json:"doc_id"`
	Filename   string            `json:"filename,omitempty"`
	ChunkCount int               `json:"chunk_count,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

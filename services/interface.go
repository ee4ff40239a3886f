package services

import (
	"context"

	"paperqa_backend/models"
)

// TextExtractor pulls plain text and a page count out of raw PDF bytes.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte) (string, int, error)
	FirstPage(ctx context.Context, content []byte) (string, error)
}

// Embedder maps text to a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EventPublisher announces document lifecycle changes.
type EventPublisher interface {
	PublishDocumentEvent(event *models.DocumentEvent) error
}

// ObjectStorage archives original uploads.
type ObjectStorage interface {
	StorePDF(ctx context.Context, filename string, content []byte) (string, error)
	Remove(ctx context.Context, fileKey string) error
	FileExists(fileKey string) (bool, error)
}

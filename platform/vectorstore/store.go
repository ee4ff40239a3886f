// Package vectorstore abstracts the vector database. Two backends exist:
// an embedded chromem-go store and a pgvector-backed Postgres store. Both
// return a typed QueryResult validated at this boundary instead of the
// loose documents/metadatas/distances shape upstream APIs use.
package vectorstore

import "context"

// ChunkRecord is one embedded text segment ready for upsert.
type ChunkRecord struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  map[string]string
}

// QueryResult holds the top-k matches for a query. The three slices are
// index-aligned; Distances is cosine distance (0 identical, higher is
// farther) and may be empty when the backend cannot report it.
type QueryResult struct {
	Documents []string
	Metadatas []map[string]string
	Distances []float64
}

// Store is the contract the services program against.
type Store interface {
	// Upsert writes all records in one batch.
	Upsert(ctx context.Context, records []ChunkRecord) error
	// Query returns up to topK matches restricted by the equality filter
	// in where (typically {"doc_id": id}).
	Query(ctx context.Context, embedding []float32, topK int, where map[string]string) (*QueryResult, error)
	// DeleteWhere removes every record matching the equality filter.
	DeleteWhere(ctx context.Context, where map[string]string) error
	// Count reports the number of stored records, for health reporting.
	Count(ctx context.Context) (int, error)
}

package vectorstore

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"
)

// ChromemStore is the embedded default backend: a persistent chromem-go
// collection with cosine space, no external service required.
type ChromemStore struct {
	collection *chromem.Collection
}

// InitChromem opens (or creates) the persistent DB at path.
func InitChromem(path string) (*chromem.DB, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open chromem db: %w", err)
	}
	return db, nil
}

func NewChromemStore(db *chromem.DB, collectionName string) (*ChromemStore, error) {
	collection, err := db.GetOrCreateCollection(collectionName, map[string]string{
		"hnsw:space": "cosine",
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", collectionName, err)
	}
	return &ChromemStore{collection: collection}, nil
}

func (s *ChromemStore) Upsert(ctx context.Context, records []ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	embeddings := make([][]float32, len(records))
	metadatas := make([]map[string]string, len(records))
	contents := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
		embeddings[i] = r.Embedding
		metadatas[i] = r.Metadata
		contents[i] = r.Text
	}
	if err := s.collection.Add(ctx, ids, embeddings, metadatas, contents); err != nil {
		return fmt.Errorf("failed to add %d records: %w", len(records), err)
	}
	return nil
}

func (s *ChromemStore) Query(ctx context.Context, embedding []float32, topK int, where map[string]string) (*QueryResult, error) {
	// chromem rejects nResults larger than the collection size
	count := s.collection.Count()
	if count == 0 {
		return &QueryResult{}, nil
	}
	if topK > count {
		topK = count
	}
	if topK <= 0 {
		topK = 1
	}

	results, err := s.collection.QueryEmbedding(ctx, embedding, topK, where, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	out := &QueryResult{
		Documents: make([]string, 0, len(results)),
		Metadatas: make([]map[string]string, 0, len(results)),
		Distances: make([]float64, 0, len(results)),
	}
	for _, r := range results {
		out.Documents = append(out.Documents, r.Content)
		out.Metadatas = append(out.Metadatas, r.Metadata)
		// chromem reports cosine similarity, not distance
		out.Distances = append(out.Distances, 1-float64(r.Similarity))
	}
	return out, nil
}

func (s *ChromemStore) DeleteWhere(ctx context.Context, where map[string]string) error {
	if err := s.collection.Delete(ctx, where, nil); err != nil {
		return fmt.Errorf("vector delete failed: %w", err)
	}
	return nil
}

func (s *ChromemStore) Count(_ context.Context) (int, error) {
	return s.collection.Count(), nil
}

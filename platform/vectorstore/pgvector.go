package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// chunkRow is the pgvector-backed representation of one embedded segment.
// All collections share the chunks table, discriminated by the collection
// column.
type chunkRow struct {
	ChunkID    string          `gorm:"column:chunk_id;type:varchar(255);primaryKey"`
	Collection string          `gorm:"column:collection;type:varchar(128);not null;index:idx_collection"`
	DocID      string          `gorm:"column:doc_id;type:varchar(64);not null;index:idx_doc_id"`
	ChunkText  string          `gorm:"column:chunk_text;type:text;not null"`
	Embedding  pgvector.Vector `gorm:"column:embedding;type:vector(768)"`
	Metadata   string          `gorm:"column:metadata;type:jsonb"`
	CreatedAt  time.Time       `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (chunkRow) TableName() string {
	return "chunks"
}

// PgvectorStore keeps chunks and their embeddings in Postgres, ordered by
// the cosine distance operator at query time.
type PgvectorStore struct {
	db         *gorm.DB
	collection string
}

func NewPgvectorStore(db *gorm.DB, collectionName string) (*PgvectorStore, error) {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("pgvector extension unavailable: %w", err)
	}
	if err := db.AutoMigrate(&chunkRow{}); err != nil {
		return nil, fmt.Errorf("chunks migration failed: %w", err)
	}
	return &PgvectorStore{db: db, collection: collectionName}, nil
}

func (s *PgvectorStore) Upsert(ctx context.Context, records []ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]chunkRow, 0, len(records))
	for _, r := range records {
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode chunk metadata: %w", err)
		}
		rows = append(rows, chunkRow{
			ChunkID:    r.ID,
			Collection: s.collection,
			DocID:      r.Metadata["doc_id"],
			ChunkText:  r.Text,
			Embedding:  pgvector.NewVector(r.Embedding),
			Metadata:   string(meta),
		})
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to store %d chunks: %w", len(rows), err)
	}
	return nil
}

func (s *PgvectorStore) Query(ctx context.Context, embedding []float32, topK int, where map[string]string) (*QueryResult, error) {
	if topK <= 0 {
		topK = 1
	}

	var rows []struct {
		ChunkText string
		Metadata  string
		Distance  float64
	}
	tx := s.db.WithContext(ctx).Model(&chunkRow{}).
		Select("chunk_text, metadata, embedding <=> ? AS distance", pgvector.NewVector(embedding)).
		Where("collection = ?", s.collection)
	if docID, ok := where["doc_id"]; ok {
		tx = tx.Where("doc_id = ?", docID)
	}
	if err := tx.Order("distance").Limit(topK).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	out := &QueryResult{
		Documents: make([]string, 0, len(rows)),
		Metadatas: make([]map[string]string, 0, len(rows)),
		Distances: make([]float64, 0, len(rows)),
	}
	for _, row := range rows {
		meta := map[string]string{}
		if row.Metadata != "" {
			if err := json.Unmarshal([]byte(row.Metadata), &meta); err != nil {
				meta = map[string]string{}
			}
		}
		if !matchesWhere(meta, where) {
			continue
		}
		out.Documents = append(out.Documents, row.ChunkText)
		out.Metadatas = append(out.Metadatas, meta)
		out.Distances = append(out.Distances, row.Distance)
	}
	return out, nil
}

// matchesWhere applies any filter keys beyond doc_id (which the SQL query
// already handled) against the decoded metadata.
func matchesWhere(meta, where map[string]string) bool {
	for k, v := range where {
		if k == "doc_id" {
			continue
		}
		if meta[k] != v {
			return false
		}
	}
	return true
}

func (s *PgvectorStore) DeleteWhere(ctx context.Context, where map[string]string) error {
	tx := s.db.WithContext(ctx).Where("collection = ?", s.collection)
	if docID, ok := where["doc_id"]; ok {
		tx = tx.Where("doc_id = ?", docID)
	}
	if err := tx.Delete(&chunkRow{}).Error; err != nil {
		return fmt.Errorf("vector delete failed: %w", err)
	}
	return nil
}

func (s *PgvectorStore) Count(ctx context.Context) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&chunkRow{}).
		Where("collection = ?", s.collection).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("chunk count failed: %w", err)
	}
	return int(n), nil
}

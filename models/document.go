package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Document is the persisted metadata record for one ingested paper.
// The extracted text itself lives in the vector store; this row is the
// system of record for everything else and survives restarts.
type Document struct {
	DocID       string         `gorm:"column:doc_id;type:varchar(64);primaryKey" json:"id"`
	Filename    string         `gorm:"column:filename;type:varchar(512);not null" json:"filename"`
	Title       string         `gorm:"column:title;type:varchar(512)" json:"title"`
	Category    string         `gorm:"column:category;type:varchar(128)" json:"category"`
	Source      string         `gorm:"column:source;type:varchar(128)" json:"source"`
	UploadDate  time.Time      `gorm:"column:upload_date;type:timestamp" json:"upload_date"`
	FileSize    int64          `gorm:"column:file_size;type:bigint" json:"file_size"`
	TotalLength int            `gorm:"column:total_length;type:int" json:"total_length"`
	PageCount   int            `gorm:"column:page_count;type:int" json:"page_count"`
	ChunkCount  int            `gorm:"column:chunk_count;type:int" json:"chunk_count"`
	ChunkIDs    pq.StringArray `gorm:"column:chunk_ids;type:text[]" json:"-"`
	FileKey     string         `gorm:"column:file_key;type:varchar(255)" json:"-"`
	SummaryJSON string         `gorm:"column:summary;type:jsonb" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.UploadDate.IsZero() {
		d.UploadDate = time.Now().UTC()
	}
	return nil
}

// Summary decodes the stored summary column. A row written before summary
// generation succeeded decodes to the sentinel summary.
func (d *Document) Summary() PaperSummary {
	var s PaperSummary
	if err := json.Unmarshal([]byte(d.SummaryJSON), &s); err != nil {
		return FallbackSummary("No content available")
	}
	return s
}

func (d *Document) SetSummary(s PaperSummary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	d.SummaryJSON = string(data)
	return nil
}

type UploadResponse struct {
	ID              string       `json:"id"`
	DocumentID      string       `json:"document_id"`
	Filename        string       `json:"filename"`
	UploadDate      time.Time    `json:"upload_date"`
	FileSize        int64        `json:"file_size"`
	PageCount       int          `json:"page_count"`
	ChunksProcessed int          `json:"chunks_processed"`
	Summary         PaperSummary `json:"summary"`
}

type DocumentInfo struct {
	ID         string       `json:"id"`
	Filename   string       `json:"filename"`
	Title      string       `json:"title"`
	UploadDate time.Time    `json:"upload_date"`
	FileSize   int64        `json:"file_size"`
	PageCount  int          `json:"page_count"`
	ChunkCount int          `json:"chunk_count"`
	Summary    PaperSummary `json:"summary"`
}

func (d *Document) Info() DocumentInfo {
	return DocumentInfo{
		ID:         d.DocID,
		Filename:   d.Filename,
		Title:      d.Title,
		UploadDate: d.UploadDate,
		FileSize:   d.FileSize,
		PageCount:  d.PageCount,
		ChunkCount: d.ChunkCount,
		Summary:    d.Summary(),
	}
}

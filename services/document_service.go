package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"paperqa_backend/config"
	"paperqa_backend/models"
	"paperqa_backend/pkg/chunking"
	"paperqa_backend/pkg/logging"
	"paperqa_backend/platform/cache"
	"paperqa_backend/platform/vectorstore"
	"paperqa_backend/repository"

	"github.com/google/uuid"
)

var (
	ErrNotPDF           = errors.New("only PDF files are accepted")
	ErrFileTooLarge     = errors.New("file exceeds the maximum allowed size")
	ErrEmptyDocument    = errors.New("no extractable text found in the PDF")
	ErrDocumentNotFound = errors.New("document not found")
)

// UploadMeta carries optional caller-supplied metadata alongside the file.
type UploadMeta struct {
	Title    string
	Category string
	Source   string
}

// DocumentService owns the ingestion pipeline and document lifecycle:
// extract, chunk, embed, store, summarize, archive, persist, announce.
type DocumentService struct {
	cfg           *config.Config
	docRepo       repository.DocumentRepository
	chunkStore    vectorstore.Store
	summaryStore  vectorstore.Store
	extractor     TextExtractor
	embedder      Embedder
	summarizer    *SummaryService
	storage       ObjectStorage
	publisher     EventPublisher
	metadataCache *cache.MetadataCache
	answerCache   *cache.TTLCache[models.CachedAnswer]
}

func NewDocumentService(
	cfg *config.Config,
	docRepo repository.DocumentRepository,
	chunkStore vectorstore.Store,
	summaryStore vectorstore.Store,
	extractor TextExtractor,
	embedder Embedder,
	summarizer *SummaryService,
	storage ObjectStorage,
	publisher EventPublisher,
	metadataCache *cache.MetadataCache,
	answerCache *cache.TTLCache[models.CachedAnswer],
) *DocumentService {
	return &DocumentService{
		cfg:           cfg,
		docRepo:       docRepo,
		chunkStore:    chunkStore,
		summaryStore:  summaryStore,
		extractor:     extractor,
		embedder:      embedder,
		summarizer:    summarizer,
		storage:       storage,
		publisher:     publisher,
		metadataCache: metadataCache,
		answerCache:   answerCache,
	}
}

// Ingest validates and processes one uploaded PDF end to end. Summary
// generation, summary embedding, and archival are best-effort; chunk
// embedding and vector storage are not.
func (s *DocumentService) Ingest(ctx context.Context, filename, contentType string, content []byte, meta UploadMeta) (*models.UploadResponse, error) {
	if err := s.validateUpload(filename, contentType, int64(len(content))); err != nil {
		return nil, err
	}

	text, pages, err := s.extractor.Extract(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyDocument
	}

	docID := uuid.New().String()
	uploadDate := time.Now().UTC()

	chunks := chunking.Chunk(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	records := make([]vectorstore.ChunkRecord, 0, len(chunks))
	chunkIDs := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		chunkID := fmt.Sprintf("%s_chunk_%d", docID, i)
		chunkIDs = append(chunkIDs, chunkID)
		records = append(records, vectorstore.ChunkRecord{
			ID:        chunkID,
			Text:      chunk,
			Embedding: vec,
			Metadata: map[string]string{
				"doc_id":       docID,
				"chunk_index":  strconv.Itoa(i),
				"chunk_size":   strconv.Itoa(len(chunk)),
				"total_chunks": strconv.Itoa(len(chunks)),
				"filename":     filename,
				"upload_date":  uploadDate.Format(time.RFC3339),
			},
		})
	}
	if err := s.chunkStore.Upsert(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	summaryText := text
	if s.cfg.SummaryStrategy == "first_page" {
		if fp, err := s.extractor.FirstPage(ctx, content); err != nil {
			logging.Logger.Warn("first page extraction failed, summarizing full text", "error", err, "doc_id", docID)
		} else if fp = strings.TrimSpace(fp); fp != "" {
			summaryText = fp
		}
	}
	summary := s.summarizer.GenerateSummary(ctx, summaryText)
	if s.cfg.EmbedSummary {
		s.embedSummarySections(ctx, docID, summary)
	}

	fileKey := ""
	if key, err := s.storage.StorePDF(ctx, filename, content); err != nil {
		logging.Logger.Warn("pdf archival failed, continuing", "error", err, "doc_id", docID)
	} else {
		fileKey = key
	}

	doc := &models.Document{
		DocID:       docID,
		Filename:    filename,
		Title:       meta.Title,
		Category:    meta.Category,
		Source:      meta.Source,
		UploadDate:  uploadDate,
		FileSize:    int64(len(content)),
		TotalLength: len(text),
		PageCount:   pages,
		ChunkCount:  len(chunks),
		ChunkIDs:    chunkIDs,
		FileKey:     fileKey,
	}
	if err := doc.SetSummary(summary); err != nil {
		logging.Logger.Warn("failed to encode summary", "error", err, "doc_id", docID)
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to persist document metadata: %w", err)
	}
	s.metadataCache.Set(docID, doc)

	if err := s.publisher.PublishDocumentEvent(&models.DocumentEvent{
		Type:       models.EventDocumentIngested,
		DocID:      docID,
		Filename:   filename,
		ChunkCount: len(chunks),
	}); err != nil {
		logging.Logger.Warn("failed to publish ingest event", "error", err, "doc_id", docID)
	}

	logging.Logger.Info("document ingested",
		"doc_id", docID, "filename", filename,
		"pages", pages, "chunks", len(chunks), "chars", len(text),
	)

	return &models.UploadResponse{
		ID:              docID,
		DocumentID:      docID,
		Filename:        filename,
		UploadDate:      uploadDate,
		FileSize:        int64(len(content)),
		PageCount:       pages,
		ChunksProcessed: len(chunks),
		Summary:         summary,
	}, nil
}

func (s *DocumentService) validateUpload(filename, contentType string, size int64) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return ErrNotPDF
	}
	if contentType != "" && contentType != "application/pdf" && contentType != "application/octet-stream" {
		return ErrNotPDF
	}
	if size == 0 {
		return ErrEmptyDocument
	}
	if size > s.cfg.MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// embedSummarySections indexes the summary sections into their own
// collection using the smaller fixed-stride segmentation. Failures here
// never fail the ingest.
func (s *DocumentService) embedSummarySections(ctx context.Context, docID string, summary models.PaperSummary) {
	var records []vectorstore.ChunkRecord
	for _, ns := range summary.Named() {
		pieces := chunking.FixedStride(ns.Section.Content, chunking.SummaryChunkSize, chunking.SummaryOverlap)
		for i, piece := range pieces {
			vec, err := s.embedder.Embed(ctx, piece)
			if err != nil {
				logging.Logger.Warn("summary section embedding failed", "error", err, "doc_id", docID, "section", ns.Key)
				continue
			}
			records = append(records, vectorstore.ChunkRecord{
				ID:        fmt.Sprintf("%s_summary_%s_%d", docID, ns.Key, i),
				Text:      piece,
				Embedding: vec,
				Metadata: map[string]string{
					"doc_id":  docID,
					"section": ns.Key,
				},
			})
		}
	}
	if len(records) == 0 {
		return
	}
	if err := s.summaryStore.Upsert(ctx, records); err != nil {
		logging.Logger.Warn("summary section storage failed", "error", err, "doc_id", docID)
	}
}

func (s *DocumentService) Get(ctx context.Context, docID string) (*models.DocumentInfo, error) {
	if doc, ok := s.metadataCache.Get(docID); ok {
		info := doc.Info()
		return &info, nil
	}
	doc, err := s.docRepo.GetByID(ctx, docID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	s.metadataCache.Set(docID, doc)
	info := doc.Info()
	return &info, nil
}

func (s *DocumentService) List(ctx context.Context) ([]models.DocumentInfo, error) {
	docs, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]models.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, doc.Info())
	}
	return infos, nil
}

// Delete removes every trace of a document: vectors, cached answers,
// archived file, metadata row. Chunks and cached answers must go before
// the row so a failed delete cannot leave orphaned answers for a missing
// document.
func (s *DocumentService) Delete(ctx context.Context, docID string) error {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrDocumentNotFound
	}
	if err != nil {
		return err
	}

	where := map[string]string{"doc_id": docID}
	if err := s.chunkStore.DeleteWhere(ctx, where); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	if s.cfg.EmbedSummary {
		if err := s.summaryStore.DeleteWhere(ctx, where); err != nil {
			logging.Logger.Warn("failed to delete summary sections", "error", err, "doc_id", docID)
		}
	}

	removed := s.answerCache.DeleteByPrefix(cache.QAKeyPrefix(docID))
	if removed > 0 {
		logging.Logger.Info("evicted cached answers", "doc_id", docID, "count", removed)
	}

	if doc.FileKey != "" {
		// an archive lost out of band is not an error worth surfacing
		exists, err := s.storage.FileExists(doc.FileKey)
		if err != nil || exists {
			if err := s.storage.Remove(ctx, doc.FileKey); err != nil {
				logging.Logger.Warn("failed to remove archived pdf", "error", err, "doc_id", docID)
			}
		}
	}

	if err := s.docRepo.Delete(ctx, docID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	s.metadataCache.Del(docID)

	if err := s.publisher.PublishDocumentEvent(&models.DocumentEvent{
		Type:     models.EventDocumentDeleted,
		DocID:    docID,
		Filename: doc.Filename,
	}); err != nil {
		logging.Logger.Warn("failed to publish delete event", "error", err, "doc_id", docID)
	}

	logging.Logger.Info("document deleted", "doc_id", docID)
	return nil
}

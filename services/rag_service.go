package services

import (
	"context"
	"fmt"

	"paperqa_backend/models"
	"paperqa_backend/pkg/logging"
	"paperqa_backend/platform/cache"
	"paperqa_backend/platform/vectorstore"
	"paperqa_backend/repository"
)

const (
	defaultTopK        = 3
	cacheHitConfidence = 0.95

	noContextAnswer = "No relevant information found in the document."
)

type answerOutcome int

const (
	outcomeAnswered answerOutcome = iota
	outcomeNoContext
	outcomeFailed
)

// retrievalResult is the typed outcome of one retrieval pass. Confidence
// is nil only for the failed variant.
type retrievalResult struct {
	outcome    answerOutcome
	answer     string
	sources    []string
	confidence *float64
}

// RAGService answers questions about an ingested paper: retrieve the
// closest chunks, generate grounded in them, remember the exchange, and
// cache the result per (document, question).
type RAGService struct {
	docRepo       repository.DocumentRepository
	store         vectorstore.Store
	embedder      Embedder
	generator     Generator
	responseCache *cache.TTLCache[models.CachedAnswer]
	memory        *cache.MemoryStore
	topK          int
}

func NewRAGService(
	docRepo repository.DocumentRepository,
	store vectorstore.Store,
	embedder Embedder,
	generator Generator,
	responseCache *cache.TTLCache[models.CachedAnswer],
	memory *cache.MemoryStore,
) *RAGService {
	return &RAGService{
		docRepo:       docRepo,
		store:         store,
		embedder:      embedder,
		generator:     generator,
		responseCache: responseCache,
		memory:        memory,
		topK:          defaultTopK,
	}
}

// AnswerQuestion runs the full retrieval flow. Pipeline failures after the
// document check do not surface as errors: they degrade to an apologetic
// answer with nil confidence so the client always gets a response body.
func (s *RAGService) AnswerQuestion(ctx context.Context, req *models.QuestionRequest, clientAddr string) (*models.AnswerResponse, error) {
	if _, err := s.docRepo.GetByID(ctx, req.DocumentID); err != nil {
		return nil, ErrDocumentNotFound
	}

	convID := req.ConversationID
	if convID == "" {
		convID = cache.ConversationID(req.DocumentID, clientAddr)
	}

	// History must be captured before recording the current question, or
	// the prompt would contain the question twice.
	history := s.memory.GetHistory(convID)
	s.memory.Append(convID, "user", req.Question)

	key := cache.QAResultKey(req.DocumentID, req.Question)
	if hit, ok := s.responseCache.Get(key); ok {
		s.memory.Append(convID, "assistant", hit.Answer)
		conf := cacheHitConfidence
		return &models.AnswerResponse{
			DocumentID: req.DocumentID,
			Question:   req.Question,
			Answer:     hit.Answer,
			Sources:    hit.Sources,
			Confidence: &conf,
		}, nil
	}

	result := s.retrieveAndGenerate(ctx, req, history)

	// Only fully answered questions are cached: no-context answers would
	// shadow a later ingest of more content, and failures are transient.
	if result.outcome == outcomeAnswered {
		s.responseCache.Set(key, models.CachedAnswer{
			Question: req.Question,
			Answer:   result.answer,
			Sources:  result.sources,
		})
	}

	s.memory.Append(convID, "assistant", result.answer)
	return &models.AnswerResponse{
		DocumentID: req.DocumentID,
		Question:   req.Question,
		Answer:     result.answer,
		Sources:    result.sources,
		Confidence: result.confidence,
	}, nil
}

func (s *RAGService) retrieveAndGenerate(ctx context.Context, req *models.QuestionRequest, history []cache.Turn) retrievalResult {
	topK := req.TopK
	if topK <= 0 {
		topK = s.topK
	}

	vec, err := s.embedder.Embed(ctx, req.Question)
	if err != nil {
		logging.Logger.Error("fail AnswerQuestion embed", "error", err, "doc_id", req.DocumentID)
		return failedResult(err, []string{})
	}

	res, err := s.store.Query(ctx, vec, topK, map[string]string{"doc_id": req.DocumentID})
	if err != nil {
		logging.Logger.Error("fail AnswerQuestion query", "error", err, "doc_id", req.DocumentID)
		return failedResult(err, []string{})
	}

	if len(res.Documents) == 0 {
		conf := 0.0
		return retrievalResult{
			outcome:    outcomeNoContext,
			answer:     noContextAnswer,
			sources:    []string{},
			confidence: &conf,
		}
	}

	sources := make([]string, len(res.Documents))
	copy(sources, res.Documents)

	prompt := BuildPrompt(history, res.Documents, req.Question)
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		logging.Logger.Error("fail AnswerQuestion generate", "error", err, "doc_id", req.DocumentID)
		return failedResult(err, sources)
	}

	var conf float64
	if len(res.Distances) > 0 {
		conf = confidenceFromDistances(res.Distances)
	} else {
		conf = confidenceFromCount(len(res.Documents))
	}

	return retrievalResult{
		outcome:    outcomeAnswered,
		answer:     answer,
		sources:    sources,
		confidence: &conf,
	}
}

func failedResult(err error, sources []string) retrievalResult {
	return retrievalResult{
		outcome: outcomeFailed,
		answer:  fmt.Sprintf("Sorry, I hit an error while answering: %v", err),
		sources: sources,
	}
}

// AnswerBatch answers each question independently, in order. Per-question
// failures are already absorbed by AnswerQuestion, so only an unknown
// document aborts the batch.
func (s *RAGService) AnswerBatch(ctx context.Context, docID string, questions []string, clientAddr string) (*models.BatchAnswerResponse, error) {
	answers := make([]models.AnswerResponse, 0, len(questions))
	for _, q := range questions {
		resp, err := s.AnswerQuestion(ctx, &models.QuestionRequest{
			DocumentID: docID,
			Question:   q,
		}, clientAddr)
		if err != nil {
			return nil, err
		}
		answers = append(answers, *resp)
	}
	return &models.BatchAnswerResponse{Answers: answers, Total: len(answers)}, nil
}

func (s *RAGService) CacheStats() cache.Stats {
	return s.responseCache.Stats()
}

func (s *RAGService) MemoryStats() cache.Stats {
	return s.memory.Stats()
}

// confidenceFromDistances maps the mean retrieval distance into [0,1];
// closer chunks mean higher confidence.
func confidenceFromDistances(distances []float64) float64 {
	var sum float64
	for _, d := range distances {
		sum += d
	}
	conf := 1.0 - sum/float64(len(distances))
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}

// confidenceFromCount is the fallback heuristic when the store reports no
// distances: more supporting chunks, more confidence, capped at 0.95.
func confidenceFromCount(n int) float64 {
	conf := 0.5 + 0.15*float64(n)
	if conf > 0.95 {
		conf = 0.95
	}
	return conf
}

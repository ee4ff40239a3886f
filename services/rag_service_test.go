package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"paperqa_backend/models"
	"paperqa_backend/platform/cache"
	"paperqa_backend/platform/vectorstore"
	"paperqa_backend/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 0.5, 0.25}, nil
}

type fakeGenerator struct {
	answer     string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	if f.answer != "" {
		return f.answer, nil
	}
	return fmt.Sprintf("answer #%d", f.calls), nil
}

type fakeStore struct {
	result  *vectorstore.QueryResult
	err     error
	queries int
	upserts [][]vectorstore.ChunkRecord
	deleted []map[string]string
}

func (f *fakeStore) Upsert(_ context.Context, records []vectorstore.ChunkRecord) error {
	f.upserts = append(f.upserts, records)
	return nil
}
func (f *fakeStore) Query(context.Context, []float32, int, map[string]string) (*vectorstore.QueryResult, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &vectorstore.QueryResult{}, nil
}
func (f *fakeStore) DeleteWhere(_ context.Context, where map[string]string) error {
	f.deleted = append(f.deleted, where)
	return nil
}
func (f *fakeStore) Count(context.Context) (int, error) { return 0, nil }

type fakeDocRepo struct {
	docs map[string]*models.Document
}

func newFakeDocRepo(ids ...string) *fakeDocRepo {
	r := &fakeDocRepo{docs: map[string]*models.Document{}}
	for _, id := range ids {
		r.docs[id] = &models.Document{DocID: id, Filename: id + ".pdf"}
	}
	return r
}

func (r *fakeDocRepo) Create(_ context.Context, doc *models.Document) error {
	r.docs[doc.DocID] = doc
	return nil
}
func (r *fakeDocRepo) GetByID(_ context.Context, docID string) (*models.Document, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc, nil
}
func (r *fakeDocRepo) List(context.Context) ([]*models.Document, error) {
	var out []*models.Document
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, nil
}
func (r *fakeDocRepo) Delete(_ context.Context, docID string) error {
	if _, ok := r.docs[docID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.docs, docID)
	return nil
}

func newTestRAG(store *fakeStore, embedder *fakeEmbedder, generator *fakeGenerator) (*RAGService, *cache.TTLCache[models.CachedAnswer]) {
	responseCache := cache.NewTTLCache[models.CachedAnswer](256, 10*time.Minute)
	memory := cache.NewMemoryStore(64, time.Hour, 10)
	svc := NewRAGService(newFakeDocRepo("doc-1"), store, embedder, generator, responseCache, memory)
	return svc, responseCache
}

func chunkResult(distances []float64, texts ...string) *vectorstore.QueryResult {
	res := &vectorstore.QueryResult{Documents: texts, Distances: distances}
	for range texts {
		res.Metadatas = append(res.Metadatas, map[string]string{"doc_id": "doc-1"})
	}
	return res
}

func TestAnswerQuestionUnknownDocument(t *testing.T) {
	svc, _ := newTestRAG(&fakeStore{}, &fakeEmbedder{}, &fakeGenerator{})

	_, err := svc.AnswerQuestion(context.Background(), &models.QuestionRequest{
		DocumentID: "missing", Question: "anything",
	}, "1.2.3.4")
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestAnswerQuestionCacheHit(t *testing.T) {
	store := &fakeStore{result: chunkResult([]float64{0.1}, "relevant text")}
	generator := &fakeGenerator{answer: "the cached answer"}
	svc, _ := newTestRAG(store, &fakeEmbedder{}, generator)
	req := &models.QuestionRequest{DocumentID: "doc-1", Question: "What is studied?"}

	first, err := svc.AnswerQuestion(context.Background(), req, "1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, "the cached answer", first.Answer)

	second, err := svc.AnswerQuestion(context.Background(), req, "1.2.3.4")
	require.NoError(t, err)

	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.Sources, second.Sources)
	require.NotNil(t, second.Confidence)
	assert.InDelta(t, 0.95, *second.Confidence, 1e-9)
	assert.Equal(t, 1, generator.calls, "cached answer must not regenerate")
	assert.Equal(t, 1, store.queries)
}

func TestAnswerQuestionNoChunks(t *testing.T) {
	generator := &fakeGenerator{}
	svc, responseCache := newTestRAG(&fakeStore{}, &fakeEmbedder{}, generator)

	resp, err := svc.AnswerQuestion(context.Background(), &models.QuestionRequest{
		DocumentID: "doc-1", Question: "Anything indexed?",
	}, "1.2.3.4")
	require.NoError(t, err)

	assert.Equal(t, "No relevant information found in the document.", resp.Answer)
	assert.Empty(t, resp.Sources)
	require.NotNil(t, resp.Confidence)
	assert.Zero(t, *resp.Confidence)
	assert.Zero(t, generator.calls)
	assert.Zero(t, responseCache.Stats().Entries, "no-context answers must not be cached")
}

func TestConfidenceFromDistances(t *testing.T) {
	store := &fakeStore{result: chunkResult([]float64{0.0, 0.2}, "a", "b")}
	svc, _ := newTestRAG(store, &fakeEmbedder{}, &fakeGenerator{})

	resp, err := svc.AnswerQuestion(context.Background(), &models.QuestionRequest{
		DocumentID: "doc-1", Question: "q",
	}, "1.2.3.4")
	require.NoError(t, err)
	require.NotNil(t, resp.Confidence)
	assert.InDelta(t, 0.9, *resp.Confidence, 1e-9)
}

func TestConfidenceClampedAtZero(t *testing.T) {
	store := &fakeStore{result: chunkResult([]float64{1.0, 1.2}, "a", "b")}
	svc, _ := newTestRAG(store, &fakeEmbedder{}, &fakeGenerator{})

	resp, err := svc.AnswerQuestion(context.Background(), &models.QuestionRequest{
		DocumentID: "doc-1", Question: "q",
	}, "1.2.3.4")
	require.NoError(t, err)
	require.NotNil(t, resp.Confidence)
	assert.Zero(t, *resp.Confidence)
}

func TestConfidenceFromCountCapped(t *testing.T) {
	store := &fakeStore{result: chunkResult(nil, "a", "b", "c")}
	svc, _ := newTestRAG(store, &fakeEmbedder{}, &fakeGenerator{})

	resp, err := svc.AnswerQuestion(context.Background(), &models.QuestionRequest{
		DocumentID: "doc-1", Question: "q",
	}, "1.2.3.4")
	require.NoError(t, err)
	require.NotNil(t, resp.Confidence)
	assert.InDelta(t, 0.95, *resp.Confidence, 1e-9)
}

func TestGenerationFailureFallsBack(t *testing.T) {
	store := &fakeStore{result: chunkResult([]float64{0.1}, "context text")}
	generator := &fakeGenerator{err: errors.New("model overloaded")}
	svc, responseCache := newTestRAG(store, &fakeEmbedder{}, generator)

	resp, err := svc.AnswerQuestion(context.Background(), &models.QuestionRequest{
		DocumentID: "doc-1", Question: "q",
	}, "1.2.3.4")
	require.NoError(t, err, "pipeline failures must not surface as request errors")

	assert.Contains(t, resp.Answer, "Sorry, I hit an error while answering:")
	assert.Contains(t, resp.Answer, "model overloaded")
	assert.Nil(t, resp.Confidence)
	assert.Equal(t, []string{"context text"}, resp.Sources)
	assert.Zero(t, responseCache.Stats().Entries, "failed answers must not be cached")
}

func TestEmbedFailureFallsBack(t *testing.T) {
	svc, _ := newTestRAG(&fakeStore{}, &fakeEmbedder{err: errors.New("quota exceeded")}, &fakeGenerator{})

	resp, err := svc.AnswerQuestion(context.Background(), &models.QuestionRequest{
		DocumentID: "doc-1", Question: "q",
	}, "1.2.3.4")
	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "quota exceeded")
	assert.Nil(t, resp.Confidence)
	assert.Empty(t, resp.Sources)
}

func TestConversationMemoryRecorded(t *testing.T) {
	store := &fakeStore{result: chunkResult([]float64{0.1}, "ctx")}
	svc, _ := newTestRAG(store, &fakeEmbedder{}, &fakeGenerator{answer: "A1"})

	_, err := svc.AnswerQuestion(context.Background(), &models.QuestionRequest{
		DocumentID: "doc-1", Question: "Q1", ConversationID: "conv-9",
	}, "1.2.3.4")
	require.NoError(t, err)

	history := svc.memory.GetHistory("conv-9")
	require.Len(t, history, 2)
	assert.Equal(t, cache.Turn{Role: "user", Content: "Q1"}, history[0])
	assert.Equal(t, cache.Turn{Role: "assistant", Content: "A1"}, history[1])
}

func TestAnswerBatchOrdered(t *testing.T) {
	store := &fakeStore{result: chunkResult([]float64{0.1}, "ctx")}
	svc, _ := newTestRAG(store, &fakeEmbedder{}, &fakeGenerator{})

	resp, err := svc.AnswerBatch(context.Background(), "doc-1", []string{"first?", "second?"}, "1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "first?", resp.Answers[0].Question)
	assert.Equal(t, "second?", resp.Answers[1].Question)
}

func TestBuildPromptContainsHistoryAndContext(t *testing.T) {
	history := []cache.Turn{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	prompt := BuildPrompt(history, []string{"chunk one", "chunk two"}, "current question")

	assert.Contains(t, prompt, "User: earlier question")
	assert.Contains(t, prompt, "Assistant: earlier answer")
	assert.Contains(t, prompt, "[1] chunk one")
	assert.Contains(t, prompt, "[2] chunk two")
	assert.Contains(t, prompt, "Question: current question")
}

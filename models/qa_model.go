package models

type QuestionRequest struct {
	DocumentID     string `json:"document_id"`
	Question       string `json:"question"`
	ConversationID string `json:"conversation_id"`
	TopK           int    `json:"top_k"`
}

// AnswerResponse is the QA payload returned for both fresh and cached
// answers. Confidence is nil when generation failed and the answer text is
// an error fallback.
type AnswerResponse struct {
	DocumentID string   `json:"document_id"`
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence *float64 `json:"confidence"`
}

type BatchAnswerResponse struct {
	Answers []AnswerResponse `json:"answers"`
	Total   int              `json:"total"`
}

// CachedAnswer is the value stored in the response cache for one
// (document, question) pair.
type CachedAnswer struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

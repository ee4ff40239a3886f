package cache

import (
	"sync"
	"time"
)

// Turn is one conversation turn, role "user" or "assistant".
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MemoryStore keeps short-term conversation history per conversation id.
// Each conversation is capped at maxTurns (oldest dropped first) and
// expires as a whole after the TTL of inactivity. The store's own mutex
// makes the read-append-truncate-write sequence atomic.
type MemoryStore struct {
	mu       sync.Mutex
	cache    *TTLCache[[]Turn]
	maxTurns int
}

func NewMemoryStore(capacity int, ttl time.Duration, maxTurns int) *MemoryStore {
	if maxTurns <= 0 {
		maxTurns = 10
	}
	return &MemoryStore{
		cache:    NewTTLCache[[]Turn](capacity, ttl),
		maxTurns: maxTurns,
	}
}

// Append records one turn and returns the resulting history. The returned
// slice is a copy; mutating it does not touch stored state.
func (m *MemoryStore) Append(conversationID, role, content string) []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	history, _ := m.cache.Get(conversationID)
	history = append(copyTurns(history), Turn{Role: role, Content: content})
	if len(history) > m.maxTurns {
		history = history[len(history)-m.maxTurns:]
	}
	m.cache.Set(conversationID, history)
	return copyTurns(history)
}

// GetHistory returns a snapshot of the conversation, empty if absent or
// expired.
func (m *MemoryStore) GetHistory(conversationID string) []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	history, ok := m.cache.Get(conversationID)
	if !ok {
		return nil
	}
	return copyTurns(history)
}

// Stats reports the underlying cache stats.
func (m *MemoryStore) Stats() Stats {
	return m.cache.Stats()
}

// ConversationID derives the implicit conversation id for a client asking
// about a document, so repeated requests share memory without explicit
// session tracking.
func ConversationID(documentID, clientAddr string) string {
	return MakeKey(documentID, clientAddr)
}

func copyTurns(turns []Turn) []Turn {
	if turns == nil {
		return nil
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

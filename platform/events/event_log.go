package events

import (
	"context"
	"sync"

	"paperqa_backend/models"
	"paperqa_backend/pkg/logging"
)

// EventLog keeps the most recent document lifecycle events in memory so
// operators can see ingest/delete activity without a redis client.
type EventLog struct {
	mu       sync.Mutex
	entries  []*models.DocumentEvent
	capacity int
}

func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = 64
	}
	return &EventLog{capacity: capacity}
}

func (l *EventLog) Record(event *models.DocumentEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, event)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// Recent returns a snapshot of the retained events, oldest first.
func (l *EventLog) Recent() []*models.DocumentEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.DocumentEvent, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Run drains the subscription channel into the log until the channel
// closes or ctx is cancelled. Intended to run in its own goroutine.
func (l *EventLog) Run(ctx context.Context, ch <-chan *models.DocumentEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			l.Record(event)
			logging.Logger.Info("document event",
				"type", event.Type, "doc_id", event.DocID, "chunks", event.ChunkCount)
		}
	}
}

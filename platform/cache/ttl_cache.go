// Package cache holds the in-process caching layer: the generic TTL cache,
// the conversation memory store built on top of it, and cache key
// derivation. One cache instance is guarded by one mutex; callers never
// need external synchronization.
package cache

import (
	"container/list"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Stats is a cheap observability snapshot. SizeBytes is approximate: the
// JSON-encoded size of all live values.
type Stats struct {
	Entries   int `json:"entries"`
	SizeBytes int `json:"size_bytes"`
}

type ttlEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	elem      *list.Element
}

// TTLCache is a bounded key/value store whose entries expire after a fixed
// TTL. When full, the least recently used live entry is evicted. All
// operations lock the cache's single mutex.
type TTLCache[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*ttlEntry[V]
	order    *list.List // front = least recently used

	now func() time.Time
}

func NewTTLCache[V any](capacity int, ttl time.Duration) *TTLCache[V] {
	if capacity <= 0 {
		capacity = 256
	}
	return &TTLCache[V]{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*ttlEntry[V]),
		order:    list.New(),
		now:      time.Now,
	}
}

// Get returns the live value for key. Expired entries are treated as
// absent and removed.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.removeLocked(e)
		return zero, false
	}
	c.order.MoveToBack(e.elem)
	return e.value, true
}

// Set inserts or overwrites key. Inserting a new key into a full cache
// first drops expired entries, then evicts the least recently used one.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = c.now().Add(c.ttl)
		c.order.MoveToBack(e.elem)
		return
	}

	if len(c.entries) >= c.capacity {
		c.purgeExpiredLocked()
	}
	for len(c.entries) >= c.capacity {
		front := c.order.Front()
		if front == nil {
			break
		}
		c.removeLocked(front.Value.(*ttlEntry[V]))
	}

	e := &ttlEntry[V]{key: key, value: value, expiresAt: c.now().Add(c.ttl)}
	e.elem = c.order.PushBack(e)
	c.entries[key] = e
}

func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.removeLocked(e)
	}
}

// DeleteByPrefix removes every entry whose key starts with prefix and
// returns how many were dropped. Used for the per-document cascade.
func (c *TTLCache[V]) DeleteByPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.removeLocked(e)
			removed++
		}
	}
	return removed
}

// Clear drops all entries.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*ttlEntry[V])
	c.order.Init()
}

// Stats reports the live entry count and the approximate total value size.
func (c *TTLCache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeExpiredLocked()
	size := 0
	for _, e := range c.entries {
		if data, err := json.Marshal(e.value); err == nil {
			size += len(data)
		}
	}
	return Stats{Entries: len(c.entries), SizeBytes: size}
}

func (c *TTLCache[V]) purgeExpiredLocked() {
	now := c.now()
	for _, e := range c.entries {
		if now.After(e.expiresAt) {
			c.removeLocked(e)
		}
	}
}

func (c *TTLCache[V]) removeLocked(e *ttlEntry[V]) {
	c.order.Remove(e.elem)
	delete(c.entries, e.key)
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// KeySeparator joins normalized key parts. Multi-character so it cannot
// collide with text inside a part.
const KeySeparator = "::"

// MakeKey builds a stable cache key from string fragments. Parts are
// trimmed and lower-cased; empty parts are skipped. Callers are
// responsible for passing parts in a consistent order.
func MakeKey(parts ...string) string {
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			continue
		}
		normalized = append(normalized, p)
	}
	return strings.Join(normalized, KeySeparator)
}

// QAResultKey derives the response-cache key for one (document, question)
// pair. The question is hashed, not normalized, so distinct phrasings stay
// distinct; the document id is kept as a plaintext prefix so every cached
// answer for a document can be dropped with one prefix scan when the
// document is deleted.
func QAResultKey(documentID, question string) string {
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", documentID, question)))
	return documentID + ":" + hex.EncodeToString(digest[:])
}

// QAKeyPrefix is the prefix under which every QAResultKey for a document
// lives.
func QAKeyPrefix(documentID string) string {
	return documentID + ":"
}

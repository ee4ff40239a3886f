package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeKey(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{
			name:     "normalizes case and whitespace",
			parts:    []string{"  Doc-ID ", "What IS attention?"},
			expected: "doc-id::what is attention?",
		},
		{
			name:     "skips empty parts",
			parts:    []string{"doc", "", "  ", "10.0.0.1"},
			expected: "doc::10.0.0.1",
		},
		{
			name:     "single part has no separator",
			parts:    []string{"solo"},
			expected: "solo",
		},
		{
			name:     "all empty",
			parts:    []string{"", "   "},
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MakeKey(tc.parts...))
		})
	}
}

func TestMakeKeyOrderPreserved(t *testing.T) {
	assert.NotEqual(t, MakeKey("a", "b"), MakeKey("b", "a"))
}

func TestQAResultKeyDeterministic(t *testing.T) {
	k1 := QAResultKey("doc-1", "what is the method?")
	k2 := QAResultKey("doc-1", "what is the method?")
	assert.Equal(t, k1, k2)
}

func TestQAResultKeyNotNormalized(t *testing.T) {
	// unlike MakeKey, the QA key must keep distinct phrasings distinct
	assert.NotEqual(t,
		QAResultKey("doc-1", "What is X?"),
		QAResultKey("doc-1", "what is x?"),
	)
}

func TestQAResultKeyPrefixedByDocument(t *testing.T) {
	key := QAResultKey("doc-42", "anything")
	assert.True(t, strings.HasPrefix(key, QAKeyPrefix("doc-42")))

	other := QAResultKey("doc-7", "anything")
	assert.False(t, strings.HasPrefix(other, QAKeyPrefix("doc-42")))
}

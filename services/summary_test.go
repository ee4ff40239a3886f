package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSummaryTruncatesAtRuneBoundary(t *testing.T) {
	// well over the prompt limit, 3 bytes per rune, so a byte-offset cut
	// would land mid-rune
	text := strings.Repeat("研究論文の要約と検索", 400)
	require.Greater(t, len(text), summaryPromptLimit)

	generator := &fakeGenerator{answer: validSummaryJSON}
	NewSummaryService(generator).GenerateSummary(context.Background(), text)

	require.NotEmpty(t, generator.lastPrompt)
	assert.True(t, utf8.ValidString(generator.lastPrompt), "prompt must stay valid UTF-8 after truncation")
	assert.Less(t, len(generator.lastPrompt), len(summaryInstructions)+summaryPromptLimit+32)
}

func TestGenerateSummaryShortTextNotTruncated(t *testing.T) {
	generator := &fakeGenerator{answer: validSummaryJSON}
	NewSummaryService(generator).GenerateSummary(context.Background(), "A short paper body.")

	assert.Contains(t, generator.lastPrompt, "A short paper body.")
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}

func TestGenerateSummaryFillsMissingSections(t *testing.T) {
	// only two sections present in the model output
	partial := `{
		"title_and_authors": {"title": "Title & Authors", "content": "A Paper"},
		"abstract": {"title": "Abstract", "content": "Short."}
	}`
	generator := &fakeGenerator{answer: partial}
	summary := NewSummaryService(generator).GenerateSummary(context.Background(), "body")

	assert.Equal(t, "A Paper", summary.TitleAndAuthors.Content)
	assert.Equal(t, "Short.", summary.Abstract.Content)
	for _, ns := range summary.Named() {
		assert.NotEmpty(t, ns.Section.Title, "section %s needs a title", ns.Key)
		assert.NotEmpty(t, ns.Section.Content, "section %s needs content", ns.Key)
	}
	assert.Equal(t, "No content available", summary.Methodology.Content)
}

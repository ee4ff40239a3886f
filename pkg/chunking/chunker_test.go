package chunking

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkShortTextReturnedWhole(t *testing.T) {
	text := "  A short abstract about transformers.  "
	chunks := Chunk(text, 100, 20)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != strings.TrimSpace(text) {
		t.Errorf("chunk = %q, want trimmed input", chunks[0])
	}
}

func TestChunkEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t\n"} {
		if got := Chunk(text, 100, 20); got != nil {
			t.Errorf("Chunk(%q) = %v, want nil", text, got)
		}
	}
}

func TestChunkPrefersSentenceBoundary(t *testing.T) {
	text := "First sentence here. Second sentence continues for a while longer. Third one."
	chunks := Chunk(text, 40, 10)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], ".") {
		t.Errorf("first chunk should end at a sentence boundary, got %q", chunks[0])
	}
}

func TestChunkFallsBackToWhitespace(t *testing.T) {
	// no ". " anywhere, spaces only
	text := strings.Repeat("word ", 100)
	chunks := Chunk(text, 52, 10)
	for i, c := range chunks {
		if strings.Contains(c, "  ") {
			t.Errorf("chunk %d contains double space: %q", i, c)
		}
		if c == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestChunkRawBreakWithoutBoundaries(t *testing.T) {
	text := strings.Repeat("x", 2500)
	chunks := Chunk(text, 1000, 200)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	total := 0
	for _, c := range chunks {
		if c == "" {
			t.Fatal("empty chunk in output")
		}
		total += len(c)
	}
	// overlap duplicates characters, so the sum must cover the input
	if total < len(text) {
		t.Errorf("chunks cover %d chars, input has %d", total, len(text))
	}
}

func TestChunkOverlapReconstructsInput(t *testing.T) {
	text := strings.Repeat("y", 3000)
	chunkSize, overlap := 1000, 200
	chunks := Chunk(text, chunkSize, overlap)

	rebuilt := chunks[0]
	for _, c := range chunks[1:] {
		if len(c) <= overlap {
			rebuilt += c
			continue
		}
		rebuilt += c[overlap:]
	}
	if rebuilt != text {
		t.Errorf("removing overlaps does not recover input: got %d chars, want %d", len(rebuilt), len(text))
	}
}

func TestChunkTerminatesOnPathologicalInput(t *testing.T) {
	// many sentence boundaries close together pull end backwards hard;
	// the chunker must still make forward progress (test deadline is the
	// backstop against an infinite loop)
	text := strings.Repeat(". x", 5000)
	chunks := Chunk(text, 50, 45)
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}
	for _, c := range chunks {
		if strings.TrimSpace(c) == "" {
			t.Fatal("whitespace-only chunk in output")
		}
	}
}

func TestChunkKeepsRunesIntact(t *testing.T) {
	// multi-byte text with no spaces or ". " forces the raw-break path,
	// which must not cut through a rune
	text := strings.Repeat("研究論文の要約と検索", 200)
	chunks := Chunk(text, 1000, 200)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	total := 0
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Fatalf("chunk %d is not valid UTF-8: ...%x", i, c[len(c)-4:])
		}
		total += len(c)
	}
	if total < len(text) {
		t.Errorf("chunks cover %d bytes, input has %d", total, len(text))
	}
}

func TestChunkMixedScriptsValid(t *testing.T) {
	text := strings.Repeat("Attentionのしくみ χ²-test données ", 120)
	for _, c := range Chunk(text, 300, 60) {
		if !utf8.ValidString(c) {
			t.Fatalf("invalid UTF-8 chunk: %q", c)
		}
	}
}

func TestFixedStrideKeepsRunesIntact(t *testing.T) {
	text := strings.Repeat("要約セクションの内容", 100)
	chunks := FixedStride(text, 500, 100)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Fatalf("chunk %d is not valid UTF-8", i)
		}
	}
}

func TestChunkOverlapSanitized(t *testing.T) {
	// overlap >= chunkSize must not stall the scan
	text := strings.Repeat("z", 500)
	chunks := Chunk(text, 100, 150)
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}
}

func TestFixedStride(t *testing.T) {
	text := strings.Repeat("a", 1200)
	chunks := FixedStride(text, 500, 100)
	if got, want := len(chunks), 3; got != want {
		t.Fatalf("expected %d chunks, got %d", want, got)
	}
	if len(chunks[0]) != 500 || len(chunks[1]) != 500 {
		t.Errorf("unexpected chunk lengths: %d, %d", len(chunks[0]), len(chunks[1]))
	}
}

func TestFixedStrideDropsEmpty(t *testing.T) {
	text := strings.Repeat("b", 400) + strings.Repeat(" ", 300)
	chunks := FixedStride(text, 500, 100)
	for i, c := range chunks {
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is whitespace-only", i)
		}
	}
}

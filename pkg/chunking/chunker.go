// Package chunking splits extracted paper text into overlapping segments,
// the unit of retrieval granularity.
package chunking

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// SummaryChunkSize is used for the fixed-stride pass over summary sections.
const SummaryChunkSize = 500

// SummaryOverlap is the overlap used for summary-section chunks.
const SummaryOverlap = 100

// Chunk splits text into boundary-aware overlapping chunks. Each window end
// is pulled back to the nearest preceding sentence terminator (". "), then
// to the nearest whitespace, before falling back to a raw break at a rune
// boundary. Consecutive chunks overlap by roughly overlap characters. Empty
// chunks are dropped; text that fits in one window is returned whole,
// trimmed.
func Chunk(text string, chunkSize, overlap int) []string {
	chunkSize, overlap = sanitize(chunkSize, overlap)

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			window := text[start:end]
			if i := strings.LastIndex(window, ". "); i > 0 {
				end = start + i + 1
			} else if i := strings.LastIndexAny(window, " \t\n"); i > 0 {
				end = start + i
			} else {
				// Raw break: never split a multi-byte rune.
				end = alignRuneStart(text, end)
				if end <= start {
					_, n := utf8.DecodeRuneInString(text[start:])
					end = start + n
				}
			}
		}

		if c := strings.TrimSpace(text[start:end]); c != "" {
			chunks = append(chunks, c)
		}
		if end >= len(text) {
			break
		}

		// Boundary snapping can pull end back far enough that the usual
		// end-overlap restart would not advance; skip the overlap then so
		// the start index strictly increases.
		next := alignRuneStart(text, end-overlap)
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// FixedStride splits text into fixed-size windows without boundary
// snapping, aside from keeping runes intact. Used for secondary embeddings
// (summary sections) where exact sentence boundaries do not matter.
func FixedStride(text string, chunkSize, overlap int) []string {
	chunkSize, overlap = sanitize(chunkSize, overlap)

	var chunks []string
	stride := chunkSize - overlap
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = alignRuneStart(text, end)
			if end <= start {
				_, n := utf8.DecodeRuneInString(text[start:])
				end = start + n
			}
		}
		if c := strings.TrimSpace(text[start:end]); c != "" {
			chunks = append(chunks, c)
		}
		if end == len(text) {
			break
		}
		next := alignRuneStart(text, start+stride)
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// alignRuneStart backs i off to the start of the rune it falls inside, so
// slicing at i cannot produce invalid UTF-8.
func alignRuneStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func sanitize(chunkSize, overlap int) (int, int) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return chunkSize, overlap
}

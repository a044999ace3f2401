// Package textutil holds the text processing helpers shared by the
// transcription and translation stages: size-limited chunking for the
// remote translation endpoint and caption cleanup for raw tool output.
package textutil

import (
	"strings"
	"unicode"
)

// Chunk splits text into pieces of at most max characters. Boundaries
// fall on sentence ends where possible, then clause separators, then
// word breaks. A single word longer than max is returned whole as its
// own chunk rather than split mid-token, so joining the chunks with
// single spaces reproduces the original words in order.
func Chunk(text string, max int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if max < 1 {
		max = 1
	}

	var chunks []string
	rest := []rune(trimmed)
	for len(rest) > max {
		cut := findCut(rest, max)
		chunk := strings.TrimSpace(string(rest[:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		rest = []rune(strings.TrimSpace(string(rest[cut:])))
	}
	if len(rest) > 0 {
		chunks = append(chunks, string(rest))
	}
	return chunks
}

func findCut(rest []rune, max int) int {
	// Sentence boundary: terminator followed by whitespace
	best := -1
	for i := 0; i < max; i++ {
		if isSentenceEnd(rest[i]) && i+1 < len(rest) && unicode.IsSpace(rest[i+1]) {
			best = i + 1
		}
	}
	if best > 0 {
		return best
	}

	// Clause boundary
	for i := 0; i < max; i++ {
		if (rest[i] == ',' || rest[i] == ';') && i+1 < len(rest) && unicode.IsSpace(rest[i+1]) {
			best = i + 1
		}
	}
	if best > 0 {
		return best
	}

	// Word boundary: last space within the window
	for i := max; i > 0; i-- {
		if unicode.IsSpace(rest[i]) {
			return i
		}
	}

	// Single token longer than max: keep it intact up to the next space
	for i := max; i < len(rest); i++ {
		if unicode.IsSpace(rest[i]) {
			return i
		}
	}
	return len(rest)
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

package chunker

import "strings"

// DefaultMaxWords is the chunk size used when none is configured.
const DefaultMaxWords = 280

// WordChunker splits text into fixed-size word-count chunks. Boundaries are a
// pure function of word count, so identical input always chunks identically.
type WordChunker struct {
	maxWords int
}

func NewWordChunker(maxWords int) *WordChunker {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &WordChunker{maxWords: maxWords}
}

// Split returns consecutive non-overlapping segments of up to maxWords words
// each, space-joined, in original order. Empty input yields no segments; the
// final segment may hold fewer than maxWords words.
func (c *WordChunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var out []string
	for start := 0; start < len(words); start += c.maxWords {
		end := start + c.maxWords
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[start:end], " "))
	}
	return out
}

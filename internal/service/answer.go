package service

import (
	"context"
	"fmt"
	"strings"

	"shoprag/internal/domain"
)

const excerptLen = 800

// NoResultsMessage is the fixed assistant reply when retrieval finds nothing.
const NoResultsMessage = "I couldn't find matching information in your indexed data. Try running ingestion or ask a different question."

// CompletionClient is the answerer's view of the LLM endpoint.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Answerer builds a grounding prompt from retrieved hits and forwards it to
// the chat-completion endpoint.
type Answerer struct {
	llm    CompletionClient
	system string
}

func NewAnswerer(client CompletionClient, systemPrompt string) *Answerer {
	return &Answerer{llm: client, system: systemPrompt}
}

// Answer returns generated text grounded in the given hits. Errors propagate
// to the caller, which substitutes a degraded answer.
func (a *Answerer) Answer(ctx context.Context, question string, hits []domain.SearchHit) (string, error) {
	return a.llm.Complete(ctx, a.system, BuildPrompt(question, hits))
}

// BuildPrompt embeds each hit's score, excerpt, title and source locator,
// followed by the user's question.
func BuildPrompt(question string, hits []domain.SearchHit) string {
	var b strings.Builder
	b.WriteString("You are an assistant. Use the passages below (with sources) to answer the user's question concisely and cite sources.\n\n")
	b.WriteString(strings.Join(hitBlocks(hits), "\n\n---\n\n"))
	fmt.Fprintf(&b, "\n\nQuestion: %s\n\nAnswer:", question)
	return b.String()
}

// DegradedAnswer is the substitute reply when generation fails: an apology
// plus the top retrieved excerpts.
func DegradedAnswer(hits []domain.SearchHit) string {
	blocks := hitBlocks(hits)
	if len(blocks) > 3 {
		blocks = blocks[:3]
	}
	return "Sorry, I couldn't generate an answer right now (LLM error). I can still show the top matched excerpts:\n\n" +
		strings.Join(blocks, "\n\n")
}

func hitBlocks(hits []domain.SearchHit) []string {
	blocks := make([]string, 0, len(hits))
	for i, h := range hits {
		blocks = append(blocks, fmt.Sprintf("Result %d (score %.2f)\n%s\nSource: %s - %s",
			i+1, h.Score, Excerpt(h.Text, excerptLen), h.Title, h.SourceURL))
	}
	return blocks
}

// Excerpt returns the first n characters of text with newlines flattened.
func Excerpt(text string, n int) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	runes := []rune(flat)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"shoprag/internal/domain"
	"shoprag/internal/store"
)

// Retriever answers queries from the chunk store, delegating ranking to the
// store's full-text search and degrading to local term-count scoring when
// that search is unavailable.
type Retriever struct {
	store       store.ChunkStore
	sampleLimit int
}

func NewRetriever(st store.ChunkStore, sampleLimit int) *Retriever {
	if sampleLimit <= 0 {
		sampleLimit = 500
	}
	return &Retriever{store: st, sampleLimit: sampleLimit}
}

// Retrieve returns up to k hits for the query. A blank query returns nothing
// without touching the store. A failed search request falls back to scoring a
// bounded sample of chunks in process.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	hits, err := r.store.Search(ctx, query, k)
	if err != nil {
		return r.fallback(ctx, query, k)
	}
	return hits, nil
}

// fallback scores each sampled chunk by summed literal occurrence counts of
// the lowercased query terms, drops zero scores and returns the top k.
func (r *Retriever) fallback(ctx context.Context, query string, k int) ([]domain.SearchHit, error) {
	chunks, err := r.store.Sample(ctx, r.sampleLimit)
	if err != nil {
		return nil, fmt.Errorf("fallback sample: %w", err)
	}
	terms := strings.Fields(strings.ToLower(query))
	var scored []domain.SearchHit
	for _, ch := range chunks {
		text := strings.ToLower(ch.Text)
		score := 0
		for _, t := range terms {
			score += strings.Count(text, t)
		}
		if score == 0 {
			continue
		}
		scored = append(scored, domain.SearchHit{
			Score:     float64(score),
			Text:      ch.Text,
			Title:     ch.Title,
			SourceURL: ch.SourceURL,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Package ingest implements the full-refresh load: fetch every document from
// the shop, chunk it and replace the entire stored dataset.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"shoprag/internal/domain"
	"shoprag/internal/store"
)

// Pipeline orchestrates fetch, chunk and persist. Each run is a destructive
// full replace; there is no incremental mode.
type Pipeline struct {
	fetcher domain.Fetcher
	chunker domain.Chunker
	store   store.ChunkStore
	log     *zap.Logger
}

// Result summarizes a completed run.
type Result struct {
	Documents int
	Chunks    int
}

func New(fetcher domain.Fetcher, chunker domain.Chunker, st store.ChunkStore, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{fetcher: fetcher, chunker: chunker, store: st, log: log}
}

// Run executes one full refresh. It records start and completion in the
// store's status collection so the outcome is observable. A fetch that
// returns zero documents aborts before any document or chunk is touched.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	started := time.Now()
	_ = p.store.SetStatus(ctx, domain.IngestStatus{
		State:     domain.IngestRunning,
		StartedAt: started,
	})

	res, err := p.run(ctx)
	st := domain.IngestStatus{
		StartedAt:  started,
		FinishedAt: time.Now(),
		Documents:  res.Documents,
		Chunks:     res.Chunks,
	}
	if err != nil {
		st.State = domain.IngestFailed
		st.Error = err.Error()
	} else {
		st.State = domain.IngestDone
	}
	_ = p.store.SetStatus(ctx, st)
	return res, err
}

func (p *Pipeline) run(ctx context.Context) (Result, error) {
	p.log.Info("fetching documents from shop")
	docs, err := p.fetcher.FetchDocuments(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch documents: %w", err)
	}
	if len(docs) == 0 {
		p.log.Warn("no documents fetched, leaving store untouched")
		return Result{}, nil
	}
	p.log.Info("fetched documents", zap.Int("count", len(docs)))

	chunks := BuildChunks(docs, p.chunker)
	p.log.Info("built chunks", zap.Int("count", len(chunks)))

	if err := p.store.ReplaceAll(ctx, docs, chunks); err != nil {
		return Result{Documents: len(docs)}, fmt.Errorf("replace dataset: %w", err)
	}
	p.log.Info("ingest complete",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)))
	return Result{Documents: len(docs), Chunks: len(chunks)}, nil
}

// BuildChunks derives chunk records from documents, assigning contiguous
// chunk ids starting at 0 across the whole batch. A document with no body
// text yields exactly one chunk carrying its title, so every document stays
// retrievable.
func BuildChunks(docs []domain.Document, ch domain.Chunker) []domain.Chunk {
	var chunks []domain.Chunk
	next := 0
	for _, d := range docs {
		parts := ch.Split(d.BodyText)
		if len(parts) == 0 {
			parts = []string{d.Title}
		}
		for _, part := range parts {
			chunks = append(chunks, domain.Chunk{
				Type:      d.Type,
				Title:     d.Title,
				SourceURL: d.SourceURL,
				Text:      part,
				ShopID:    d.ShopID,
				ChunkID:   next,
			})
			next++
		}
	}
	return chunks
}

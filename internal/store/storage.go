package store

import (
	"context"
	"errors"

	"shoprag/internal/domain"
)

// ErrSearchUnavailable signals that the store has no usable full-text search
// index. Callers are expected to degrade to local fallback scoring.
var ErrSearchUnavailable = errors.New("full-text search unavailable")

// ChunkStore is the sole long-lived store: documents, chunks and ingest
// status records.
type ChunkStore interface {
	// ReplaceAll deletes every existing document and chunk record and bulk
	// inserts the given batch. This is a destructive full replace with no
	// transaction spanning the delete and the inserts.
	ReplaceAll(ctx context.Context, docs []domain.Document, chunks []domain.Chunk) error
	// InsertChunks appends chunks without touching existing records. Used by
	// the single-file upload path.
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error
	// Search runs a full-text query over the text and title fields, sorted by
	// descending relevance, limited to k hits.
	Search(ctx context.Context, query string, k int) ([]domain.SearchHit, error)
	// Sample loads up to limit chunks with no particular order guarantee, for
	// fallback scoring.
	Sample(ctx context.Context, limit int) ([]domain.Chunk, error)
	// Recent returns the newest n chunk records.
	Recent(ctx context.Context, n int) ([]domain.Chunk, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	SetStatus(ctx context.Context, st domain.IngestStatus) error
	LastStatus(ctx context.Context) (*domain.IngestStatus, error)
}

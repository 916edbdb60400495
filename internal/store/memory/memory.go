// Package memory implements the chunk store in process memory. It carries no
// full-text engine: Search always reports ErrSearchUnavailable, which
// exercises the same fallback path a missing search index does.
package memory

import (
	"context"
	"sync"

	"shoprag/internal/domain"
	"shoprag/internal/store"
)

var _ store.ChunkStore = (*Store)(nil)

// Store is a mutex-guarded slice-backed chunk store.
type Store struct {
	mu     sync.RWMutex
	docs   []domain.Document
	chunks []domain.Chunk
	status *domain.IngestStatus
}

func NewStore() *Store { return &Store{} }

func (s *Store) ReplaceAll(_ context.Context, docs []domain.Document, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append([]domain.Document(nil), docs...)
	s.chunks = append([]domain.Chunk(nil), chunks...)
	return nil
}

func (s *Store) InsertChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *Store) Search(context.Context, string, int) ([]domain.SearchHit, error) {
	return nil, store.ErrSearchUnavailable
}

func (s *Store) Sample(_ context.Context, limit int) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit > len(s.chunks) {
		limit = len(s.chunks)
	}
	return append([]domain.Chunk(nil), s.chunks[:limit]...), nil
}

func (s *Store) Recent(_ context.Context, n int) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.chunks) {
		n = len(s.chunks)
	}
	out := make([]domain.Chunk, 0, n)
	for i := len(s.chunks) - 1; i >= len(s.chunks)-n; i-- {
		out = append(out, s.chunks[i])
	}
	return out, nil
}

func (s *Store) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.chunks)), nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) SetStatus(_ context.Context, st domain.IngestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = &st
	return nil
}

func (s *Store) LastStatus(context.Context) (*domain.IngestStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status == nil {
		return nil, nil
	}
	st := *s.status
	return &st, nil
}

// Documents returns a copy of the stored document records. Test helper.
func (s *Store) Documents() []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Document(nil), s.docs...)
}

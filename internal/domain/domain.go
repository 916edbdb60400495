package domain

import (
	"context"
	"errors"
	"time"
)

// Document types stored by the ingest pipeline.
const (
	TypeProduct = "product"
	TypePolicy  = "policy"
	TypeUpload  = "upload"
)

// ErrMissingConfig indicates required configuration (connection string,
// credentials) is absent.
var ErrMissingConfig = errors.New("required configuration missing")

// Document is a normalized record fetched from the shop. It is immutable once
// built and replaced wholesale on the next ingest run.
type Document struct {
	Type      string `bson:"type"`
	ShopID    string `bson:"shop_id"`
	SourceURL string `bson:"source_url"`
	Title     string `bson:"title"`
	BodyText  string `bson:"body_text"`
}

// Chunk is a bounded-length segment of a document's text, the unit indexed
// and retrieved. ChunkID is assigned contiguously from 0 within one ingest run.
type Chunk struct {
	Type      string `bson:"type"`
	Title     string `bson:"title"`
	SourceURL string `bson:"source_url,omitempty"`
	Text      string `bson:"text"`
	ShopID    string `bson:"shop_id,omitempty"`
	ChunkID   int    `bson:"chunk_id"`
}

// SearchHit is a transient per-query result; it is never persisted.
type SearchHit struct {
	Score      float64
	Text       string
	Title      string
	SourceURL  string
	Highlights []string
}

// Roles for conversation messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in the session transcript. The transcript lives and
// dies with the interactive session.
type Message struct {
	Role string
	Text string
	At   time.Time
}

// Ingest run states recorded in the store.
const (
	IngestRunning = "running"
	IngestDone    = "done"
	IngestFailed  = "failed"
)

// IngestStatus is the observable completion signal of an ingest run, written
// to the store on start and on finish/failure.
type IngestStatus struct {
	State      string    `bson:"state"`
	StartedAt  time.Time `bson:"started_at"`
	FinishedAt time.Time `bson:"finished_at,omitempty"`
	Documents  int       `bson:"documents"`
	Chunks     int       `bson:"chunks"`
	Error      string    `bson:"error,omitempty"`
}

// Fetcher retrieves catalog and policy content from the upstream shop.
type Fetcher interface {
	FetchDocuments(ctx context.Context) ([]Document, error)
}

// Chunker splits text into ordered word-bounded segments.
type Chunker interface {
	Split(text string) []string
}

// Package mongo implements the chunk store on a MongoDB database, using an
// Atlas Search index for full-text retrieval when one is available.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shoprag/internal/domain"
	"shoprag/internal/store"
)

// Config holds connection details for the chunk store.
type Config struct {
	URI              string
	Database         string
	ChunksCollection string
	DocsCollection   string
	StatusCollection string
	SearchIndex      string
	Timeout          time.Duration
}

var _ store.ChunkStore = (*Store)(nil)

// Store is a MongoDB-backed chunk store.
type Store struct {
	client *mongo.Client
	chunks *mongo.Collection
	docs   *mongo.Collection
	status *mongo.Collection
	index  string
}

// Connect builds a client with a bounded server selection timeout and returns
// a ready Store. It does not ping; use Ping to probe connectivity.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("%w: store connection string is not set", domain.ErrMissingConfig)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}
	db := client.Database(cfg.Database)
	return &Store{
		client: client,
		chunks: db.Collection(cfg.ChunksCollection),
		docs:   db.Collection(cfg.DocsCollection),
		status: db.Collection(cfg.StatusCollection),
		index:  cfg.SearchIndex,
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// ReplaceAll performs the destructive full refresh: delete both collections,
// then bulk insert. A crash in between can leave the store empty or partially
// populated; the ingest status record is the signal for that window.
func (s *Store) ReplaceAll(ctx context.Context, docs []domain.Document, chunks []domain.Chunk) error {
	if _, err := s.docs.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	if _, err := s.chunks.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	docRows := make([]interface{}, len(docs))
	for i := range docs {
		docRows[i] = docs[i]
	}
	if _, err := s.docs.InsertMany(ctx, docRows); err != nil {
		return fmt.Errorf("insert documents: %w", err)
	}
	return s.InsertChunks(ctx, chunks)
}

func (s *Store) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	rows := make([]interface{}, len(chunks))
	for i := range chunks {
		rows[i] = chunks[i]
	}
	if _, err := s.chunks.InsertMany(ctx, rows); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}
	return nil
}

type hitRow struct {
	Text       string  `bson:"text"`
	Title      string  `bson:"title"`
	SourceURL  string  `bson:"source_url"`
	Score      float64 `bson:"score"`
	Highlights []struct {
		Texts []struct {
			Value string `bson:"value"`
			Type  string `bson:"type"`
		} `bson:"texts"`
	} `bson:"highlights"`
}

// Search issues a $search aggregation against the configured index over the
// text and title fields, projecting relevance score and highlights. Any
// failure (index missing, engine unavailable) is reported as
// ErrSearchUnavailable so callers can fall back to local scoring.
func (s *Store) Search(ctx context.Context, query string, k int) ([]domain.SearchHit, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$search", Value: bson.D{
			{Key: "index", Value: s.index},
			{Key: "text", Value: bson.D{
				{Key: "query", Value: query},
				{Key: "path", Value: bson.A{"text", "title"}},
			}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "text", Value: 1},
			{Key: "title", Value: 1},
			{Key: "source_url", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "searchScore"}}},
			{Key: "highlights", Value: bson.D{{Key: "$meta", Value: "searchHighlights"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "score", Value: -1}}}},
		bson.D{{Key: "$limit", Value: k}},
	}
	cur, err := s.chunks.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrSearchUnavailable, err)
	}
	defer cur.Close(ctx)
	var hits []domain.SearchHit
	for cur.Next(ctx) {
		var row hitRow
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode hit: %w", err)
		}
		hit := domain.SearchHit{
			Score:     row.Score,
			Text:      row.Text,
			Title:     row.Title,
			SourceURL: row.SourceURL,
		}
		for _, h := range row.Highlights {
			for _, t := range h.Texts {
				if t.Type == "hit" {
					hit.Highlights = append(hit.Highlights, t.Value)
				}
			}
		}
		hits = append(hits, hit)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrSearchUnavailable, err)
	}
	return hits, nil
}

func (s *Store) Sample(ctx context.Context, limit int) ([]domain.Chunk, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetProjection(bson.D{
			{Key: "text", Value: 1},
			{Key: "title", Value: 1},
			{Key: "source_url", Value: 1},
		})
	cur, err := s.chunks.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("sample chunks: %w", err)
	}
	defer cur.Close(ctx)
	var out []domain.Chunk
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("sample chunks: %w", err)
	}
	return out, nil
}

func (s *Store) Recent(ctx context.Context, n int) ([]domain.Chunk, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(n))
	cur, err := s.chunks.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("recent chunks: %w", err)
	}
	defer cur.Close(ctx)
	var out []domain.Chunk
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("recent chunks: %w", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.chunks.CountDocuments(ctx, bson.D{})
}

const statusDocID = "last"

func (s *Store) SetStatus(ctx context.Context, st domain.IngestStatus) error {
	_, err := s.status.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: statusDocID}},
		bson.D{{Key: "$set", Value: st}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("write ingest status: %w", err)
	}
	return nil
}

func (s *Store) LastStatus(ctx context.Context) (*domain.IngestStatus, error) {
	var st domain.IngestStatus
	err := s.status.FindOne(ctx, bson.D{{Key: "_id", Value: statusDocID}}).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ingest status: %w", err)
	}
	return &st, nil
}

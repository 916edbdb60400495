// Package upload indexes a single operator-supplied file with the same
// chunker the catalog ingest uses. Uploads are additive: they never disturb
// the ingested dataset.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"shoprag/internal/domain"
	"shoprag/internal/store"
)

// Indexer parses one document file into text and inserts its chunks.
type Indexer struct {
	store   store.ChunkStore
	chunker domain.Chunker
}

func NewIndexer(st store.ChunkStore, ch domain.Chunker) *Indexer {
	return &Indexer{store: st, chunker: ch}
}

// IndexFile extracts text from the file at path (PDF or plain text), chunks
// it and inserts the chunk records. It returns the number of chunks inserted;
// a file with no textual content inserts nothing.
func (ix *Indexer) IndexFile(ctx context.Context, path string) (int, error) {
	text, err := extractText(path)
	if err != nil {
		return 0, err
	}
	parts := ix.chunker.Split(text)
	if len(parts) == 0 {
		return 0, nil
	}
	docID := strconv.FormatInt(time.Now().Unix(), 10)
	name := filepath.Base(path)
	chunks := make([]domain.Chunk, 0, len(parts))
	for i, part := range parts {
		chunks = append(chunks, domain.Chunk{
			Type:    domain.TypeUpload,
			Title:   name,
			Text:    part,
			ShopID:  docID,
			ChunkID: i,
		})
	}
	if err := ix.store.InsertChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("index %s: %w", name, err)
	}
	return len(chunks), nil
}

func extractText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extractPDF(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	var buf bytes.Buffer
	body, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

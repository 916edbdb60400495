package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoprag/internal/chunker"
	"shoprag/internal/domain"
	"shoprag/internal/service"
	"shoprag/internal/store/memory"
)

type fakeFetcher struct {
	docs []domain.Document
	err  error
}

func (f *fakeFetcher) FetchDocuments(context.Context) ([]domain.Document, error) {
	return f.docs, f.err
}

func wordText(prefix string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(parts, " ")
}

func TestRun_ZeroDocumentsLeavesStoreUntouched(t *testing.T) {
	st := memory.NewStore()
	existing := []domain.Chunk{{Text: "keep me", ChunkID: 0}}
	require.NoError(t, st.InsertChunks(context.Background(), existing))

	p := New(&fakeFetcher{}, chunker.NewWordChunker(280), st, nil)
	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Documents)
	assert.Zero(t, res.Chunks)

	count, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRun_FetchErrorRecordedAsFailure(t *testing.T) {
	st := memory.NewStore()
	p := New(&fakeFetcher{err: errors.New("upstream 500")}, chunker.NewWordChunker(280), st, nil)

	_, err := p.Run(context.Background())
	require.Error(t, err)

	status, err := st.LastStatus(context.Background())
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, domain.IngestFailed, status.State)
	assert.Contains(t, status.Error, "upstream 500")
}

func TestRun_ContiguousChunkIDs(t *testing.T) {
	docs := []domain.Document{
		{Type: domain.TypeProduct, Title: "A", BodyText: wordText("a", 12)},
		{Type: domain.TypeProduct, Title: "B", BodyText: wordText("b", 7)},
		{Type: domain.TypePolicy, Title: "C", BodyText: wordText("c", 5)},
	}
	st := memory.NewStore()
	p := New(&fakeFetcher{docs: docs}, chunker.NewWordChunker(5), st, nil)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Documents)
	// 12 words -> 3 chunks, 7 -> 2, 5 -> 1
	assert.Equal(t, 6, res.Chunks)

	chunks, err := st.Sample(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, chunks, 6)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.ChunkID)
		assert.NotEmpty(t, ch.Text)
	}

	status, err := st.LastStatus(context.Background())
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, domain.IngestDone, status.State)
	assert.Equal(t, 6, status.Chunks)
}

func TestBuildChunks_TitleFallbackForEmptyBody(t *testing.T) {
	docs := []domain.Document{
		{Type: domain.TypeProduct, Title: "Gift Card", SourceURL: "/products/gift-card", BodyText: ""},
	}
	chunks := BuildChunks(docs, chunker.NewWordChunker(280))
	require.Len(t, chunks, 1)
	assert.Equal(t, "Gift Card", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].ChunkID)
}

func TestRun_ReplacesPreviousGeneration(t *testing.T) {
	st := memory.NewStore()
	require.NoError(t, st.InsertChunks(context.Background(), []domain.Chunk{{Text: "stale"}}))

	docs := []domain.Document{{Type: domain.TypeProduct, Title: "Fresh", BodyText: "fresh words"}}
	p := New(&fakeFetcher{docs: docs}, chunker.NewWordChunker(280), st, nil)
	_, err := p.Run(context.Background())
	require.NoError(t, err)

	chunks, err := st.Sample(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "fresh words", chunks[0].Text)
}

// End-to-end: two products of 300 and 50 words chunked at 280 yield chunks
// 0,1,2, and a query matching only the 50-word product's text retrieves that
// chunk as the top hit (via fallback scoring, the memory store has no index).
func TestIngestThenRetrieve(t *testing.T) {
	docs := []domain.Document{
		{Type: domain.TypeProduct, Title: "Big", BodyText: wordText("big", 300)},
		{Type: domain.TypeProduct, Title: "Small", BodyText: wordText("tiny", 49) + " waterproof"},
	}
	st := memory.NewStore()
	p := New(&fakeFetcher{docs: docs}, chunker.NewWordChunker(280), st, nil)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Chunks)

	chunks, err := st.Sample(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{chunks[0].ChunkID, chunks[1].ChunkID, chunks[2].ChunkID})

	r := service.NewRetriever(st, 500)
	hits, err := r.Retrieve(context.Background(), "waterproof", 6)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Small", hits[0].Title)
}

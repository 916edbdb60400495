package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoprag/internal/domain"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, 512, req.MaxTokens)

		w.Write([]byte(`{"choices":[{"message":{"content":"grounded answer"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model", MaxTokens: 512})
	got, err := c.Complete(context.Background(), "be helpful", "what is the refund window?")
	require.NoError(t, err)
	assert.Equal(t, "grounded answer", got)
}

func TestComplete_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Model: "m"})
	_, err := c.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestComplete_MissingCredentials(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://localhost:1"})
	_, err := c.Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, domain.ErrMissingConfig)
}

func TestComplete_UnrecognizedShapeReturnsRaw(t *testing.T) {
	raw := `{"something":"else"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(raw))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Model: "m"})
	got, err := c.Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoprag/internal/domain"
)

type fakeLLM struct {
	system string
	user   string
	reply  string
	err    error
}

func (f *fakeLLM) Complete(_ context.Context, system, user string) (string, error) {
	f.system = system
	f.user = user
	return f.reply, f.err
}

func TestBuildPrompt(t *testing.T) {
	hits := []domain.SearchHit{
		{Score: 2.5, Text: "line one\nline two", Title: "Refund Policy", SourceURL: "/policies/refund-policy"},
	}
	prompt := BuildPrompt("what is the refund window?", hits)

	assert.Contains(t, prompt, "Result 1 (score 2.50)")
	assert.Contains(t, prompt, "line one line two")
	assert.Contains(t, prompt, "Source: Refund Policy - /policies/refund-policy")
	assert.Contains(t, prompt, "Question: what is the refund window?")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))
}

func TestBuildPrompt_TruncatesExcerpt(t *testing.T) {
	long := strings.Repeat("a", 2000)
	prompt := BuildPrompt("q", []domain.SearchHit{{Text: long}})
	assert.Contains(t, prompt, strings.Repeat("a", 800))
	assert.NotContains(t, prompt, strings.Repeat("a", 801))
}

func TestAnswer_ForwardsPromptAndSystem(t *testing.T) {
	f := &fakeLLM{reply: "answer text"}
	a := NewAnswerer(f, "be concise")

	got, err := a.Answer(context.Background(), "question?", []domain.SearchHit{{Text: "passage"}})
	require.NoError(t, err)
	assert.Equal(t, "answer text", got)
	assert.Equal(t, "be concise", f.system)
	assert.Contains(t, f.user, "passage")
	assert.Contains(t, f.user, "question?")
}

func TestAnswer_PropagatesError(t *testing.T) {
	f := &fakeLLM{err: errors.New("endpoint down")}
	a := NewAnswerer(f, "s")
	_, err := a.Answer(context.Background(), "q", nil)
	assert.Error(t, err)
}

func TestDegradedAnswer_TopThreeExcerpts(t *testing.T) {
	hits := []domain.SearchHit{
		{Score: 4, Text: "first"},
		{Score: 3, Text: "second"},
		{Score: 2, Text: "third"},
		{Score: 1, Text: "fourth"},
	}
	out := DegradedAnswer(hits)
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.Contains(t, out, "third")
	assert.NotContains(t, out, "fourth")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "ab cd", Excerpt("ab\ncd", 10))
	assert.Equal(t, "abc", Excerpt("abcdef", 3))
}

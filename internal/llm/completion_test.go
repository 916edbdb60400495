package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCompletion_ChatShape(t *testing.T) {
	c := ParseCompletion([]byte(`{"choices":[{"message":{"content":"X"}}]}`))
	assert.Equal(t, KindChat, c.Kind)
	assert.Equal(t, "X", c.Text())
}

func TestParseCompletion_LegacyShape(t *testing.T) {
	c := ParseCompletion([]byte(`{"choices":[{"text":"Y"}]}`))
	assert.Equal(t, KindLegacy, c.Kind)
	assert.Equal(t, "Y", c.Text())
}

func TestParseCompletion_UnrecognizedShape(t *testing.T) {
	raw := `{"error":{"message":"model overloaded"}}`
	c := ParseCompletion([]byte(raw))
	assert.Equal(t, KindRaw, c.Kind)
	assert.Equal(t, raw, c.Text())
}

func TestParseCompletion_EmptyChoices(t *testing.T) {
	raw := `{"choices":[]}`
	c := ParseCompletion([]byte(raw))
	assert.Equal(t, KindRaw, c.Kind)
	assert.Equal(t, raw, c.Text())
}

func TestParseCompletion_MalformedJSON(t *testing.T) {
	c := ParseCompletion([]byte("not json"))
	assert.Equal(t, KindRaw, c.Kind)
	assert.Equal(t, "not json", c.Text())
}

func TestParseCompletion_ChatWinsOverLegacy(t *testing.T) {
	c := ParseCompletion([]byte(`{"choices":[{"message":{"content":"X"},"text":"Y"}]}`))
	assert.Equal(t, KindChat, c.Kind)
	assert.Equal(t, "X", c.Text())
}

package llm

import "encoding/json"

// Kind identifies which of the known response shapes a payload matched.
type Kind int

const (
	// KindChat is the modern shape: choices[0].message.content.
	KindChat Kind = iota
	// KindLegacy is the older shape: choices[0].text.
	KindLegacy
	// KindRaw covers everything else; the raw payload is kept as a
	// diagnostic.
	KindRaw
)

// Completion is the parsed endpoint response, an explicit variant instead of
// sequential optional-field probing.
type Completion struct {
	Kind    Kind
	Content string
	Raw     json.RawMessage
}

// Text returns the generated text for recognized shapes and the raw payload
// for unrecognized ones.
func (c Completion) Text() string {
	switch c.Kind {
	case KindChat, KindLegacy:
		return c.Content
	default:
		return string(c.Raw)
	}
}

// ParseCompletion classifies a chat-completions payload into one of the three
// known shapes. It never fails: malformed JSON lands in KindRaw.
func ParseCompletion(data []byte) Completion {
	var resp struct {
		Choices []struct {
			Message *struct {
				Content string `json:"content"`
			} `json:"message"`
			Text string `json:"text"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &resp); err == nil && len(resp.Choices) > 0 {
		first := resp.Choices[0]
		if first.Message != nil && first.Message.Content != "" {
			return Completion{Kind: KindChat, Content: first.Message.Content, Raw: data}
		}
		if first.Text != "" {
			return Completion{Kind: KindLegacy, Content: first.Text, Raw: data}
		}
	}
	return Completion{Kind: KindRaw, Raw: data}
}

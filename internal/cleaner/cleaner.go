// Package cleaner turns raw HTML body content into plain text suitable for
// chunking and indexing.
package cleaner

import (
	"regexp"
	"strings"
)

var tagRe = regexp.MustCompile(`<[^<]+?>`)

var nbspEntities = []string{"&nbsp;", "&#160;", "&#xa0;"}

// Clean replaces tag-like substrings with a single space, replaces
// non-breaking-space entities with a space and trims the result. An empty
// input yields an empty string.
func Clean(raw string) string {
	out := tagRe.ReplaceAllString(raw, " ")
	for _, e := range nbspEntities {
		out = strings.ReplaceAll(out, e, " ")
	}
	return strings.TrimSpace(out)
}

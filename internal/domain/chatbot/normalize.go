package chatbot

import (
	"strings"
	"unicode"
)

// normalizeQuery canonicalizes a query for trending aggregation: lowercase,
// punctuation treated as whitespace, runs of whitespace collapsed.
func normalizeQuery(q string) string {
	lowered := strings.ToLower(strings.TrimSpace(q))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	normalized := strings.TrimSpace(builder.String())
	return strings.Join(strings.Fields(normalized), " ")
}

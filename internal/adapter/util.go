package adapter

import (
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]+>`)

// summaryLength is the character budget of a listing summary.
const summaryLength = 220

const ellipsis = "…"

// stripTags removes every markup tag and trims surrounding whitespace.
// Entities and inner whitespace are left as the provider sent them.
func stripTags(content string) string {
	return strings.TrimSpace(htmlTagRegex.ReplaceAllString(content, ""))
}

// summarize cuts text to summaryLength characters and appends an ellipsis.
// The cut ignores word boundaries.
func summarize(text string) string {
	runes := []rune(text)
	if len(runes) > summaryLength {
		runes = runes[:summaryLength]
	}
	return string(runes) + ellipsis
}

package ai

import "strings"

var specialChars = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", // smart single quotes
	"\u201c", `"`, "\u201d", `"`, // smart double quotes
	"\u2013", "-", "\u2014", "-", // en and em dash
	"\u2026", "...",
	"\u00a0", " ", // non-breaking space
)

// CleanSpecialChars replaces typographic punctuation with plain ASCII so
// exported documents open cleanly in any editor.
func CleanSpecialChars(s string) string {
	return specialChars.Replace(s)
}

// Package query splits a free-text job search phrase into keyword and
// location terms so "Technology Director London" searches for
// "Technology Director" in "London".
package query

import (
	"net/url"
	"strings"
)

// DefaultLocation is used when the phrase names no known location.
const DefaultLocation = "uk"

// locationWords is the closed set of tokens routed to the location filter.
var locationWords = map[string]struct{}{
	"uk":         {},
	"london":     {},
	"manchester": {},
	"birmingham": {},
	"leeds":      {},
	"edinburgh":  {},
	"bristol":    {},
	"remote":     {},
	"hybrid":     {},
	"england":    {},
	"scotland":   {},
	"wales":      {},
}

// Terms is a normalized search phrase.
type Terms struct {
	Keywords  []string
	Locations []string // empty when the phrase named no location
}

// IsLocation reports whether token is a known location word.
// Matching is whole-token and case-insensitive.
func IsLocation(token string) bool {
	_, ok := locationWords[strings.ToLower(token)]
	return ok
}

// Normalize splits raw on whitespace and classifies each token.
// When every token is a location word the keyword list falls back to all
// tokens rather than becoming empty.
func Normalize(raw string) Terms {
	tokens := strings.Fields(raw)

	var t Terms
	for _, tok := range tokens {
		if IsLocation(tok) {
			t.Locations = append(t.Locations, tok)
		} else {
			t.Keywords = append(t.Keywords, tok)
		}
	}
	if len(t.Keywords) == 0 {
		t.Keywords = tokens
	}
	return t
}

// What is the keyword phrase.
func (t Terms) What() string {
	return strings.Join(t.Keywords, " ")
}

// Where is the location phrase, DefaultLocation when none was given.
func (t Terms) Where() string {
	if len(t.Locations) == 0 {
		return DefaultLocation
	}
	return strings.Join(t.Locations, " ")
}

// EncodedWhat is What percent-encoded as a URI component.
func (t Terms) EncodedWhat() string {
	return Escape(t.What())
}

// EncodedWhere is Where percent-encoded as a URI component.
func (t Terms) EncodedWhere() string {
	return Escape(t.Where())
}

// Escape percent-encodes s for use as a query value, encoding spaces as %20.
func Escape(s string) string {
	// QueryEscape writes a literal '+' as %2B, so every '+' left is a space.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

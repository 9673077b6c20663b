package model

import "context"

// Listing is one normalized job posting returned by the search provider.
// Listings are immutable once returned.
type Listing struct {
	ID          int    // position within the response that produced it, not an identity
	Key         string // content-derived identity (title, company, url)
	Title       string
	Company     string
	Location    string
	SalaryRaw   int    // advertised lower bound, 0 if unknown; used for sorting only
	Salary      string // display string, e.g. "£80k – £120k"
	Type        string // Full-time, Part-time, Contract or Permanent
	Description string // tag-stripped full text
	Summary     string // first 220 characters of Description plus an ellipsis
	URL         string // external apply link, may be empty
}

// SearchCredentials are the opaque Adzuna app credentials.
type SearchCredentials struct {
	AppID  string
	AppKey string
}

// Complete reports whether both halves of the credential pair are present.
func (c SearchCredentials) Complete() bool {
	return c.AppID != "" && c.AppKey != ""
}

// ListingSearcher runs a free-text search against a listing provider.
type ListingSearcher interface {
	Search(ctx context.Context, creds SearchCredentials, query string) ([]Listing, error)
}

// ListingFilter decides whether a listing should be displayed.
type ListingFilter interface {
	Match(l Listing) bool
}

// KeyValueStore persists raw JSON values under fixed keys.
// Get returns ok=false when the key has never been written.
type KeyValueStore interface {
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
}

package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amishk599/jobdesk/internal/ai"
	"github.com/amishk599/jobdesk/internal/model"
	"github.com/amishk599/jobdesk/internal/store"
	"github.com/amishk599/jobdesk/internal/tracker"
)

// Credentials are the three opaque keys the session needs.
type Credentials struct {
	AnthropicAPIKey string
	AdzunaAppID     string
	AdzunaAppKey    string
}

// merge returns c with empty fields taken from fallback.
func (c Credentials) merge(fallback Credentials) Credentials {
	if c.AnthropicAPIKey == "" {
		c.AnthropicAPIKey = fallback.AnthropicAPIKey
	}
	if c.AdzunaAppID == "" {
		c.AdzunaAppID = fallback.AdzunaAppID
	}
	if c.AdzunaAppKey == "" {
		c.AdzunaAppKey = fallback.AdzunaAppKey
	}
	return c
}

// Search returns the Adzuna half of the credentials.
func (c Credentials) Search() model.SearchCredentials {
	return model.SearchCredentials{AppID: c.AdzunaAppID, AppKey: c.AdzunaAppKey}
}

// DocumentWriter generates CVs and cover letters.
type DocumentWriter interface {
	TailorCV(ctx context.Context, apiKey string, req ai.CVRequest) (ai.TailoredCV, error)
	WriteCoverLetter(ctx context.Context, apiKey string, req ai.CoverLetterRequest) (string, error)
}

// Options wires a Session's collaborators.
type Options struct {
	Searcher model.ListingSearcher
	Writer   DocumentWriter
	Profile  ai.Profile

	// Overrides take precedence over stored credentials, field by field.
	// They come from config or environment and are never persisted.
	Overrides Credentials

	Logger *slog.Logger
	Clock  func() time.Time
}

// Session is the single owner of persisted state for one process: the
// stored credentials and the application tracker. Components receive it
// instead of reading storage themselves.
type Session struct {
	kv        model.KeyValueStore
	searcher  model.ListingSearcher
	writer    DocumentWriter
	profile   ai.Profile
	stored    Credentials
	overrides Credentials
	tracker   *tracker.Tracker
	logger    *slog.Logger
}

// Open loads credentials and applications from kv.
func Open(kv model.KeyValueStore, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	trOpts := []tracker.Option{tracker.WithLogger(logger)}
	if opts.Clock != nil {
		trOpts = append(trOpts, tracker.WithClock(opts.Clock))
	}

	s := &Session{
		kv:       kv,
		searcher: opts.Searcher,
		writer:   opts.Writer,
		profile:  opts.Profile.Merge(ai.DefaultProfile()),
		stored: Credentials{
			AnthropicAPIKey: store.Load(kv, store.KeyAnthropicAPIKey, ""),
			AdzunaAppID:     store.Load(kv, store.KeyAdzunaAppID, ""),
			AdzunaAppKey:    store.Load(kv, store.KeyAdzunaAppKey, ""),
		},
		overrides: opts.Overrides,
		tracker:   tracker.New(kv, trOpts...),
		logger:    logger,
	}
	return s
}

// Credentials returns the effective credentials: overrides first, then
// stored values.
func (s *Session) Credentials() Credentials {
	return s.overrides.merge(s.stored)
}

// StoredCredentials returns only what is persisted.
func (s *Session) StoredCredentials() Credentials {
	return s.stored
}

// SetCredentials persists all three keys. Any write failure is returned and
// the in-memory credentials are left as they were.
func (s *Session) SetCredentials(c Credentials) error {
	writes := []struct {
		key, value string
	}{
		{store.KeyAnthropicAPIKey, strings.TrimSpace(c.AnthropicAPIKey)},
		{store.KeyAdzunaAppID, strings.TrimSpace(c.AdzunaAppID)},
		{store.KeyAdzunaAppKey, strings.TrimSpace(c.AdzunaAppKey)},
	}
	for _, w := range writes {
		if err := store.Save(s.kv, w.key, w.value); err != nil {
			return fmt.Errorf("saving credentials: %w", err)
		}
	}
	s.stored = Credentials{
		AnthropicAPIKey: writes[0].value,
		AdzunaAppID:     writes[1].value,
		AdzunaAppKey:    writes[2].value,
	}
	s.logger.Info("credentials saved")
	return nil
}

// Profile returns the candidate profile used for every prompt.
func (s *Session) Profile() ai.Profile {
	return s.profile
}

// Tracker returns the application tracker.
func (s *Session) Tracker() *tracker.Tracker {
	return s.tracker
}

// Search runs a live listing search with the session's credentials.
// An empty result is reported as model.ErrNoResults.
func (s *Session) Search(ctx context.Context, query string) ([]model.Listing, error) {
	listings, err := s.searcher.Search(ctx, s.Credentials().Search(), query)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, model.ErrNoResults
	}
	return listings, nil
}

// TailorCV generates or refines a CV. The session profile fills any
// profile field the request leaves empty.
func (s *Session) TailorCV(ctx context.Context, req ai.CVRequest) (ai.TailoredCV, error) {
	req.Profile = req.Profile.Merge(s.profile)
	return s.writer.TailorCV(ctx, s.Credentials().AnthropicAPIKey, req)
}

// WriteCoverLetter generates a cover letter with the session profile.
func (s *Session) WriteCoverLetter(ctx context.Context, req ai.CoverLetterRequest) (string, error) {
	req.Profile = req.Profile.Merge(s.profile)
	return s.writer.WriteCoverLetter(ctx, s.Credentials().AnthropicAPIKey, req)
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	const visible = 4
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= visible {
		return strings.Repeat("•", len(secret))
	}
	return strings.Repeat("•", 8) + secret[len(secret)-visible:]
}

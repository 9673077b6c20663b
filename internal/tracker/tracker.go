package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/amishk599/jobdesk/internal/model"
	"github.com/amishk599/jobdesk/internal/store"
)

// DateLayout is the en-GB day/month/year layout used for DateAdded.
const DateLayout = "02/01/2006"

// ErrNotFound is returned when no application has the given id.
var ErrNotFound = errors.New("application not found")

// ManualEntry holds the fields of a manually added application.
type ManualEntry struct {
	Title    string
	Company  string
	Location string
	Salary   string
	URL      string
	Status   model.Status // empty means Applied
}

// Tracker is the ordered, persisted collection of tracked applications,
// newest first. Every mutation is written through to storage before it
// becomes visible; a failed write leaves the collection unchanged.
type Tracker struct {
	mu     sync.Mutex
	kv     model.KeyValueStore
	apps   []model.Application
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source used for ids and dates.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// New loads the collection stored in kv. A missing or corrupt value starts
// an empty tracker.
func New(kv model.KeyValueStore, opts ...Option) *Tracker {
	t := &Tracker{
		kv:     kv,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.apps = store.Load(kv, store.KeyApplications, []model.Application{})
	t.logger.Debug("loaded applications", "count", len(t.apps))
	return t
}

// List returns a copy of all applications, newest first.
func (t *Tracker) List() []model.Application {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.apps)
}

// Filter returns the applications with the given status, newest first.
func (t *Tracker) Filter(status model.Status) []model.Application {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []model.Application
	for _, a := range t.apps {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

// Counts returns the number of applications per status. Every status is
// present, zero included.
func (t *Tracker) Counts() map[model.Status]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	counts := make(map[model.Status]int, len(model.Statuses))
	for _, st := range model.Statuses {
		counts[st] = 0
	}
	for _, a := range t.apps {
		counts[a.Status]++
	}
	return counts
}

// Get returns the application with the given id.
func (t *Tracker) Get(id int64) (model.Application, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return model.Application{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return t.apps[i], nil
}

// IsSaved reports whether an application with the listing's title and
// company already exists.
func (t *Tracker) IsSaved(l model.Listing) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hasTitleCompany(l.Title, l.Company)
}

// AddFromListing saves a search result with status Saved. It is a no-op,
// returning added=false and the existing entry, when an application with
// the same title and company exists.
func (t *Tracker) AddFromListing(l model.Listing) (app model.Application, added bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, a := range t.apps {
		if a.Title == l.Title && a.Company == l.Company {
			return a, false, nil
		}
	}

	app = model.FromListing(l)
	app.Status = model.StatusSaved
	t.stamp(&app)

	if err := t.commit(slices.Insert(slices.Clone(t.apps), 0, app)); err != nil {
		return model.Application{}, false, err
	}
	t.logger.Info("saved listing", "id", app.ID, "title", app.Title, "company", app.Company)
	return app, true, nil
}

// AddManual prepends a manually entered application. Title and company are
// required; duplicates are allowed.
func (t *Tracker) AddManual(e ManualEntry) (model.Application, error) {
	if strings.TrimSpace(e.Title) == "" || strings.TrimSpace(e.Company) == "" {
		return model.Application{}, errors.New("title and company are required")
	}
	status := e.Status
	if status == "" {
		status = model.StatusApplied
	}
	if !status.Valid() {
		return model.Application{}, fmt.Errorf("invalid status %q", status)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	app := model.Application{
		Title:    e.Title,
		Company:  e.Company,
		Location: e.Location,
		Salary:   e.Salary,
		URL:      e.URL,
		Status:   status,
	}
	t.stamp(&app)

	if err := t.commit(slices.Insert(slices.Clone(t.apps), 0, app)); err != nil {
		return model.Application{}, err
	}
	t.logger.Info("added application", "id", app.ID, "title", app.Title, "company", app.Company)
	return app, nil
}

// UpdateStatus moves an application to any status.
func (t *Tracker) UpdateStatus(id int64, status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	return t.update(id, func(a *model.Application) { a.Status = status })
}

// UpdateNotes replaces an application's notes.
func (t *Tracker) UpdateNotes(id int64, notes string) error {
	return t.update(id, func(a *model.Application) { a.Notes = notes })
}

// Remove deletes an application unconditionally.
func (t *Tracker) Remove(id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err := t.commit(slices.Delete(slices.Clone(t.apps), i, i+1)); err != nil {
		return err
	}
	t.logger.Info("removed application", "id", id)
	return nil
}

func (t *Tracker) update(id int64, mutate func(*model.Application)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	next := slices.Clone(t.apps)
	mutate(&next[i])
	return t.commit(next)
}

// commit persists next and only then replaces the in-memory collection.
// Callers hold t.mu.
func (t *Tracker) commit(next []model.Application) error {
	if err := store.Save(t.kv, store.KeyApplications, next); err != nil {
		t.logger.Error("persisting applications failed", "error", err)
		return fmt.Errorf("persisting applications: %w", err)
	}
	t.apps = next
	return nil
}

// stamp assigns a unique millisecond id and today's date. Callers hold t.mu.
func (t *Tracker) stamp(a *model.Application) {
	now := t.now()
	id := now.UnixMilli()
	for _, existing := range t.apps {
		if existing.ID >= id {
			id = existing.ID + 1
		}
	}
	a.ID = id
	a.DateAdded = now.Format(DateLayout)
}

func (t *Tracker) indexOf(id int64) int {
	return slices.IndexFunc(t.apps, func(a model.Application) bool { return a.ID == id })
}

func (t *Tracker) hasTitleCompany(title, company string) bool {
	return slices.ContainsFunc(t.apps, func(a model.Application) bool {
		return a.Title == title && a.Company == company
	})
}

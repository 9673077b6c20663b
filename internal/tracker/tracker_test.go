package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobdesk/internal/model"
	"github.com/amishk599/jobdesk/internal/store"
)

// fixedClock returns the same instant on every call.
func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

var testNow = time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)

func newTestTracker(t *testing.T) (*Tracker, *store.MemoryStore) {
	t.Helper()
	kv := store.NewMemoryStore()
	return New(kv, WithClock(fixedClock(testNow))), kv
}

func testListing(title, company string) model.Listing {
	return model.Listing{
		Title:       title,
		Company:     company,
		Location:    "London",
		SalaryRaw:   90000,
		Salary:      "£90k+",
		Type:        "Permanent",
		Description: "Lead technology.",
		URL:         "https://example.com/" + title,
	}
}

func TestAddFromListing(t *testing.T) {
	tr, _ := newTestTracker(t)

	app, added, err := tr.AddFromListing(testListing("Technology Director", "Acme"))
	require.NoError(t, err)
	require.True(t, added)

	assert.Equal(t, testNow.UnixMilli(), app.ID)
	assert.Equal(t, model.StatusSaved, app.Status)
	assert.Equal(t, "09/03/2026", app.DateAdded)
	assert.Empty(t, app.Notes)
	assert.Equal(t, "£90k+", app.Salary)
	assert.Equal(t, "Lead technology.", app.Description)
}

func TestAddFromListing_DeduplicatesOnTitleAndCompany(t *testing.T) {
	tr, _ := newTestTracker(t)
	l := testListing("Technology Director", "Acme")

	first, added, err := tr.AddFromListing(l)
	require.NoError(t, err)
	require.True(t, added)

	l.URL = "https://elsewhere.example.com"
	again, added, err := tr.AddFromListing(l)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, tr.List(), 1)

	_, added, err = tr.AddFromListing(testListing("Technology Director", "Other Co"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Len(t, tr.List(), 2)
}

func TestAddManual_NotDeduplicated(t *testing.T) {
	tr, _ := newTestTracker(t)
	entry := ManualEntry{Title: "Programme Director", Company: "Beta"}

	a, err := tr.AddManual(entry)
	require.NoError(t, err)
	b, err := tr.AddManual(entry)
	require.NoError(t, err)

	assert.Len(t, tr.List(), 2)
	assert.NotEqual(t, a.ID, b.ID, "ids must stay unique within the same millisecond")
	assert.Equal(t, model.StatusApplied, a.Status)
}

func TestAddManual_Validation(t *testing.T) {
	tr, _ := newTestTracker(t)

	_, err := tr.AddManual(ManualEntry{Title: "Only a title"})
	assert.Error(t, err)

	_, err = tr.AddManual(ManualEntry{Title: "T", Company: "C", Status: "Ghosted"})
	assert.Error(t, err)

	assert.Empty(t, tr.List())
}

func TestNewestFirst(t *testing.T) {
	kv := store.NewMemoryStore()
	clock := testNow
	tr := New(kv, WithClock(func() time.Time { return clock }))

	_, _, err := tr.AddFromListing(testListing("First", "A"))
	require.NoError(t, err)
	clock = clock.Add(time.Hour)
	_, err = tr.AddManual(ManualEntry{Title: "Second", Company: "B", Status: model.StatusOffer})
	require.NoError(t, err)

	list := tr.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title)
	assert.Equal(t, "First", list[1].Title)
}

func TestUpdateStatus_AnyTransition(t *testing.T) {
	tr, _ := newTestTracker(t)
	app, _, err := tr.AddFromListing(testListing("VP Technology", "Gamma"))
	require.NoError(t, err)

	for _, st := range []model.Status{model.StatusOffer, model.StatusSaved, model.StatusInterviewing, model.StatusRejected} {
		require.NoError(t, tr.UpdateStatus(app.ID, st))
		got, err := tr.Get(app.ID)
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
	}

	assert.Error(t, tr.UpdateStatus(app.ID, "Ghosted"))
	assert.ErrorIs(t, tr.UpdateStatus(42, model.StatusApplied), ErrNotFound)
}

func TestUpdateNotesAndRemove(t *testing.T) {
	tr, _ := newTestTracker(t)
	app, _, err := tr.AddFromListing(testListing("Digital Director", "Delta"))
	require.NoError(t, err)

	require.NoError(t, tr.UpdateNotes(app.ID, "Recruiter call Tuesday"))
	got, err := tr.Get(app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Recruiter call Tuesday", got.Notes)

	require.NoError(t, tr.Remove(app.ID))
	assert.Empty(t, tr.List())
	assert.ErrorIs(t, tr.Remove(app.ID), ErrNotFound)
	_, err = tr.Get(app.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountsAndFilter(t *testing.T) {
	tr, _ := newTestTracker(t)
	_, _, err := tr.AddFromListing(testListing("A", "1"))
	require.NoError(t, err)
	_, err = tr.AddManual(ManualEntry{Title: "B", Company: "2"})
	require.NoError(t, err)
	_, err = tr.AddManual(ManualEntry{Title: "C", Company: "3"})
	require.NoError(t, err)

	counts := tr.Counts()
	assert.Equal(t, 1, counts[model.StatusSaved])
	assert.Equal(t, 2, counts[model.StatusApplied])
	assert.Equal(t, 0, counts[model.StatusOffer])
	assert.Len(t, counts, len(model.Statuses))

	applied := tr.Filter(model.StatusApplied)
	require.Len(t, applied, 2)
	assert.Equal(t, "C", applied[0].Title)
	assert.Empty(t, tr.Filter(model.StatusRejected))
}

func TestIsSaved(t *testing.T) {
	tr, _ := newTestTracker(t)
	l := testListing("Head of Technology", "Epsilon")
	assert.False(t, tr.IsSaved(l))

	_, _, err := tr.AddFromListing(l)
	require.NoError(t, err)
	assert.True(t, tr.IsSaved(l))
}

func TestWriteFailureLeavesMemoryUnchanged(t *testing.T) {
	tr, kv := newTestTracker(t)
	app, _, err := tr.AddFromListing(testListing("Managing Director", "Zeta"))
	require.NoError(t, err)

	kv.FailWrites = true

	_, _, err = tr.AddFromListing(testListing("Another", "Eta"))
	assert.ErrorIs(t, err, store.ErrWriteRejected)
	_, err = tr.AddManual(ManualEntry{Title: "T", Company: "C"})
	assert.ErrorIs(t, err, store.ErrWriteRejected)
	assert.ErrorIs(t, tr.UpdateStatus(app.ID, model.StatusOffer), store.ErrWriteRejected)
	assert.ErrorIs(t, tr.UpdateNotes(app.ID, "lost"), store.ErrWriteRejected)
	assert.ErrorIs(t, tr.Remove(app.ID), store.ErrWriteRejected)

	list := tr.List()
	require.Len(t, list, 1)
	assert.Equal(t, model.StatusSaved, list[0].Status)
	assert.Empty(t, list[0].Notes)
}

func TestRoundTrip(t *testing.T) {
	tr, kv := newTestTracker(t)
	app, _, err := tr.AddFromListing(testListing("Technology Director", "Acme"))
	require.NoError(t, err)
	_, err = tr.AddManual(ManualEntry{Title: "Programme Director", Company: "Beta", Salary: "£100k"})
	require.NoError(t, err)
	require.NoError(t, tr.UpdateStatus(app.ID, model.StatusInterviewing))
	require.NoError(t, tr.UpdateNotes(app.ID, "second round"))

	reloaded := New(kv)
	assert.Equal(t, tr.List(), reloaded.List())
}

func TestNew_CorruptStorageStartsEmpty(t *testing.T) {
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Put(store.KeyApplications, []byte("not json")))

	tr := New(kv)
	assert.Empty(t, tr.List())
}

package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/amishk599/jobdesk/internal/model"
)

var testCreds = model.SearchCredentials{AppID: "id-1", AppKey: "key-1"}

// newTestAdapter creates an AdzunaAdapter pointed at a test server.
func newTestAdapter(srv *httptest.Server) *AdzunaAdapter {
	return NewAdzunaAdapter(AdzunaConfig{BaseURL: srv.URL}, srv.Client(), nil)
}

func TestSearch_Success(t *testing.T) {
	payload := `{
		"results": [
			{
				"title": "Technology <strong>Director</strong>",
				"company": {"display_name": "Acme Telecom"},
				"location": {"display_name": "London, UK"},
				"salary_min": 95400,
				"salary_max": 120500,
				"contract_time": "full_time",
				"contract_type": "permanent",
				"description": "<p>Lead the technology function.</p>",
				"redirect_url": "https://www.adzuna.co.uk/jobs/land/ad/1"
			},
			{
				"description": "  no other fields  "
			}
		]
	}`
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gb/search/1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	listings, err := newTestAdapter(srv).Search(context.Background(), testCreds, "Technology Director London")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	for _, want := range []string{
		"app_id=id-1",
		"app_key=key-1",
		"results_per_page=10",
		"what=Technology%20Director",
		"where=London",
		"sort_by=relevance",
		"content-type=application/json",
		"salary_min=80000",
	} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	l := listings[0]
	if l.ID != 0 {
		t.Errorf("expected ID 0, got %d", l.ID)
	}
	// Only the description is stripped of markup; the title is kept as sent.
	if l.Title != "Technology <strong>Director</strong>" {
		t.Errorf("expected title unchanged, got %q", l.Title)
	}
	if l.Company != "Acme Telecom" || l.Location != "London, UK" {
		t.Errorf("unexpected company/location: %q / %q", l.Company, l.Location)
	}
	if l.Salary != "£95k – £121k" {
		t.Errorf("expected salary £95k – £121k, got %q", l.Salary)
	}
	if l.SalaryRaw != 95400 {
		t.Errorf("expected SalaryRaw 95400, got %d", l.SalaryRaw)
	}
	if l.Type != "Full-time" {
		t.Errorf("expected Full-time, got %q", l.Type)
	}
	if l.Description != "Lead the technology function." {
		t.Errorf("unexpected description %q", l.Description)
	}
	if l.Summary != "Lead the technology function.…" {
		t.Errorf("unexpected summary %q", l.Summary)
	}
	if l.Key == "" {
		t.Error("expected a content key")
	}

	d := listings[1]
	if d.ID != 1 {
		t.Errorf("expected ID 1, got %d", d.ID)
	}
	if d.Title != "Role" || d.Company != "Company" || d.Location != "UK" {
		t.Errorf("expected defaults, got %q / %q / %q", d.Title, d.Company, d.Location)
	}
	if d.Salary != "Salary not listed" || d.Type != "Permanent" || d.URL != "" {
		t.Errorf("unexpected defaults: %+v", d)
	}
	if d.Description != "no other fields" {
		t.Errorf("expected trimmed description, got %q", d.Description)
	}
}

func TestSearch_FallsBackWithoutSalaryFloor(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("salary_min") != "" {
			w.Write([]byte(`{"results": []}`))
			return
		}
		w.Write([]byte(`{"results": [{"title": "Programme Director"}]}`))
	}))
	defer srv.Close()

	listings, err := newTestAdapter(srv).Search(context.Background(), testCreds, "Programme Director")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queries) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(queries))
	}
	if !strings.Contains(queries[0], "salary_min=80000") {
		t.Errorf("first request must carry the salary floor: %q", queries[0])
	}
	if strings.Contains(queries[1], "salary_min") {
		t.Errorf("second request must omit the salary floor: %q", queries[1])
	}
	// Apart from the floor the two requests are identical.
	if strings.Replace(queries[0], "&salary_min=80000", "", 1) != queries[1] {
		t.Errorf("fallback request differs:\n %q\n %q", queries[0], queries[1])
	}
	if len(listings) != 1 || listings[0].Title != "Programme Director" {
		t.Fatalf("expected the unfiltered listing, got %+v", listings)
	}
}

func TestSearch_NoFallbackWhenFloorMatches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"results": [{"title": "VP Technology", "salary_min": 130000}]}`))
	}))
	defer srv.Close()

	listings, err := newTestAdapter(srv).Search(context.Background(), testCreds, "VP Technology")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 request, got %d", calls)
	}
	if len(listings) != 1 || listings[0].Salary != "£130k+" {
		t.Errorf("unexpected listings: %+v", listings)
	}
}

func TestSearch_EmptyAfterBothTiers(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	listings, err := newTestAdapter(srv).Search(context.Background(), testCreds, "Chief Unicorn Officer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 requests, got %d", calls)
	}
	if len(listings) != 0 {
		t.Errorf("expected no listings, got %d", len(listings))
	}
}

func TestSearch_CredentialErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := newTestAdapter(srv).Search(context.Background(), testCreds, "Director")
		srv.Close()

		var credErr *model.CredentialError
		if !errors.As(err, &credErr) || credErr.StatusCode != status {
			t.Errorf("status %d: expected CredentialError, got %v", status, err)
		}
	}
}

func TestSearch_TransientError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestAdapter(srv).Search(context.Background(), testCreds, "Director")
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected HTTPError 503, got %v", err)
	}
	if calls != 1 {
		t.Errorf("an error must stop the fallback chain, got %d requests", calls)
	}
}

func TestSearch_MissingCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without credentials")
	}))
	defer srv.Close()

	_, err := newTestAdapter(srv).Search(context.Background(), model.SearchCredentials{AppID: "only-id"}, "Director")
	var credErr *model.CredentialError
	if !errors.As(err, &credErr) || credErr.StatusCode != 0 {
		t.Fatalf("expected CredentialError without status, got %v", err)
	}
}

func TestSearch_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not valid json`))
	}))
	defer srv.Close()

	if _, err := newTestAdapter(srv).Search(context.Background(), testCreds, "Director"); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestSearch_KeysStableAcrossSearches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RawQuery, "what=first") {
			w.Write([]byte(`{"results": [{"title": "A", "company": {"display_name": "X"}}, {"title": "B", "company": {"display_name": "Y"}}]}`))
			return
		}
		w.Write([]byte(`{"results": [{"title": "B", "company": {"display_name": "Y"}}]}`))
	}))
	defer srv.Close()

	a := newTestAdapter(srv)
	first, err := a.Search(context.Background(), testCreds, "first")
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Search(context.Background(), testCreds, "second")
	if err != nil {
		t.Fatal(err)
	}
	// Position ids collide, content keys do not.
	if second[0].ID != first[0].ID {
		t.Errorf("expected positional ids to restart at 0")
	}
	if second[0].Key == first[0].Key {
		t.Error("different listings must not share a key")
	}
	if second[0].Key != first[1].Key {
		t.Error("the same listing must keep its key across searches")
	}
}

func TestFormatSalary(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		want     string
	}{
		{"both present", 80000, 120000, "£80k – £120k"},
		{"only min", 95000, 0, "£95k+"},
		{"neither", 0, 0, "Salary not listed"},
		{"only max", 0, 150000, "Salary not listed"},
		{"rounds half up", 84500, 99499, "£85k – £99k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatSalary(tt.min, tt.max); got != tt.want {
				t.Errorf("formatSalary(%v, %v) = %q, want %q", tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestEmploymentType(t *testing.T) {
	tests := []struct {
		contractTime, contractType, want string
	}{
		{"full_time", "contract", "Full-time"},
		{"part_time", "contract", "Part-time"},
		{"", "contract", "Contract"},
		{"", "permanent", "Permanent"},
		{"", "", "Permanent"},
	}
	for _, tt := range tests {
		if got := employmentType(tt.contractTime, tt.contractType); got != tt.want {
			t.Errorf("employmentType(%q, %q) = %q, want %q", tt.contractTime, tt.contractType, got, tt.want)
		}
	}
}

func TestSummarize_TruncatesAt220Characters(t *testing.T) {
	desc := strings.Repeat("ab cd é ", 60) // 480 characters, multi-byte included
	got := summarize(desc)
	if !strings.HasSuffix(got, ellipsis) {
		t.Fatalf("summary %q lacks ellipsis", got)
	}
	body := strings.TrimSuffix(got, ellipsis)
	if n := utf8.RuneCountInString(body); n != 220 {
		t.Errorf("summary body has %d characters, want 220", n)
	}
	if !strings.HasPrefix(desc, body) {
		t.Error("summary must be a prefix of the description")
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"nested tags", "<div><p>We are <b>hiring</b>.</p></div>", "We are hiring."},
		{"surrounding whitespace", "\n  <br/>Plain text\t", "Plain text"},
		{"no markup", "No tags here.", "No tags here."},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripTags(tc.input); got != tc.want {
				t.Errorf("stripTags(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

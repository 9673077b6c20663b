package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/jobdesk/internal/model"
	"github.com/amishk599/jobdesk/internal/query"
)

// Ensure AdzunaAdapter implements model.ListingSearcher.
var _ model.ListingSearcher = (*AdzunaAdapter)(nil)

const (
	adzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"

	// DefaultSalaryFloor is the senior-executive floor applied to the first search tier.
	DefaultSalaryFloor = 80000

	defaultCountry        = "gb"
	defaultResultsPerPage = 10
)

// adzunaResult represents a single job in the Adzuna search response.
type adzunaResult struct {
	Title    string `json:"title"`
	Company  struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	ContractTime string  `json:"contract_time"`
	ContractType string  `json:"contract_type"`
	Description  string  `json:"description"`
	RedirectURL  string  `json:"redirect_url"`
}

// adzunaResponse is the top-level Adzuna search response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

// AdzunaConfig tunes the search client. Zero values select the defaults.
type AdzunaConfig struct {
	BaseURL        string
	Country        string
	ResultsPerPage int
	SalaryFloor    int // negative disables the salary-floor tier
}

// AdzunaAdapter searches the Adzuna jobs API and normalizes the results.
type AdzunaAdapter struct {
	baseURL        string
	country        string
	resultsPerPage int
	policy         FallbackPolicy
	client         *http.Client
	logger         *slog.Logger
}

// NewAdzunaAdapter creates a search client. logger may be nil.
func NewAdzunaAdapter(cfg AdzunaConfig, client *http.Client, logger *slog.Logger) *AdzunaAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = adzunaBaseURL
	}
	if cfg.Country == "" {
		cfg.Country = defaultCountry
	}
	if cfg.ResultsPerPage <= 0 {
		cfg.ResultsPerPage = defaultResultsPerPage
	}
	if cfg.SalaryFloor == 0 {
		cfg.SalaryFloor = DefaultSalaryFloor
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AdzunaAdapter{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		country:        cfg.Country,
		resultsPerPage: cfg.ResultsPerPage,
		policy:         SalaryFloorPolicy(cfg.SalaryFloor),
		client:         client,
		logger:         logger,
	}
}

// Search runs the query through the fallback policy and returns the
// normalized listings of the first non-empty tier. An empty slice means no
// tier matched anything.
func (a *AdzunaAdapter) Search(ctx context.Context, creds model.SearchCredentials, queryText string) ([]model.Listing, error) {
	if !creds.Complete() {
		return nil, &model.CredentialError{Service: model.ServiceAdzuna}
	}
	if strings.TrimSpace(queryText) == "" {
		return nil, fmt.Errorf("adzuna search: empty query")
	}

	terms := query.Normalize(queryText)

	results, tier, err := RunFallback(ctx, a.policy, func(ctx context.Context, tier SearchTier) ([]adzunaResult, error) {
		start := time.Now()
		res, err := a.fetch(ctx, a.buildURL(creds, terms, tier.SalaryMin))
		if err != nil {
			return nil, err
		}
		a.logger.Debug("adzuna search tier",
			"tier", tier.Name,
			"what", terms.What(),
			"where", terms.Where(),
			"results", len(res),
			"elapsed", time.Since(start),
		)
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	listings := make([]model.Listing, 0, len(results))
	for i, r := range results {
		listings = append(listings, normalizeResult(i, r))
	}

	a.logger.Info("searched adzuna", "query", queryText, "tier", tier.Name, "listings", len(listings))
	return listings, nil
}

// buildURL assembles the search URL. salaryMin of zero omits the filter.
func (a *AdzunaAdapter) buildURL(creds model.SearchCredentials, terms query.Terms, salaryMin int) string {
	u := fmt.Sprintf("%s/%s/search/1?app_id=%s&app_key=%s&results_per_page=%d&what=%s&where=%s&sort_by=relevance&content-type=application/json",
		a.baseURL,
		a.country,
		query.Escape(creds.AppID),
		query.Escape(creds.AppKey),
		a.resultsPerPage,
		terms.EncodedWhat(),
		terms.EncodedWhere(),
	)
	if salaryMin > 0 {
		u += fmt.Sprintf("&salary_min=%d", salaryMin)
	}
	return u
}

func (a *AdzunaAdapter) fetch(ctx context.Context, url string) ([]adzunaResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("adzuna search: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna search: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &model.CredentialError{Service: model.ServiceAdzuna, StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &model.HTTPError{
			Service:    model.ServiceAdzuna,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status"),
		}
	}

	var azResp adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&azResp); err != nil {
		return nil, fmt.Errorf("adzuna search: decoding response: %w", err)
	}
	return azResp.Results, nil
}

// normalizeResult converts one raw result into the canonical listing shape.
func normalizeResult(position int, r adzunaResult) model.Listing {
	title := orDefault(r.Title, "Role")
	company := orDefault(r.Company.DisplayName, "Company")
	description := stripTags(r.Description)

	return model.Listing{
		ID:          position,
		Key:         listingKey(title, company, r.RedirectURL),
		Title:       title,
		Company:     company,
		Location:    orDefault(r.Location.DisplayName, "UK"),
		SalaryRaw:   int(math.Round(r.SalaryMin)),
		Salary:      formatSalary(r.SalaryMin, r.SalaryMax),
		Type:        employmentType(r.ContractTime, r.ContractType),
		Description: description,
		Summary:     summarize(description),
		URL:         r.RedirectURL,
	}
}

// formatSalary renders the advertised range in thousands of pounds.
func formatSalary(lo, hi float64) string {
	switch {
	case lo > 0 && hi > 0:
		return fmt.Sprintf("£%dk – £%dk", thousands(lo), thousands(hi))
	case lo > 0:
		return fmt.Sprintf("£%dk+", thousands(lo))
	default:
		return "Salary not listed"
	}
}

func thousands(v float64) int {
	return int(math.Round(v / 1000))
}

// employmentType maps the two independent contract signals, time basis first.
func employmentType(contractTime, contractType string) string {
	switch {
	case contractTime == "full_time":
		return "Full-time"
	case contractTime == "part_time":
		return "Part-time"
	case contractType == "contract":
		return "Contract"
	default:
		return "Permanent"
	}
}

// listingKey derives a stable identity from the listing content so saved
// markers survive across searches that reuse positional ids.
func listingKey(title, company, url string) string {
	name := title + "\x00" + company + "\x00" + url
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/amishk599/jobdesk/internal/model"
)

// Work types inferred from listing text.
const (
	WorkTypeAll    = "All"
	WorkTypeRemote = "Remote"
	WorkTypeHybrid = "Hybrid"
	WorkTypeOnSite = "On-site"
)

// WorkTypes lists the filter choices in cycle order.
var WorkTypes = []string{WorkTypeAll, WorkTypeRemote, WorkTypeHybrid, WorkTypeOnSite}

// WorkType infers the arrangement from the title, location and description.
// Case-insensitive substring match; "remote" wins over "hybrid".
func WorkType(l model.Listing) string {
	text := strings.ToLower(l.Title + " " + l.Location + " " + l.Description)
	switch {
	case strings.Contains(text, "remote"):
		return WorkTypeRemote
	case strings.Contains(text, "hybrid"):
		return WorkTypeHybrid
	default:
		return WorkTypeOnSite
	}
}

// ParseWorkType resolves user input to one of WorkTypes, case-insensitively.
// "onsite" is accepted for On-site; empty means All.
func ParseWorkType(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WorkTypeAll, nil
	}
	if strings.EqualFold(s, "onsite") {
		return WorkTypeOnSite, nil
	}
	for _, wt := range WorkTypes {
		if strings.EqualFold(s, wt) {
			return wt, nil
		}
	}
	return "", fmt.Errorf("unknown work type %q (want one of %s)", s, strings.Join(WorkTypes, ", "))
}

// WorkTypeFilter matches listings whose inferred work type equals the
// wanted one. WorkTypeAll, or an empty value, passes everything.
type WorkTypeFilter struct {
	want string
}

// NewWorkTypeFilter returns a filter for the given work type.
func NewWorkTypeFilter(workType string) *WorkTypeFilter {
	return &WorkTypeFilter{want: workType}
}

// Match reports whether the listing has the wanted work type.
func (f *WorkTypeFilter) Match(l model.Listing) bool {
	if f.want == "" || f.want == WorkTypeAll {
		return true
	}
	return WorkType(l) == f.want
}

// Apply returns the listings that pass f, in their original order.
func Apply(f model.ListingFilter, listings []model.Listing) []model.Listing {
	out := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// Sort orders.
const (
	SortRelevance  = "relevance"
	SortSalaryDesc = "salary_desc"
	SortSalaryAsc  = "salary_asc"
)

// SortOrders lists the sort choices in cycle order.
var SortOrders = []string{SortRelevance, SortSalaryDesc, SortSalaryAsc}

// Sort returns a copy of listings in the requested order. Relevance keeps the
// API order; salary orders compare SalaryRaw and keep ties in API order.
func Sort(listings []model.Listing, order string) ([]model.Listing, error) {
	out := slices.Clone(listings)
	switch order {
	case "", SortRelevance:
	case SortSalaryDesc:
		slices.SortStableFunc(out, func(a, b model.Listing) int { return b.SalaryRaw - a.SalaryRaw })
	case SortSalaryAsc:
		slices.SortStableFunc(out, func(a, b model.Listing) int { return a.SalaryRaw - b.SalaryRaw })
	default:
		return nil, fmt.Errorf("unknown sort order %q (want one of %s)", order, strings.Join(SortOrders, ", "))
	}
	return out, nil
}

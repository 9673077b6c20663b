package model

import (
	"fmt"
	"strings"
)

// Status is the pipeline position of a tracked application.
type Status string

const (
	StatusSaved        Status = "Saved"
	StatusApplied      Status = "Applied"
	StatusInterviewing Status = "Interviewing"
	StatusOffer        Status = "Offer"
	StatusRejected     Status = "Rejected"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusSaved, StatusApplied, StatusInterviewing, StatusOffer, StatusRejected}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (want one of Saved, Applied, Interviewing, Offer, Rejected)", s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

// Application is a user-saved listing or manually entered role.
// JSON names match the persisted layout so stored collections round-trip.
type Application struct {
	ID          int64  `json:"id"` // creation time in Unix milliseconds, unique per store
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	SalaryRaw   int    `json:"salaryRaw,omitempty"`
	Salary      string `json:"salary,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Summary     string `json:"summary,omitempty"`
	URL         string `json:"url,omitempty"`
	Status      Status `json:"status"`
	DateAdded   string `json:"dateAdded"`
	Notes       string `json:"notes"`
}

// FromListing copies the listing fields into a new, unsaved application.
func FromListing(l Listing) Application {
	return Application{
		Title:       l.Title,
		Company:     l.Company,
		Location:    l.Location,
		SalaryRaw:   l.SalaryRaw,
		Salary:      l.Salary,
		Type:        l.Type,
		Description: l.Description,
		Summary:     l.Summary,
		URL:         l.URL,
	}
}

package model

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Service names used in error values and messages.
const (
	ServiceAdzuna    = "adzuna"
	ServiceAnthropic = "anthropic"
)

// ErrNoResults is returned when a search completes but yields no listings.
var ErrNoResults = errors.New("no results found")

// HTTPError is a non-success response that is worth retrying by hand
// (the transient/API error of either external service).
type HTTPError struct {
	Service    string
	StatusCode int
	Message    string // remote error message when the body carried one
	Err        error
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s: HTTP %d", e.Service, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// CredentialError means the service rejected (or was never given) the
// configured keys. Only re-entering the keys fixes it.
type CredentialError struct {
	Service    string
	StatusCode int // zero when the keys were missing and no request was made
}

func (e *CredentialError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: credentials not configured", e.Service)
	}
	return fmt.Sprintf("%s: credentials rejected (HTTP %d)", e.Service, e.StatusCode)
}

// RateLimitError is a 429 from the generation API.
type RateLimitError struct {
	Service    string
	RetryAfter time.Duration // from Retry-After header, zero if absent
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited, retry after %v", e.Service, e.RetryAfter)
	}
	return fmt.Sprintf("%s: rate limited", e.Service)
}

// ParseError means a generation response carried no recoverable text,
// even after the salvage pass.
type ParseError struct {
	Body string // first bytes of the offending body, for logs
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unparseable response: %v", e.Err)
	}
	return "unparseable response"
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func ParseRetryAfter(h http.Header) time.Duration {
	value := h.Get("Retry-After")
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// UserMessage maps an error to the short sentence shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var credErr *CredentialError
	if errors.As(err, &credErr) {
		if credErr.Service == ServiceAdzuna {
			if credErr.StatusCode == 0 {
				return "Add your Adzuna App ID and App Key in Settings to search live jobs."
			}
			return "Adzuna keys rejected — check your App ID and App Key in Settings."
		}
		if credErr.StatusCode == 0 {
			return "Add your Anthropic API key in Settings to generate documents."
		}
		return "Invalid Anthropic API key — update it in Settings."
	}

	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return "Too many requests — wait a moment and try again."
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return "Response error — please try again."
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Service == ServiceAdzuna {
			return fmt.Sprintf("Adzuna error %d. Please try again.", httpErr.StatusCode)
		}
		if httpErr.Message != "" {
			return httpErr.Message
		}
		return fmt.Sprintf("API error %d", httpErr.StatusCode)
	}

	if errors.Is(err, ErrNoResults) {
		return "No results found — try shorter or broader terms e.g. 'Transformation Director' or 'Technology VP'."
	}

	return err.Error()
}

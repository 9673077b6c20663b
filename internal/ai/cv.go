package ai

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Markers delimiting the two sections of a tailoring response.
const (
	NotesMarker = "===TAILORING_NOTES==="
	CVMarker    = "===TAILORED_CV==="
)

// CV generation defaults.
const (
	DefaultCVModel     = "claude-sonnet-4-5-20250929"
	DefaultCVMaxTokens = 2400
)

// ErrEmptyField is wrapped by request validation when a required slot is blank.
var ErrEmptyField = errors.New("required field is empty")

var (
	notesSectionRegex = regexp.MustCompile(`(?s)` + NotesMarker + `(.*?)(?:` + CVMarker + `|$)`)
	cvSectionRegex    = regexp.MustCompile(`(?s)` + CVMarker + `(.*)$`)
)

// CVRequest fills the CV tailoring prompt. Setting PreviousDraft and
// Feedback switches to refinement, which replays the whole context.
type CVRequest struct {
	JobDescription string
	Profile        Profile
	PreviousDraft  string
	Feedback       string
}

// Refining reports whether the request revises an earlier draft.
func (r CVRequest) Refining() bool {
	return r.PreviousDraft != "" || r.Feedback != ""
}

// Validate checks that every slot the prompt needs is filled.
func (r CVRequest) Validate() error {
	if strings.TrimSpace(r.JobDescription) == "" {
		return fmt.Errorf("%w: job description", ErrEmptyField)
	}
	if strings.TrimSpace(r.Profile.Experience) == "" {
		return fmt.Errorf("%w: candidate experience", ErrEmptyField)
	}
	if strings.TrimSpace(r.Profile.Name) == "" {
		return fmt.Errorf("%w: candidate name", ErrEmptyField)
	}
	if r.Refining() {
		if strings.TrimSpace(r.PreviousDraft) == "" {
			return fmt.Errorf("%w: previous CV draft", ErrEmptyField)
		}
		if strings.TrimSpace(r.Feedback) == "" {
			return fmt.Errorf("%w: refinement feedback", ErrEmptyField)
		}
	}
	return nil
}

// Prompts validates the request and renders the system and user messages.
func (r CVRequest) Prompts() (system, user string, err error) {
	if err := r.Validate(); err != nil {
		return "", "", err
	}
	system, err = render(CVSystemTemplate, r.Profile)
	if err != nil {
		return "", "", fmt.Errorf("render cv system prompt: %w", err)
	}
	user, err = render(CVUserTemplate, r)
	if err != nil {
		return "", "", fmt.Errorf("render cv user prompt: %w", err)
	}
	return system, user, nil
}

// TailoredCV is a parsed tailoring response.
type TailoredCV struct {
	Notes string
	CV    string
}

// ParseTailoredCV splits a raw response into notes and CV. A missing notes
// section yields empty notes; a missing CV marker makes the whole response
// the CV.
func ParseTailoredCV(raw string) TailoredCV {
	var out TailoredCV
	if m := notesSectionRegex.FindStringSubmatch(raw); m != nil {
		out.Notes = strings.TrimSpace(m[1])
	}
	if m := cvSectionRegex.FindStringSubmatch(raw); m != nil {
		out.CV = strings.TrimSpace(m[1])
	} else {
		out.CV = strings.TrimSpace(raw)
	}
	return out
}

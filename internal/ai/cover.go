package ai

import (
	"fmt"
	"slices"
	"strings"
)

// Cover letter tones.
const (
	ToneConfident = "Confident & direct"
	ToneWarm      = "Warm & collaborative"
	ToneStrategic = "Strategic & formal"
)

// Cover letter generation defaults.
const (
	DefaultCoverModel     = DefaultModel
	DefaultCoverMaxTokens = 900
)

// Tones lists the supported tones; the first is the default.
var Tones = []string{ToneConfident, ToneWarm, ToneStrategic}

// ParseTone resolves a tone by full name or by its first word
// ("confident", "warm", "strategic"), case-insensitively. Empty selects
// the default.
func ParseTone(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Tones[0], nil
	}
	for _, t := range Tones {
		first, _, _ := strings.Cut(t, " ")
		if strings.EqualFold(s, t) || strings.EqualFold(s, first) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tone %q (want one of %s)", s, strings.Join(Tones, ", "))
}

// CoverLetterRequest fills the cover letter prompt. Role and Company are
// optional and fall back to generic wording.
type CoverLetterRequest struct {
	Role           string
	Company        string
	JobDescription string
	Tone           string
	Profile        Profile
}

// RoleOrDefault returns the role or a generic stand-in.
func (r CoverLetterRequest) RoleOrDefault() string {
	if strings.TrimSpace(r.Role) == "" {
		return "Senior Executive"
	}
	return r.Role
}

// CompanyOrDefault returns the company or a generic stand-in.
func (r CoverLetterRequest) CompanyOrDefault() string {
	if strings.TrimSpace(r.Company) == "" {
		return "the organisation"
	}
	return r.Company
}

// Validate checks the required slots. An empty tone is allowed and
// selects the default.
func (r CoverLetterRequest) Validate() error {
	if strings.TrimSpace(r.JobDescription) == "" {
		return fmt.Errorf("%w: job description", ErrEmptyField)
	}
	if strings.TrimSpace(r.Profile.Name) == "" {
		return fmt.Errorf("%w: candidate name", ErrEmptyField)
	}
	if len(r.Profile.KeyWins) < 2 {
		return fmt.Errorf("%w: at least two key wins", ErrEmptyField)
	}
	if r.Tone != "" && !slices.Contains(Tones, r.Tone) {
		return fmt.Errorf("unknown tone %q", r.Tone)
	}
	return nil
}

// Prompts validates the request and renders the system and user messages.
func (r CoverLetterRequest) Prompts() (system, user string, err error) {
	if err := r.Validate(); err != nil {
		return "", "", err
	}
	if r.Tone == "" {
		r.Tone = Tones[0]
	}
	system, err = render(CoverSystemTemplate, r)
	if err != nil {
		return "", "", fmt.Errorf("render cover system prompt: %w", err)
	}
	user, err = render(CoverUserTemplate, r)
	if err != nil {
		return "", "", fmt.Errorf("render cover user prompt: %w", err)
	}
	return system, user, nil
}

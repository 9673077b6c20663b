package ai

import "context"

// Defaults applied when a GenerateRequest leaves Model or MaxTokens unset.
const (
	DefaultModel     = "claude-haiku-4-5-20251001"
	DefaultMaxTokens = 1200
)

// GenerateRequest is one single-turn generation call.
type GenerateRequest struct {
	APIKey    string
	System    string
	User      string
	Model     string
	MaxTokens int
}

// TextGenerator sends a system/user prompt pair to a language model and
// returns the trimmed text of the first content block.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/amishk599/jobdesk/internal/model"
)

// Ensure AnthropicProvider implements TextGenerator.
var _ TextGenerator = (*AnthropicProvider)(nil)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"

	// bodyExcerptLen caps how much of an unparseable body is kept for logs.
	bodyExcerptLen = 200
)

// textFieldRegex recovers the first "text" string value from a body that
// fails to unmarshal, e.g. one truncated mid-stream.
var textFieldRegex = regexp.MustCompile(`"text"\s*:\s*"((?:[^"\\]|\\.)*)"`)

var salvageUnescaper = strings.NewReplacer(`\n`, "\n", `\"`, `"`)

// AnthropicProvider calls the Anthropic /v1/messages endpoint.
type AnthropicProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAnthropicProvider creates a provider. An empty baseURL targets the
// public API; logger may be nil.
func NewAnthropicProvider(baseURL string, httpClient *http.Client, logger *slog.Logger) *AnthropicProvider {
	if baseURL == "" {
		baseURL = anthropicBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AnthropicProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// messagesRequest mirrors the /v1/messages request body.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse mirrors the relevant fields of a successful response.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// errorResponse is the error envelope returned with non-success statuses.
type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one request and returns the first text block, trimmed.
// Nothing is retried.
func (p *AnthropicProvider) Generate(ctx context.Context, gr GenerateRequest) (string, error) {
	if strings.TrimSpace(gr.APIKey) == "" {
		return "", &model.CredentialError{Service: model.ServiceAnthropic}
	}
	if gr.Model == "" {
		gr.Model = DefaultModel
	}
	if gr.MaxTokens <= 0 {
		gr.MaxTokens = DefaultMaxTokens
	}

	body, err := json.Marshal(messagesRequest{
		Model:     gr.Model,
		MaxTokens: gr.MaxTokens,
		System:    gr.System,
		Messages:  []message{{Role: "user", Content: gr.User}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal messages request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create messages request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", gr.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("messages request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read messages response: %w", err)
	}

	p.logger.Debug("anthropic messages",
		"model", gr.Model,
		"max_tokens", gr.MaxTokens,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", &model.CredentialError{Service: model.ServiceAnthropic, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &model.RateLimitError{Service: model.ServiceAnthropic, RetryAfter: model.ParseRetryAfter(resp.Header)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var er errorResponse
		_ = json.Unmarshal(respBytes, &er)
		return "", &model.HTTPError{
			Service:    model.ServiceAnthropic,
			StatusCode: resp.StatusCode,
			Message:    er.Error.Message,
		}
	}

	return extractText(respBytes)
}

// extractText returns content[0].text. Bodies that are not valid JSON get a
// regex salvage pass before giving up with a ParseError.
func extractText(body []byte) (string, error) {
	var mr messagesResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		m := textFieldRegex.FindSubmatch(body)
		if m == nil {
			return "", &model.ParseError{Body: excerpt(body), Err: err}
		}
		return strings.TrimSpace(salvageUnescaper.Replace(string(m[1]))), nil
	}
	if len(mr.Content) == 0 {
		return "", nil
	}
	return strings.TrimSpace(mr.Content[0].Text), nil
}

func excerpt(b []byte) string {
	if len(b) > bodyExcerptLen {
		b = b[:bodyExcerptLen]
	}
	return string(b)
}

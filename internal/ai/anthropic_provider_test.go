package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amishk599/jobdesk/internal/model"
)

func makeTestServer(t *testing.T, statusCode int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func generate(t *testing.T, srv *httptest.Server, req GenerateRequest) (string, error) {
	t.Helper()
	p := NewAnthropicProvider(srv.URL, srv.Client(), nil)
	return p.Generate(context.Background(), req)
}

func TestGenerate_Success(t *testing.T) {
	var gotReq messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-test" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content-type = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		io.WriteString(w, `{"content":[{"type":"text","text":"  Dear Hiring Team,\n\nHello.  "}]}`)
	}))
	defer srv.Close()

	got, err := generate(t, srv, GenerateRequest{APIKey: "sk-test", System: "sys", User: "usr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Dear Hiring Team,\n\nHello." {
		t.Errorf("got %q", got)
	}
	if gotReq.Model != DefaultModel || gotReq.MaxTokens != DefaultMaxTokens {
		t.Errorf("defaults not applied: model=%q max_tokens=%d", gotReq.Model, gotReq.MaxTokens)
	}
	if gotReq.System != "sys" || len(gotReq.Messages) != 1 ||
		gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "usr" {
		t.Errorf("unexpected request body: %+v", gotReq)
	}
}

func TestGenerate_ExplicitModel(t *testing.T) {
	var gotReq messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		io.WriteString(w, `{"content":[{"type":"text","text":"ok"}]}`)
	}))
	defer srv.Close()

	if _, err := generate(t, srv, GenerateRequest{APIKey: "k", Model: DefaultCVModel, MaxTokens: 2400}); err != nil {
		t.Fatal(err)
	}
	if gotReq.Model != DefaultCVModel || gotReq.MaxTokens != 2400 {
		t.Errorf("got model=%q max_tokens=%d", gotReq.Model, gotReq.MaxTokens)
	}
}

func TestGenerate_EmptyContent(t *testing.T) {
	srv := makeTestServer(t, http.StatusOK, `{"content":[]}`)
	got, err := generate(t, srv, GenerateRequest{APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestGenerate_SalvagesMalformedBody(t *testing.T) {
	// Truncated JSON: the closing brackets never arrived.
	srv := makeTestServer(t, http.StatusOK, `{"id":"msg_1","content":[{"type":"text","text":"  Line one\nLine \"two\"  "}`)
	got, err := generate(t, srv, GenerateRequest{APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "Line one\nLine \"two\""; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerate_UnsalvageableBody(t *testing.T) {
	srv := makeTestServer(t, http.StatusOK, `<html>gateway</html>`)
	_, err := generate(t, srv, GenerateRequest{APIKey: "k"})
	var parseErr *model.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Body != "<html>gateway</html>" {
		t.Errorf("body excerpt = %q", parseErr.Body)
	}
}

func TestGenerate_Unauthorized(t *testing.T) {
	srv := makeTestServer(t, http.StatusUnauthorized, `{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	_, err := generate(t, srv, GenerateRequest{APIKey: "bad"})
	var credErr *model.CredentialError
	if !errors.As(err, &credErr) || credErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected CredentialError 401, got %v", err)
	}
}

func TestGenerate_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := generate(t, srv, GenerateRequest{APIKey: "k"})
	var rateErr *model.RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rateErr.RetryAfter != 12*time.Second {
		t.Errorf("RetryAfter = %v, want 12s", rateErr.RetryAfter)
	}
}

func TestGenerate_APIErrorMessage(t *testing.T) {
	srv := makeTestServer(t, 529, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`)
	_, err := generate(t, srv, GenerateRequest{APIKey: "k"})
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != 529 || httpErr.Message != "Overloaded" {
		t.Errorf("got status %d message %q", httpErr.StatusCode, httpErr.Message)
	}
	if got := model.UserMessage(err); got != "Overloaded" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestGenerate_APIErrorWithoutBody(t *testing.T) {
	srv := makeTestServer(t, http.StatusBadGateway, ``)
	_, err := generate(t, srv, GenerateRequest{APIKey: "k"})
	if got := model.UserMessage(err); got != "API error 502" {
		t.Errorf("UserMessage = %q, want API error 502", got)
	}
}

func TestGenerate_MissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without an API key")
	}))
	defer srv.Close()

	_, err := generate(t, srv, GenerateRequest{APIKey: "  "})
	var credErr *model.CredentialError
	if !errors.As(err, &credErr) || credErr.StatusCode != 0 {
		t.Fatalf("expected CredentialError without status, got %v", err)
	}
}

package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// WriterConfig selects the model and token budget per document kind.
// Zero values select the defaults.
type WriterConfig struct {
	CVModel        string
	CVMaxTokens    int
	CoverModel     string
	CoverMaxTokens int
}

// DocumentWriter turns prompt contracts into generated documents.
type DocumentWriter struct {
	gen    TextGenerator
	cfg    WriterConfig
	logger *slog.Logger
}

// NewDocumentWriter creates a writer on top of gen. logger may be nil.
func NewDocumentWriter(gen TextGenerator, cfg WriterConfig, logger *slog.Logger) *DocumentWriter {
	if cfg.CVModel == "" {
		cfg.CVModel = DefaultCVModel
	}
	if cfg.CVMaxTokens <= 0 {
		cfg.CVMaxTokens = DefaultCVMaxTokens
	}
	if cfg.CoverModel == "" {
		cfg.CoverModel = DefaultCoverModel
	}
	if cfg.CoverMaxTokens <= 0 {
		cfg.CoverMaxTokens = DefaultCoverMaxTokens
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DocumentWriter{gen: gen, cfg: cfg, logger: logger}
}

// TailorCV generates (or refines) a tailored CV and splits the response.
func (w *DocumentWriter) TailorCV(ctx context.Context, apiKey string, req CVRequest) (TailoredCV, error) {
	system, user, err := req.Prompts()
	if err != nil {
		return TailoredCV{}, err
	}

	start := time.Now()
	raw, err := w.gen.Generate(ctx, GenerateRequest{
		APIKey:    apiKey,
		System:    system,
		User:      user,
		Model:     w.cfg.CVModel,
		MaxTokens: w.cfg.CVMaxTokens,
	})
	if err != nil {
		return TailoredCV{}, fmt.Errorf("tailor cv: %w", err)
	}

	out := ParseTailoredCV(raw)
	w.logger.Info("tailored cv",
		"refine", req.Refining(),
		"notes", out.Notes != "",
		"chars", len(out.CV),
		"elapsed", time.Since(start),
	)
	return out, nil
}

// WriteCoverLetter generates a cover letter. The text is returned trimmed
// and otherwise untouched.
func (w *DocumentWriter) WriteCoverLetter(ctx context.Context, apiKey string, req CoverLetterRequest) (string, error) {
	system, user, err := req.Prompts()
	if err != nil {
		return "", err
	}

	start := time.Now()
	letter, err := w.gen.Generate(ctx, GenerateRequest{
		APIKey:    apiKey,
		System:    system,
		User:      user,
		Model:     w.cfg.CoverModel,
		MaxTokens: w.cfg.CoverMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("write cover letter: %w", err)
	}

	w.logger.Info("wrote cover letter", "company", req.CompanyOrDefault(), "chars", len(letter), "elapsed", time.Since(start))
	return letter, nil
}

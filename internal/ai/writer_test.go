package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobdesk/internal/model"
)

// fakeGenerator records the last request and replies with a canned response.
type fakeGenerator struct {
	reply string
	err   error
	calls int
	last  GenerateRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req GenerateRequest) (string, error) {
	f.calls++
	f.last = req
	return f.reply, f.err
}

func TestDocumentWriter_TailorCV(t *testing.T) {
	gen := &fakeGenerator{reply: "===TAILORING_NOTES===\nnotes\n===TAILORED_CV===\ncv"}
	w := NewDocumentWriter(gen, WriterConfig{}, nil)

	out, err := w.TailorCV(context.Background(), "sk", CVRequest{JobDescription: "JD", Profile: DefaultProfile()})
	require.NoError(t, err)

	assert.Equal(t, TailoredCV{Notes: "notes", CV: "cv"}, out)
	assert.Equal(t, "sk", gen.last.APIKey)
	assert.Equal(t, DefaultCVModel, gen.last.Model)
	assert.Equal(t, DefaultCVMaxTokens, gen.last.MaxTokens)
	assert.Contains(t, gen.last.System, "===TAILORED_CV===")
}

func TestDocumentWriter_WriteCoverLetter(t *testing.T) {
	gen := &fakeGenerator{reply: "Dear Hiring Team,"}
	w := NewDocumentWriter(gen, WriterConfig{CoverModel: "custom-model"}, nil)

	letter, err := w.WriteCoverLetter(context.Background(), "sk", CoverLetterRequest{JobDescription: "JD", Profile: DefaultProfile()})
	require.NoError(t, err)

	assert.Equal(t, "Dear Hiring Team,", letter)
	assert.Equal(t, "custom-model", gen.last.Model)
	assert.Equal(t, DefaultCoverMaxTokens, gen.last.MaxTokens)
}

func TestDocumentWriter_InvalidRequestSkipsGeneration(t *testing.T) {
	gen := &fakeGenerator{}
	w := NewDocumentWriter(gen, WriterConfig{}, nil)

	_, err := w.TailorCV(context.Background(), "sk", CVRequest{Profile: DefaultProfile()})
	assert.ErrorIs(t, err, ErrEmptyField)

	_, err = w.WriteCoverLetter(context.Background(), "sk", CoverLetterRequest{Profile: DefaultProfile()})
	assert.ErrorIs(t, err, ErrEmptyField)

	assert.Zero(t, gen.calls)
}

func TestDocumentWriter_PropagatesTypedErrors(t *testing.T) {
	gen := &fakeGenerator{err: &model.RateLimitError{Service: model.ServiceAnthropic}}
	w := NewDocumentWriter(gen, WriterConfig{}, nil)

	_, err := w.TailorCV(context.Background(), "sk", CVRequest{JobDescription: "JD", Profile: DefaultProfile()})
	var rateErr *model.RateLimitError
	assert.True(t, errors.As(err, &rateErr))
}

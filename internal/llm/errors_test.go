package llm_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"poextract/internal/domain"
	"poextract/internal/llm"
)

func TestRateLimitError_ErrorMessage(t *testing.T) {
	inner := errors.New("quota exhausted")
	err := llm.NewRateLimitError("oci", inner, 30)

	assert.Equal(t, "oci rate limited (retry after 30s): quota exhausted", err.Error())
	assert.Equal(t, 30*time.Second, err.RetryAfter)
}

func TestRateLimitError_DefaultRetryAfter(t *testing.T) {
	err := llm.NewRateLimitError("openai", errors.New("x"), 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)

	err = llm.NewRateLimitError("openai", errors.New("x"), -5)
	assert.Equal(t, 60*time.Second, err.RetryAfter)
}

func TestRateLimitError_UnwrapAndIs(t *testing.T) {
	inner := errors.New("slow down")
	var err error = fmt.Errorf("extract: %w", llm.NewRateLimitError("claude", inner, 5))

	var rle *llm.RateLimitError
	assert.True(t, errors.As(err, &rle))
	assert.Equal(t, "claude", rle.Provider)
	assert.ErrorIs(t, err, inner)
	assert.ErrorIs(t, err, domain.ErrInferenceFailed)
}

func TestCallError(t *testing.T) {
	inner := errors.New("401 NotAuthenticated")
	err := llm.NewCallError("oci", 401, inner)

	assert.Equal(t, "oci inference failed (status 401): 401 NotAuthenticated", err.Error())
	assert.ErrorIs(t, err, domain.ErrInferenceFailed)
	assert.ErrorIs(t, err, inner)

	noStatus := llm.NewCallError("openai", 0, nil)
	assert.Equal(t, "openai inference failed: no response", noStatus.Error())
}

func TestParseRetryAfterHeader(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"30", 30},
		{"120", 120},
		{"not-a-number", 0},
		{"Wed, 21 Oct 2015 07:28:00 GMT", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, llm.ParseRetryAfterHeader(tt.input), "input %q", tt.input)
	}
}

package llm

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"poextract/internal/domain"
)

// RateLimitError indicates an inference provider returned HTTP 429.
// The run is not retried; RetryAfter is surfaced to the caller.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// Is reports a rate limit as an inference failure.
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrInferenceFailed
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// CallError is a non-rate-limit failure talking to a provider. It matches
// domain.ErrInferenceFailed.
type CallError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *CallError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s inference failed (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s inference failed: %v", e.Provider, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

func (e *CallError) Is(target error) bool {
	return target == domain.ErrInferenceFailed
}

// NewCallError wraps err as a CallError. A nil err gets a generic message.
func NewCallError(provider string, status int, err error) *CallError {
	if err == nil {
		err = errors.New("no response")
	}
	return &CallError{Provider: provider, StatusCode: status, Err: err}
}

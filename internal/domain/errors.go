package domain

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates a provider has no credentials and cannot be used.
var ErrNotConfigured = errors.New("provider not configured")

// ErrNoProvider indicates no provider is available for a request. This is a
// fatal configuration error, not a retryable one.
var ErrNoProvider = errors.New("no provider available")

// ErrRateLimited indicates the backend signaled throttling. Providers retry
// this with exponential backoff before giving up.
var ErrRateLimited = errors.New("rate limited")

// ErrInvalidResponse indicates the backend returned empty or too-short
// output. It triggers fallback, not a retry.
var ErrInvalidResponse = errors.New("invalid response")

// ErrCacheMiss indicates no cached entry was found.
var ErrCacheMiss = errors.New("cache miss")

// AllProvidersFailedError is returned when every candidate in the fallback
// chain failed. It carries the last underlying error.
type AllProvidersFailedError struct {
	Attempts     int
	LastProvider string
	LastErr      error
}

func (e *AllProvidersFailedError) Error() string {
	return fmt.Sprintf("all %d providers failed, last error from %s: %v",
		e.Attempts, e.LastProvider, e.LastErr)
}

func (e *AllProvidersFailedError) Unwrap() error {
	return e.LastErr
}

package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrMissingToken indicates the client was created without a bearer token
	ErrMissingToken = errors.New("tmdb bearer token is required")
	// ErrEmptyQuery indicates a search was attempted with blank text
	ErrEmptyQuery = errors.New("search query is empty")
)

// TransportError is returned when a request did not produce an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError represents a non-2xx answer from TMDB
type UpstreamError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tmdb API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *UpstreamError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *UpstreamError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRateLimited reports whether TMDB throttled the request
func (e *UpstreamError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsRetryable reports whether a failed search should be attempted again. Every
// upstream and transport failure is retried; errors raised before any request is
// sent are not.
func IsRetryable(err error) bool {
	return !errors.Is(err, ErrEmptyQuery) && !errors.Is(err, ErrMissingToken)
}

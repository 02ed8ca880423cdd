package config

import (
	"errors"
	"fmt"
)

// ErrMissingToken is returned when no TMDB bearer token is configured
var ErrMissingToken = errors.New("TMDB bearer token is not set (use TMDB_TOKEN or tmdb.token)")

// FieldError indicates an invalid configuration value
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

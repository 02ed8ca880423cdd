package query

import "time"

// Status is the observable state of a key
type Status int

const (
	// StatusIdle means nothing has been requested
	StatusIdle Status = iota
	// StatusLoading means no usable data exists yet
	StatusLoading
	// StatusError means the last fetch for the key failed terminally
	StatusError
	// StatusSuccess means data is present
	StatusSuccess
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Result is a snapshot of what a consumer should display for a key.
type Result[V any] struct {
	Status Status
	Data   V
	Err    error

	// Placeholder is set when Data belongs to a previously displayed key while the
	// requested key has not loaded yet.
	Placeholder bool
	// Stale is set when Data is older than the staleness window.
	Stale bool
	// Fetching reports an in-flight fetch for the key.
	Fetching bool

	UpdatedAt time.Time
}

// IsLoading reports whether there is nothing to show yet
func (r Result[V]) IsLoading() bool {
	return r.Status == StatusLoading
}

// IsError reports a terminal failure for the key
func (r Result[V]) IsError() bool {
	return r.Status == StatusError
}

// HasData reports whether Data may be rendered
func (r Result[V]) HasData() bool {
	return r.Status == StatusSuccess
}

// NeedsFetch reports whether the consumer should start a fetch for the key
func (r Result[V]) NeedsFetch() bool {
	return r.Status != StatusSuccess || r.Placeholder || r.Stale
}

// Stats counts cache and network activity
type Stats struct {
	Hits    int64
	Misses  int64
	Fetches int64
	Retries int64
}

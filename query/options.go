package query

import (
	"context"
	"errors"
	"time"
)

// Defaults mirror the interactive search policy: five minute staleness window and
// two additional attempts after a failure.
const (
	DefaultStaleTime           = 5 * time.Minute
	DefaultRetries             = 2
	DefaultRetryDelay          = time.Second
	DefaultMaxEntries          = 100
	DefaultPrefetchConcurrency = 2
)

// Option configures a Coordinator.
type Option func(*options)

type options struct {
	staleTime           time.Duration
	retries             int
	retryDelay          time.Duration
	maxEntries          int
	prefetchConcurrency int
	retryIf             func(error) bool
	clock               func() time.Time
}

func defaultOptions() options {
	return options{
		staleTime:           DefaultStaleTime,
		retries:             DefaultRetries,
		retryDelay:          DefaultRetryDelay,
		maxEntries:          DefaultMaxEntries,
		prefetchConcurrency: DefaultPrefetchConcurrency,
		retryIf:             func(error) bool { return true },
		clock:               time.Now,
	}
}

// WithStaleTime sets how long a successful result is served without refetching.
func WithStaleTime(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.staleTime = d
		}
	}
}

// WithRetries sets the number of additional attempts after a failed fetch.
func WithRetries(retries int) Option {
	return func(o *options) {
		if retries >= 0 {
			o.retries = retries
		}
	}
}

// WithRetryDelay sets the base delay between attempts. Later attempts back off.
func WithRetryDelay(delay time.Duration) Option {
	return func(o *options) {
		if delay >= 0 {
			o.retryDelay = delay
		}
	}
}

// WithMaxEntries bounds the number of cached keys.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// WithPrefetchConcurrency limits parallel fetches started by Prefetch.
func WithPrefetchConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.prefetchConcurrency = n
		}
	}
}

// WithRetryIf restricts which errors are retried. Context cancellation is never
// retried regardless of fn.
func WithRetryIf(fn func(error) bool) Option {
	return func(o *options) {
		if fn != nil {
			o.retryIf = fn
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func (o options) shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return o.retryIf(err)
}

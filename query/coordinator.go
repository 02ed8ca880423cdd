// Package query coordinates asynchronous fetches keyed by a comparable value.
//
// A Coordinator caches results for a staleness window, coalesces concurrent fetches
// of the same key, retries failures a bounded number of times and keeps the last
// successful data of the active key available as a placeholder while another key
// loads.
package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/s0up4200/reelsearch/cache"
)

// FetchFunc loads the value for a key
type FetchFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

type entry[V any] struct {
	data      V
	err       error
	fetchedAt time.Time
}

// Coordinator caches and deduplicates fetches per key
type Coordinator[K comparable, V any] struct {
	fetch   FetchFunc[K, V]
	opts    options
	logger  zerolog.Logger
	group   singleflight.Group
	entries *cache.LRU[K, *entry[V]]

	mu        sync.Mutex
	inflight  map[K]int
	active    K
	hasActive bool
	previous  *entry[V]

	hits    atomic.Int64
	misses  atomic.Int64
	fetches atomic.Int64
	retries atomic.Int64
}

// New creates a Coordinator around fetch
func New[K comparable, V any](fetch FetchFunc[K, V], logger zerolog.Logger, opts ...Option) *Coordinator[K, V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Coordinator[K, V]{
		fetch:    fetch,
		opts:     o,
		logger:   logger,
		entries:  cache.New[K, *entry[V]](o.maxEntries),
		inflight: make(map[K]int),
	}
}

// Request marks key as the one being displayed and returns what to show for it.
// The boolean reports whether the caller should start a Fetch. A failure recorded
// for key is discarded so that requesting it again retries.
func (c *Coordinator[K, V]) Request(key K) (Result[V], bool) {
	if e, ok := c.entries.Peek(key); ok && e.err != nil {
		c.entries.Remove(key)
	}

	c.mu.Lock()
	c.active, c.hasActive = key, true
	c.mu.Unlock()

	res := c.Observe(key)
	return res, res.NeedsFetch()
}

// Observe returns a snapshot for key without starting any work
func (c *Coordinator[K, V]) Observe(key K) Result[V] {
	e, cached := c.entries.Get(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	res := Result[V]{Fetching: c.inflight[key] > 0}

	if cached {
		if e.err != nil {
			res.Status = StatusError
			res.Err = e.err
			return res
		}
		res.Status = StatusSuccess
		res.Data = e.data
		res.UpdatedAt = e.fetchedAt
		res.Stale = c.isStale(e)
		if c.hasActive && c.active == key {
			c.previous = e
		}
		return res
	}

	if c.previous != nil {
		res.Status = StatusSuccess
		res.Data = c.previous.data
		res.UpdatedAt = c.previous.fetchedAt
		res.Placeholder = true
		return res
	}

	res.Status = StatusLoading
	return res
}

// Fetch returns the cached value for key when it is fresh, otherwise loads it.
// Concurrent calls for the same key share one load.
func (c *Coordinator[K, V]) Fetch(ctx context.Context, key K) (V, error) {
	if e, ok := c.entries.Get(key); ok && e.err == nil && !c.isStale(e) {
		c.hits.Add(1)
		return e.data, nil
	}
	c.misses.Add(1)

	v, err, shared := c.group.Do(groupKey(key), func() (any, error) {
		return c.load(ctx, key)
	})
	if shared {
		c.logger.Debug().Str("key", groupKey(key)).Msg("Joined in-flight fetch")
	}

	data, _ := v.(V)
	if err != nil {
		var zero V
		return zero, err
	}
	return data, nil
}

// load performs the network fetch with retries and records the outcome
func (c *Coordinator[K, V]) load(ctx context.Context, key K) (V, error) {
	// Another caller may have finished a load between the cache check and
	// acquiring the flight.
	if e, ok := c.entries.Peek(key); ok && e.err == nil && !c.isStale(e) {
		return e.data, nil
	}

	c.setInflight(key, 1)
	defer c.setInflight(key, -1)

	var (
		data     V
		attempts int
	)

	err := retry.Do(
		func() error {
			attempts++
			c.fetches.Add(1)
			v, err := c.fetch(ctx, key)
			if err != nil {
				return err
			}
			data = v
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.opts.retries)+1),
		retry.Delay(c.opts.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(c.opts.shouldRetry),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug().
				Err(err).
				Uint("attempt", n+1).
				Str("key", groupKey(key)).
				Msg("Fetch attempt failed")
		}),
	)
	if attempts > 1 {
		c.retries.Add(int64(attempts - 1))
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			var zero V
			return zero, err
		}
		c.logger.Warn().
			Err(err).
			Int("attempts", attempts).
			Str("key", groupKey(key)).
			Msg("Fetch failed")
		c.store(key, entry[V]{err: err})
		var zero V
		return zero, err
	}

	c.store(key, entry[V]{data: data})
	return data, nil
}

// store records a fetch outcome. Only a success for the active key becomes the
// keep-previous-data value.
func (c *Coordinator[K, V]) store(key K, e entry[V]) {
	e.fetchedAt = c.opts.clock()
	stored := &e
	c.entries.Put(key, stored)

	if e.err != nil {
		return
	}

	c.mu.Lock()
	if c.hasActive && c.active == key {
		c.previous = stored
	}
	c.mu.Unlock()
}

// Prefetch warms keys in the background with bounded parallelism. Failures are
// logged and otherwise ignored.
func (c *Coordinator[K, V]) Prefetch(ctx context.Context, keys ...K) {
	if len(keys) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.prefetchConcurrency)

	for _, key := range keys {
		g.Go(func() error {
			if _, err := c.Fetch(ctx, key); err != nil {
				c.logger.Debug().Err(err).Str("key", groupKey(key)).Msg("Prefetch failed")
			}
			return nil
		})
	}

	g.Wait()
}

// Invalidate drops the cached value for key
func (c *Coordinator[K, V]) Invalidate(key K) {
	c.entries.Remove(key)
}

// Clear drops every cached value and the placeholder
func (c *Coordinator[K, V]) Clear() {
	c.entries.Clear()

	c.mu.Lock()
	c.previous = nil
	c.mu.Unlock()
}

// Stats returns counters since creation
func (c *Coordinator[K, V]) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Fetches: c.fetches.Load(),
		Retries: c.retries.Load(),
	}
}

func (c *Coordinator[K, V]) isStale(e *entry[V]) bool {
	return c.opts.clock().Sub(e.fetchedAt) >= c.opts.staleTime
}

func (c *Coordinator[K, V]) setInflight(key K, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inflight[key] += delta
	if c.inflight[key] <= 0 {
		delete(c.inflight, key)
	}
}

func groupKey[K comparable](key K) string {
	return fmt.Sprintf("%#v", key)
}

package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageKey struct {
	Query string
	Page  int
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingFetcher returns "query#page" and counts calls per key
type countingFetcher struct {
	mu     sync.Mutex
	calls  map[pageKey]int
	failN  map[pageKey]int
	err    error
	total  atomic.Int64
	before func(pageKey)
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{
		calls: make(map[pageKey]int),
		failN: make(map[pageKey]int),
		err:   errors.New("upstream unavailable"),
	}
}

func (f *countingFetcher) Fetch(ctx context.Context, key pageKey) (string, error) {
	if f.before != nil {
		f.before(key)
	}
	f.total.Add(1)

	f.mu.Lock()
	f.calls[key]++
	n := f.calls[key]
	fail := f.failN[key]
	f.mu.Unlock()

	if n <= fail {
		return "", f.err
	}
	return fmt.Sprintf("%s#%d", key.Query, key.Page), nil
}

func (f *countingFetcher) Calls(key pageKey) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func newTestCoordinator(f *countingFetcher, clock *fakeClock, opts ...Option) *Coordinator[pageKey, string] {
	base := []Option{
		WithClock(clock.Now),
		WithRetryDelay(time.Millisecond),
	}
	return New(f.Fetch, zerolog.Nop(), append(base, opts...)...)
}

func TestFetchCachesWithinStaleTime(t *testing.T) {
	f := newCountingFetcher()
	clock := newFakeClock()
	c := newTestCoordinator(f, clock)
	ctx := context.Background()
	key := pageKey{"batman", 1}

	for range 3 {
		v, err := c.Fetch(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "batman#1", v)
	}
	assert.Equal(t, 1, f.Calls(key))

	clock.Advance(4 * time.Minute)
	_, err := c.Fetch(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Calls(key), "still inside the staleness window")

	clock.Advance(time.Minute)
	_, err = c.Fetch(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Calls(key), "entry older than five minutes is a miss")

	stats := c.Stats()
	assert.Equal(t, int64(3), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, int64(2), stats.Fetches)
}

func TestFetchDistinctKeys(t *testing.T) {
	f := newCountingFetcher()
	c := newTestCoordinator(f, newFakeClock())
	ctx := context.Background()

	for _, key := range []pageKey{{"batman", 1}, {"batman", 2}, {"alien", 1}, {"batman", 1}} {
		_, err := c.Fetch(ctx, key)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(3), f.total.Load())
}

func TestFetchCoalescesConcurrentCalls(t *testing.T) {
	f := newCountingFetcher()
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	f.before = func(pageKey) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	}

	c := newTestCoordinator(f, newFakeClock())
	key := pageKey{"batman", 1}

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), key)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	<-started
	assert.True(t, c.Observe(key).Fetching)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, f.Calls(key))
	for _, v := range results {
		assert.Equal(t, "batman#1", v)
	}
	assert.False(t, c.Observe(key).Fetching)
}

func TestFetchRetries(t *testing.T) {
	t.Run("succeeds on third attempt", func(t *testing.T) {
		f := newCountingFetcher()
		key := pageKey{"batman", 1}
		f.failN[key] = 2

		c := newTestCoordinator(f, newFakeClock())
		v, err := c.Fetch(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, "batman#1", v)
		assert.Equal(t, 3, f.Calls(key))
		assert.Equal(t, int64(2), c.Stats().Retries)
	})

	t.Run("gives up after two retries", func(t *testing.T) {
		f := newCountingFetcher()
		key := pageKey{"batman", 1}
		f.failN[key] = 10

		c := newTestCoordinator(f, newFakeClock())
		_, err := c.Fetch(context.Background(), key)
		require.Error(t, err)
		assert.Equal(t, f.err.Error(), err.Error())
		assert.Equal(t, 3, f.Calls(key))

		res := c.Observe(key)
		assert.Equal(t, StatusError, res.Status)
		assert.Equal(t, "", res.Data)
		assert.True(t, res.IsError())
	})

	t.Run("custom retry count", func(t *testing.T) {
		f := newCountingFetcher()
		key := pageKey{"batman", 1}
		f.failN[key] = 10

		c := newTestCoordinator(f, newFakeClock(), WithRetries(0))
		_, err := c.Fetch(context.Background(), key)
		require.Error(t, err)
		assert.Equal(t, 1, f.Calls(key))
	})

	t.Run("retry predicate rejects error", func(t *testing.T) {
		f := newCountingFetcher()
		key := pageKey{"batman", 1}
		f.failN[key] = 10
		permanent := f.err

		c := newTestCoordinator(f, newFakeClock(), WithRetryIf(func(err error) bool {
			return !errors.Is(err, permanent)
		}))
		_, err := c.Fetch(context.Background(), key)
		require.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, f.Calls(key))
	})
}

func TestFetchCanceledIsNotRecorded(t *testing.T) {
	f := newCountingFetcher()
	key := pageKey{"batman", 1}
	f.err = context.Canceled
	f.failN[key] = 1

	c := newTestCoordinator(f, newFakeClock())
	_, err := c.Fetch(context.Background(), key)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.Calls(key))

	res := c.Observe(key)
	assert.Equal(t, StatusLoading, res.Status)
}

func TestRequestKeepsPreviousData(t *testing.T) {
	f := newCountingFetcher()
	c := newTestCoordinator(f, newFakeClock())
	ctx := context.Background()

	first := pageKey{"batman", 1}
	res, needFetch := c.Request(first)
	assert.Equal(t, StatusLoading, res.Status)
	assert.True(t, needFetch)

	_, err := c.Fetch(ctx, first)
	require.NoError(t, err)

	res = c.Observe(first)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.False(t, res.Placeholder)

	second := pageKey{"batman", 2}
	res, needFetch = c.Request(second)
	assert.True(t, needFetch)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.True(t, res.Placeholder)
	assert.Equal(t, "batman#1", res.Data)

	_, err = c.Fetch(ctx, second)
	require.NoError(t, err)

	res, needFetch = c.Request(second)
	assert.False(t, needFetch)
	assert.False(t, res.Placeholder)
	assert.Equal(t, "batman#2", res.Data)

	// Going back to a cached page needs no fetch
	res, needFetch = c.Request(first)
	assert.False(t, needFetch)
	assert.Equal(t, "batman#1", res.Data)
	assert.Equal(t, 2, int(f.total.Load()))
}

func TestLateResponseDoesNotBecomePlaceholder(t *testing.T) {
	f := newCountingFetcher()
	c := newTestCoordinator(f, newFakeClock())
	ctx := context.Background()

	shown := pageKey{"batman", 1}
	c.Request(shown)
	_, err := c.Fetch(ctx, shown)
	require.NoError(t, err)

	abandoned := pageKey{"batman", 2}
	c.Request(abandoned)

	current := pageKey{"alien", 1}
	c.Request(current)

	// The abandoned page arrives after the user moved on
	_, err = c.Fetch(ctx, abandoned)
	require.NoError(t, err)

	res := c.Observe(current)
	assert.True(t, res.Placeholder)
	assert.Equal(t, "batman#1", res.Data)
}

func TestRequestRetriesErroredKey(t *testing.T) {
	f := newCountingFetcher()
	key := pageKey{"batman", 1}
	f.failN[key] = 3

	c := newTestCoordinator(f, newFakeClock())
	c.Request(key)
	_, err := c.Fetch(context.Background(), key)
	require.Error(t, err)
	assert.True(t, c.Observe(key).IsError())

	res, needFetch := c.Request(key)
	assert.True(t, needFetch)
	assert.Equal(t, StatusLoading, res.Status)

	v, err := c.Fetch(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "batman#1", v)
	assert.Equal(t, 4, f.Calls(key))
}

func TestObserveStaleData(t *testing.T) {
	f := newCountingFetcher()
	clock := newFakeClock()
	c := newTestCoordinator(f, clock)
	key := pageKey{"batman", 1}

	c.Request(key)
	_, err := c.Fetch(context.Background(), key)
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)

	res, needFetch := c.Request(key)
	assert.True(t, needFetch)
	assert.True(t, res.Stale)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "batman#1", res.Data)
}

func TestPrefetch(t *testing.T) {
	f := newCountingFetcher()
	c := newTestCoordinator(f, newFakeClock(), WithPrefetchConcurrency(2))
	ctx := context.Background()

	keys := []pageKey{{"batman", 2}, {"batman", 3}, {"batman", 4}}
	failing := pageKey{"batman", 5}
	f.failN[failing] = 10

	c.Prefetch(ctx, append(keys, failing)...)

	for _, key := range keys {
		_, err := c.Fetch(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 1, f.Calls(key))
	}
	assert.Equal(t, 3, f.Calls(failing))
}

func TestInvalidateAndClear(t *testing.T) {
	f := newCountingFetcher()
	c := newTestCoordinator(f, newFakeClock())
	ctx := context.Background()
	key := pageKey{"batman", 1}

	c.Request(key)
	_, err := c.Fetch(ctx, key)
	require.NoError(t, err)

	c.Invalidate(key)
	_, err = c.Fetch(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Calls(key))

	c.Clear()
	res := c.Observe(pageKey{"alien", 1})
	assert.Equal(t, StatusLoading, res.Status)
	assert.False(t, res.Placeholder)
}

func TestMaxEntriesEvicts(t *testing.T) {
	f := newCountingFetcher()
	c := newTestCoordinator(f, newFakeClock(), WithMaxEntries(2))
	ctx := context.Background()

	for p := 1; p <= 3; p++ {
		_, err := c.Fetch(ctx, pageKey{"batman", p})
		require.NoError(t, err)
	}

	_, err := c.Fetch(ctx, pageKey{"batman", 1})
	require.NoError(t, err)
	assert.Equal(t, 2, f.Calls(pageKey{"batman", 1}))
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusIdle, "idle"},
		{StatusLoading, "loading"},
		{StatusError, "error"},
		{StatusSuccess, "success"},
		{Status(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

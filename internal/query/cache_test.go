package query

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	ts   map[string]time.Time
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ts: map[string]time.Time{}}
}

func (s *memStore) Get(key string) ([]byte, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[key]
	return d, s.ts[key], ok
}

func (s *memStore) Put(key string, data []byte, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	s.ts[key] = fetchedAt
	return nil
}

func (s *memStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	delete(s.ts, key)
}

func (s *memStore) DeletePrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
			delete(s.ts, k)
		}
	}
}

func (s *memStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string][]byte{}
	s.ts = map[string]time.Time{}
}

func (s *memStore) Close() error { return nil }

func (s *memStore) has(key string) bool {
	_, _, ok := s.Get(key)
	return ok
}

// counting returns a fetcher that records calls and returns the given values in turn
func counting(calls *atomic.Int32, values ...any) Fetcher {
	return func(ctx context.Context) (any, error) {
		n := int(calls.Add(1)) - 1
		if n >= len(values) {
			n = len(values) - 1
		}
		if err, ok := values[n].(error); ok {
			return nil, err
		}
		return values[n], nil
	}
}

// settled subscribes to key and returns a channel receiving each completed result
func settled(c *Cache, key Key) (<-chan Result, *Subscription) {
	ch := make(chan Result, 8)
	sub := c.Subscribe(key, func(r Result) { ch <- r })
	return ch, sub
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fetch to settle")
		return Result{}
	}
}

func TestKeyIdentity(t *testing.T) {
	assert.Equal(t, NewKey(KindSearch, "matrix"), NewKey(KindSearch, "matrix"))
	assert.NotEqual(t, NewKey(KindSearch, "matrix"), NewKey(KindSearch, "Matrix"))
	assert.NotEqual(t, NewKey(KindSearch, "a/b"), NewKey(KindSearch, "a", "b"))
	assert.NotEqual(t, NewKey(KindMovieDetails, 550), NewKey(KindMovieCredits, 550))
	assert.Equal(t, "popular", NewKey(KindPopular).String())
	assert.Equal(t, `movieDetails/550`, NewKey(KindMovieDetails, 550).String())
	assert.True(t, Key{}.IsZero())
}

func TestFetchCachesFreshResults(t *testing.T) {
	c := New()
	var calls atomic.Int32
	key := NewKey(KindPopular)

	v, err := c.Fetch(context.Background(), key, counting(&calls, "v1"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	v, err = c.Fetch(context.Background(), key, counting(&calls, "v2"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestConcurrentFetchesAreCoalesced(t *testing.T) {
	c := New()
	key := NewKey(KindSearch, "matrix")

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return []string{"The Matrix"}, nil
	}

	// Start the in-flight fetch, then pile callers onto it
	first := c.Get(context.Background(), key, fetch, Options{})
	assert.Equal(t, StatusPending, first.Status)
	assert.True(t, first.IsFetching)
	assert.False(t, first.HasData())

	const callers = 10
	var wg sync.WaitGroup
	results := make([]any, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), key, fetch, Options{})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, []string{"The Matrix"}, r)
	}
}

// A fast upstream must not let Fetch race ahead of the fetch Get started
func TestGetThenFetchSharesOneCall(t *testing.T) {
	for i := 0; i < 100; i++ {
		c := New()
		key := NewKey(KindCategoryMovies, 28)
		var calls atomic.Int32
		fetch := counting(&calls, []string{"Heat"})

		c.Get(context.Background(), key, fetch, Options{})
		v, err := c.Fetch(context.Background(), key, fetch, Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Heat"}, v)

		time.Sleep(time.Millisecond)
		require.Equal(t, int32(1), calls.Load(), "iteration %d", i)
		c.Close()
	}
}

func TestFetchReturnsOnCallerCancellation(t *testing.T) {
	c := New()
	key := NewKey(KindGenres)
	ch, sub := settled(c, key)
	defer sub.Unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
			<-release
			return "genres", ctx.Err()
		}, Options{})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Fetch did not return after cancellation")
	}

	close(release)
	r := waitResult(t, ch)
	assert.Equal(t, StatusSuccess, r.Status)
	assert.Equal(t, "genres", r.Data)
}

func TestStaleWhileRevalidate(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))
	key := NewKey(KindSearch, "alien")
	opts := Options{StaleAfter: SearchStaleAfter}

	var calls atomic.Int32
	fetch := counting(&calls, "v1", "v2")

	_, err := c.Fetch(context.Background(), key, fetch, opts)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	r := c.Get(context.Background(), key, fetch, opts)
	assert.Equal(t, "v1", r.Data)
	assert.False(t, r.IsFetching)
	assert.Equal(t, int32(1), calls.Load())

	ch, sub := settled(c, key)
	defer sub.Unsubscribe()

	clock.Advance(time.Minute)
	r = c.Get(context.Background(), key, fetch, opts)
	assert.Equal(t, "v1", r.Data, "stale data is served while refetching")
	assert.True(t, r.IsFetching)

	done := waitResult(t, ch)
	assert.Equal(t, StatusSuccess, done.Status)
	assert.Equal(t, "v2", done.Data)
	assert.Equal(t, "v2", c.Peek(key).Data)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFailedRefetchKeepsPreviousData(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))
	key := NewKey(KindMovieDetails, 550)

	var calls atomic.Int32
	boom := errors.New("boom")
	fetch := counting(&calls, "fight club", boom)

	_, err := c.Fetch(context.Background(), key, fetch, Options{})
	require.NoError(t, err)

	ch, sub := settled(c, key)
	defer sub.Unsubscribe()

	clock.Advance(2 * time.Hour)
	c.Get(context.Background(), key, fetch, Options{})

	r := waitResult(t, ch)
	assert.Equal(t, StatusError, r.Status)
	assert.ErrorIs(t, r.Err, boom)
	assert.True(t, r.HasData())
	assert.Equal(t, "fight club", r.Data)

	// Blocking callers still get the previous success
	v, err := c.Fetch(context.Background(), key, fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, "fight club", v)
}

func TestErrorEntryRefetchesOnNextRequest(t *testing.T) {
	c := New()
	key := NewKey(KindSearch, "xx")
	boom := errors.New("boom")

	var calls atomic.Int32
	fetch := counting(&calls, boom, "ok")

	_, err := c.Fetch(context.Background(), key, fetch, Options{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StatusError, c.Peek(key).Status)

	v, err := c.Fetch(context.Background(), key, fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, StatusSuccess, c.Peek(key).Status)
}

func TestPlaceholderRetention(t *testing.T) {
	c := New()
	action := NewKey(KindCategoryMovies, 28)
	comedy := NewKey(KindCategoryMovies, 35)

	_, err := c.Fetch(context.Background(), action, func(ctx context.Context) (any, error) {
		return []string{"Die Hard"}, nil
	}, Options{})
	require.NoError(t, err)

	release := make(chan struct{})
	defer close(release)
	slow := func(ctx context.Context) (any, error) {
		<-release
		return []string{"Airplane!"}, nil
	}

	r := c.Get(context.Background(), comedy, slow, Options{Placeholder: action})
	assert.Equal(t, StatusPending, r.Status)
	assert.True(t, r.IsPlaceholder)
	assert.True(t, r.IsFetching)
	assert.Equal(t, []string{"Die Hard"}, r.Data)

	// The placeholder is never written into the new key
	assert.False(t, c.Peek(comedy).HasData())
}

func TestPlaceholderIgnoredOnceKeyHasData(t *testing.T) {
	c := New()
	a := NewKey(KindCategoryMovies, 1)
	b := NewKey(KindCategoryMovies, 2)

	_, _ = c.Fetch(context.Background(), a, func(ctx context.Context) (any, error) { return "a", nil }, Options{})
	_, _ = c.Fetch(context.Background(), b, func(ctx context.Context) (any, error) { return "b", nil }, Options{})

	r := c.Get(context.Background(), b, nil, Options{Placeholder: a})
	assert.False(t, r.IsPlaceholder)
	assert.Equal(t, "b", r.Data)
}

func TestDisabledQueryNeverFetches(t *testing.T) {
	c := New()
	var calls atomic.Int32
	key := NewKey(KindSearch, "a")

	r := c.Get(context.Background(), key, counting(&calls, "x"), Options{Disabled: true})
	assert.Equal(t, StatusIdle, r.Status)
	assert.False(t, r.IsFetching)

	_, err := c.Fetch(context.Background(), key, counting(&calls, "x"), Options{Disabled: true})
	assert.ErrorIs(t, err, ErrDisabled)

	assert.Zero(t, calls.Load())
	assert.Zero(t, c.Len())
}

func TestCallerCancellationDoesNotAbortBackgroundFetch(t *testing.T) {
	c := New()
	key := NewKey(KindGenres)
	ch, sub := settled(c, key)
	defer sub.Unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	c.Get(ctx, key, func(ctx context.Context) (any, error) {
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return "genres", nil
	}, Options{})
	cancel()
	close(release)

	r := waitResult(t, ch)
	assert.Equal(t, StatusSuccess, r.Status)
	assert.Equal(t, "genres", r.Data)
}

func TestPruneEvictsExpiredEntries(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now), WithGCGrace(time.Minute))

	fetch := func(ctx context.Context) (any, error) { return "x", nil }
	_, _ = c.Fetch(context.Background(), NewKey(KindSearch, "short"), fetch, Options{StaleAfter: time.Minute})
	_, _ = c.Fetch(context.Background(), NewKey(KindPopular), fetch, Options{StaleAfter: time.Hour})
	require.Equal(t, 2, c.Len())

	clock.Advance(90 * time.Second)
	assert.Zero(t, c.Prune())

	clock.Advance(time.Minute)
	assert.Equal(t, 1, c.Prune())
	assert.False(t, c.Peek(NewKey(KindSearch, "short")).HasData())
	assert.True(t, c.Peek(NewKey(KindPopular)).HasData())
}

func TestInvalidate(t *testing.T) {
	c := New()
	fetch := func(ctx context.Context) (any, error) { return "x", nil }
	_, _ = c.Fetch(context.Background(), NewKey(KindCategoryMovies, 1), fetch, Options{})
	_, _ = c.Fetch(context.Background(), NewKey(KindCategoryMovies, 2), fetch, Options{})
	_, _ = c.Fetch(context.Background(), NewKey(KindGenres), fetch, Options{})

	c.Invalidate(NewKey(KindGenres))
	assert.Equal(t, 2, c.Len())

	c.InvalidatePrefix(KindCategoryMovies)
	assert.Zero(t, c.Len())
}

func TestResetClearsWarmTier(t *testing.T) {
	store := newMemStore()
	c := New(WithStore(store))
	key := NewKey(KindGenres)

	_, err := Load(context.Background(), c, key, func(ctx context.Context) ([]string, error) {
		return []string{"Action"}, nil
	}, Options{Persist: true})
	require.NoError(t, err)
	require.True(t, store.has(key.String()))

	c.Reset()
	assert.Zero(t, c.Len())
	assert.False(t, store.has(key.String()))
}

func TestSubscriptionLifecycle(t *testing.T) {
	c := New()
	key := NewKey(KindPopular)

	var mu sync.Mutex
	var seen []Key
	all := c.SubscribeAll(func(k Key, r Result) {
		mu.Lock()
		seen = append(seen, k)
		mu.Unlock()
	})

	_, _ = c.Fetch(context.Background(), key, func(ctx context.Context) (any, error) { return 1, nil }, Options{})
	all.Unsubscribe()
	all.Unsubscribe()
	_, _ = c.Fetch(context.Background(), NewKey(KindTopRated), func(ctx context.Context) (any, error) { return 2, nil }, Options{})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Key{key}, seen)
}

func TestLoadTyped(t *testing.T) {
	c := New()
	key := NewKey(KindGenres)

	got, err := Load(context.Background(), c, key, func(ctx context.Context) ([]string, error) {
		return []string{"Action", "Comedy"}, nil
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Comedy"}, got)

	v, ok := Value[[]string](c.Peek(key))
	assert.True(t, ok)
	assert.Equal(t, got, v)

	_, err = Load(context.Background(), c, key, func(ctx context.Context) (int, error) { return 0, nil }, Options{})
	assert.Error(t, err, "type mismatch on an existing key is reported")
}

func TestWarmTierSeedsFreshEntries(t *testing.T) {
	clock := newFakeClock()
	store := newMemStore()
	key := NewKey(KindPopular)

	first := New(WithClock(clock.Now), WithStore(store))
	_, err := Load(context.Background(), first, key, func(ctx context.Context) ([]string, error) {
		return []string{"Dune"}, nil
	}, Options{Persist: true})
	require.NoError(t, err)
	require.True(t, store.has(key.String()))

	clock.Advance(10 * time.Minute)

	var calls atomic.Int32
	second := New(WithClock(clock.Now), WithStore(store))
	got, err := Load(context.Background(), second, key, func(ctx context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"fresh"}, nil
	}, Options{Persist: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, got)
	assert.Zero(t, calls.Load())
}

func TestWarmTierNeverResurrectsStaleEntries(t *testing.T) {
	clock := newFakeClock()
	store := newMemStore()
	key := NewKey(KindPopular)

	first := New(WithClock(clock.Now), WithStore(store))
	_, err := Load(context.Background(), first, key, func(ctx context.Context) ([]string, error) {
		return []string{"old"}, nil
	}, Options{Persist: true})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	second := New(WithClock(clock.Now), WithStore(store))
	got, err := Load(context.Background(), second, key, func(ctx context.Context) ([]string, error) {
		return nil, errors.New("offline")
	}, Options{Persist: true})
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.False(t, store.has(key.String()))
}

func TestSearchEntriesAreNeverPersisted(t *testing.T) {
	store := newMemStore()
	c := New(WithStore(store))
	key := NewKey(KindSearch, "matrix")

	_, err := Load(context.Background(), c, key, func(ctx context.Context) ([]string, error) {
		return []string{"The Matrix"}, nil
	}, Options{Persist: true})
	require.NoError(t, err)
	assert.False(t, store.has(key.String()))
}

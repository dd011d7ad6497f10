package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mmcdole/movied/internal/domain"
)

// Default freshness windows
const (
	DefaultStaleAfter = time.Hour
	SearchStaleAfter  = time.Minute
	DefaultGCGrace    = 5 * time.Minute
)

// ErrDisabled is returned by Fetch when the options disable the query
var ErrDisabled = errors.New("query is disabled")

// Status is the lifecycle phase of a cache entry
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Fetcher performs the upstream request for a key
type Fetcher func(ctx context.Context) (any, error)

// Options control a single lookup
type Options struct {
	// StaleAfter is how long a success stays fresh. Zero uses the cache default.
	StaleAfter time.Duration

	// Disabled performs no fetch; Get returns an idle result
	Disabled bool

	// Placeholder is a previous key whose data is returned (flagged
	// IsPlaceholder) until this key has data of its own
	Placeholder Key

	// Persist writes successes through to the warm tier. Live kinds are never persisted.
	Persist bool

	decode func([]byte) (any, error)
}

// Result is a snapshot of an entry as seen by one caller
type Result struct {
	Status        Status
	Data          any
	Err           error
	IsFetching    bool
	IsPlaceholder bool
	FetchedAt     time.Time

	hasData bool
}

// HasData reports whether Data holds a success payload (possibly a placeholder)
func (r Result) HasData() bool { return r.hasData }

type entry struct {
	status     Status
	data       any
	hasData    bool
	err        error
	fetchedAt  time.Time
	staleAfter time.Duration
	fetching   bool
}

func (e *entry) result() Result {
	r := Result{
		Status:     e.status,
		Err:        e.err,
		IsFetching: e.fetching,
		FetchedAt:  e.fetchedAt,
	}
	if e.hasData {
		r.Data = e.data
		r.hasData = true
	}
	return r
}

type subscriber struct {
	key Key
	all bool
	fn  func(Key, Result)
}

// Cache deduplicates and caches upstream requests by key.
// Safe for concurrent use; one Cache is shared by the whole process.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	subs    map[uint64]subscriber
	nextSub uint64
	closed  bool

	group   singleflight.Group
	store   domain.Store
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time

	defaultStale time.Duration
	gcGrace      time.Duration
}

// Option configures a Cache
type Option func(*Cache)

// WithStore enables the persistent warm tier
func WithStore(s domain.Store) Option {
	return func(c *Cache) { c.store = s }
}

// WithMetrics records cache activity
func WithMetrics(m *Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithClock replaces the wall clock (tests)
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithDefaultStaleAfter(d time.Duration) Option {
	return func(c *Cache) { c.defaultStale = d }
}

// WithGCGrace sets how long an entry outlives its freshness before Prune evicts it
func WithGCGrace(d time.Duration) Option {
	return func(c *Cache) { c.gcGrace = d }
}

// New creates a cache
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:      make(map[Key]*entry),
		subs:         make(map[uint64]subscriber),
		logger:       slog.Default(),
		now:          time.Now,
		defaultStale: DefaultStaleAfter,
		gcGrace:      DefaultGCGrace,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics, _ = NewMetrics(nil)
	}
	return c
}

// Get returns the current snapshot for key without blocking.
// A missing or stale entry starts a background fetch; stale data is served meanwhile.
func (c *Cache) Get(ctx context.Context, key Key, fetch Fetcher, opts Options) Result {
	if opts.Disabled {
		return Result{Status: StatusIdle}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.lookupLocked(key, opts)
	if e != nil && e.hasData {
		c.metrics.hits.Inc()
		if c.staleLocked(e) && !e.fetching {
			c.startLocked(ctx, key, fetch, opts)
		}
		return e.result()
	}

	c.metrics.misses.Inc()
	if e == nil || !e.fetching {
		e = c.startLocked(ctx, key, fetch, opts)
	}
	r := e.result()

	if !opts.Placeholder.IsZero() && opts.Placeholder != key {
		if p := c.entries[opts.Placeholder]; p != nil && p.hasData {
			r.Data = p.data
			r.hasData = true
			r.IsPlaceholder = true
		}
	}
	return r
}

// Fetch returns data for key, blocking only when there is nothing to serve.
// Fresh data is returned directly; stale data is returned while a background
// refetch runs; otherwise the caller joins (or starts) the in-flight fetch.
func (c *Cache) Fetch(ctx context.Context, key Key, fetch Fetcher, opts Options) (any, error) {
	if opts.Disabled {
		return nil, ErrDisabled
	}

	c.mu.Lock()
	e := c.lookupLocked(key, opts)
	if e != nil && e.hasData {
		c.metrics.hits.Inc()
		if c.staleLocked(e) && !e.fetching {
			c.startLocked(ctx, key, fetch, opts)
		}
		data := e.data
		c.mu.Unlock()
		return data, nil
	}

	c.metrics.misses.Inc()
	if e == nil {
		e = &entry{}
		c.entries[key] = e
		c.metrics.entries.Set(float64(len(c.entries)))
	}
	e.status = StatusPending
	e.fetching = true
	// Joining under the lock guarantees a fetch started by Get is shared.
	// The shared fetch is not tied to this caller's cancellation.
	ch := c.joinLocked(context.WithoutCancel(ctx), key, fetch, opts)
	c.mu.Unlock()

	select {
	case r := <-ch:
		if r.Shared {
			c.metrics.coalesced.Inc()
		}
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Peek returns the snapshot for key without fetching
func (c *Cache) Peek(key Key) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.entries[key]; e != nil {
		return e.result()
	}
	return Result{Status: StatusIdle}
}

// startLocked opens a new pending phase and fetches in the background.
// The fetch outlives the caller's context cancellation.
func (c *Cache) startLocked(ctx context.Context, key Key, fetch Fetcher, opts Options) *entry {
	e := c.entries[key]
	if e == nil {
		e = &entry{}
		c.entries[key] = e
		c.metrics.entries.Set(float64(len(c.entries)))
	}
	e.status = StatusPending
	e.fetching = true

	c.joinLocked(context.WithoutCancel(ctx), key, fetch, opts)
	return e
}

// joinLocked registers with the in-flight fetch for key, starting one if
// none is running. The result channel is buffered so it may be dropped.
func (c *Cache) joinLocked(ctx context.Context, key Key, fetch Fetcher, opts Options) <-chan singleflight.Result {
	return c.group.DoChan(key.String(), func() (any, error) {
		c.metrics.fetches.Inc()
		data, err := fetch(ctx)
		c.complete(key, opts, data, err)
		return data, err
	})
}

func (c *Cache) complete(key Key, opts Options, data any, err error) {
	now := c.now()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	e := c.entries[key]
	if e == nil {
		// Invalidated while in flight
		e = &entry{}
		c.entries[key] = e
		c.metrics.entries.Set(float64(len(c.entries)))
	}
	e.fetching = false
	if err != nil {
		c.metrics.errors.Inc()
		e.status = StatusError
		e.err = err
	} else {
		e.status = StatusSuccess
		e.data = data
		e.hasData = true
		e.err = nil
		e.fetchedAt = now
		e.staleAfter = c.staleAfter(opts)
	}
	r := e.result()
	var notify []func(Key, Result)
	for _, s := range c.subs {
		if s.all || s.key == key {
			notify = append(notify, s.fn)
		}
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug("query fetch failed", "key", key.String(), "error", err)
	} else if opts.Persist && c.store != nil && !key.Kind.live() {
		c.persist(key, data, now)
	}

	for _, fn := range notify {
		fn(key, r)
	}
}

func (c *Cache) persist(key Key, data any, fetchedAt time.Time) {
	payload, err := json.Marshal(data)
	if err != nil {
		c.logger.Warn("failed to encode cache entry", "key", key.String(), "error", err)
		return
	}
	if err := c.store.Put(key.String(), payload, fetchedAt); err != nil {
		c.logger.Warn("failed to persist cache entry", "key", key.String(), "error", err)
	}
}

// lookupLocked returns the memory entry, seeding it from the warm tier when
// the stored payload is still fresh. Stale payloads are dropped, never served.
func (c *Cache) lookupLocked(key Key, opts Options) *entry {
	if e := c.entries[key]; e != nil {
		return e
	}
	if !opts.Persist || opts.decode == nil || c.store == nil || key.Kind.live() {
		return nil
	}

	payload, fetchedAt, ok := c.store.Get(key.String())
	if !ok {
		return nil
	}
	staleAfter := c.staleAfter(opts)
	if c.now().Sub(fetchedAt) >= staleAfter {
		c.store.Delete(key.String())
		return nil
	}
	data, err := opts.decode(payload)
	if err != nil {
		c.logger.Warn("dropping undecodable cache entry", "key", key.String(), "error", err)
		c.store.Delete(key.String())
		return nil
	}

	e := &entry{
		status:     StatusSuccess,
		data:       data,
		hasData:    true,
		fetchedAt:  fetchedAt,
		staleAfter: staleAfter,
	}
	c.entries[key] = e
	c.metrics.entries.Set(float64(len(c.entries)))
	return e
}

func (c *Cache) staleLocked(e *entry) bool {
	return e.status == StatusError || c.now().Sub(e.fetchedAt) >= e.staleAfter
}

func (c *Cache) staleAfter(opts Options) time.Duration {
	if opts.StaleAfter > 0 {
		return opts.StaleAfter
	}
	return c.defaultStale
}

// Invalidate drops the entry for key. An in-flight fetch still completes.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	delete(c.entries, key)
	c.metrics.entries.Set(float64(len(c.entries)))
	c.mu.Unlock()

	if c.store != nil {
		c.store.Delete(key.String())
	}
}

// InvalidatePrefix drops every entry of the given kind
func (c *Cache) InvalidatePrefix(kind Kind) {
	c.mu.Lock()
	for k := range c.entries {
		if k.Kind == kind {
			delete(c.entries, k)
		}
	}
	c.metrics.entries.Set(float64(len(c.entries)))
	c.mu.Unlock()

	if c.store != nil {
		c.store.Delete(string(kind))
		c.store.DeletePrefix(string(kind) + "/")
	}
}

// Reset drops every entry and wipes the warm tier. In-flight fetches still
// complete and repopulate their keys.
func (c *Cache) Reset() {
	c.mu.Lock()
	clear(c.entries)
	c.metrics.entries.Set(0)
	c.mu.Unlock()

	if c.store != nil {
		c.store.Clear()
	}
}

// Prune evicts entries that have been stale for longer than the GC grace
// period and returns how many were removed. In-flight entries are kept.
func (c *Cache) Prune() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if e.fetching {
			continue
		}
		if now.Sub(e.fetchedAt) >= e.staleAfter+c.gcGrace {
			delete(c.entries, k)
			removed++
		}
	}
	c.metrics.entries.Set(float64(len(c.entries)))
	return removed
}

// Run prunes the cache every interval until ctx is done
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Prune(); n > 0 {
				c.logger.Debug("pruned query cache", "removed", n)
			}
		}
	}
}

// Close drops all subscribers and stops in-flight fetches from updating state.
// The warm tier store is owned by the caller and is not closed.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.subs = make(map[uint64]subscriber)
}

// Len returns the number of entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Subscription is a registered change listener. Unsubscribe is idempotent.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops delivery
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// Subscribe calls fn after every completed fetch for key.
// fn runs on the fetching goroutine and must not block.
func (c *Cache) Subscribe(key Key, fn func(Result)) *Subscription {
	return c.subscribe(subscriber{key: key, fn: func(_ Key, r Result) { fn(r) }})
}

// SubscribeAll calls fn after every completed fetch for any key
func (c *Cache) SubscribeAll(fn func(Key, Result)) *Subscription {
	return c.subscribe(subscriber{all: true, fn: fn})
}

func (c *Cache) subscribe(s subscriber) *Subscription {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = s
	c.mu.Unlock()

	return &Subscription{cancel: func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}}
}

// Load is the typed form of Fetch. Successes round-trip through JSON when
// persisted, so T must be JSON-encodable for the warm tier to seed it.
func Load[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error), opts Options) (T, error) {
	opts.decode = decodeJSON[T]
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}, opts)

	var zero T
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query %s: cached %T, want %T", key, v, zero)
	}
	return t, nil
}

// Value extracts typed data from a snapshot
func Value[T any](r Result) (T, bool) {
	if !r.hasData {
		var zero T
		return zero, false
	}
	t, ok := r.Data.(T)
	return t, ok
}

func decodeJSON[T any](data []byte) (any, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

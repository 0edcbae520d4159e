package query

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/kbukum/adminkit/httpclient"
	"github.com/kbukum/adminkit/logger"
	"github.com/kbukum/adminkit/observability"
	"github.com/kbukum/adminkit/resilience"
)

// DefaultStaleTime is how long a successful entry is served without refetching.
const DefaultStaleTime = 30 * time.Second

// Status is the load state of a cache entry.
type Status int

const (
	// StatusIdle means nothing has been loaded, e.g. the query is disabled.
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Entry is a snapshot of one cached key. Data is the raw JSON body of the
// last successful fetch and survives later failures.
type Entry struct {
	Key       string
	Data      []byte
	Status    Status
	Err       error
	UpdatedAt time.Time
}

// FetchFunc loads the raw body for a key.
type FetchFunc func(ctx context.Context) ([]byte, error)

type entry struct {
	Entry
	stale bool
}

// Cache stores query results by key. Concurrent fetches of one key share
// a single network call.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	inflight map[string]int
	group    singleflight.Group

	// gen and epoch move on every Invalidate/Clear so a load that was in
	// flight at the time stores its result as stale.
	gen   map[string]uint64
	epoch uint64

	staleTime time.Duration
	policy    resilience.Policy
	now       func() time.Time
	log       *logger.Logger
	metrics   *observability.Metrics
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithStaleTime sets the freshness window. A negative value refetches on
// every read.
func WithStaleTime(d time.Duration) CacheOption {
	return func(c *Cache) {
		if d != 0 {
			c.staleTime = d
		}
	}
}

// WithRetryPolicy replaces the fetch retry policy.
func WithRetryPolicy(p resilience.Policy) CacheOption {
	return func(c *Cache) {
		c.policy = p
	}
}

// WithRetryAttempts keeps the default backoff and changes only the
// attempt count.
func WithRetryAttempts(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.policy.MaxAttempts = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates an empty Cache. Fetches retry three times with
// exponential backoff, and only for errors httpclient.IsRetryable accepts.
func NewCache(opts ...CacheOption) *Cache {
	policy := resilience.DefaultPolicy()
	policy.RetryIf = httpclient.IsRetryable

	c := &Cache{
		entries:   make(map[string]*entry),
		inflight:  make(map[string]int),
		gen:       make(map[string]uint64),
		staleTime: DefaultStaleTime,
		policy:    policy,
		now:       time.Now,
		log:       logger.Get("query"),
		metrics:   observability.DefaultMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.policy.RetryIf == nil {
		c.policy.RetryIf = httpclient.IsRetryable
	}
	return c
}

// Fetch returns the entry for key. A disabled read does no I/O and
// reports StatusIdle. A fresh entry is returned as is; otherwise fn runs,
// shared with any concurrent Fetch of the same key.
func (c *Cache) Fetch(ctx context.Context, key string, enabled bool, fn FetchFunc) Entry {
	if !enabled {
		return Entry{Key: key, Status: StatusIdle}
	}

	if e, ok := c.fresh(key); ok {
		c.metrics.RecordCacheHit(ctx, key)
		return e
	}

	ch := c.group.DoChan(key, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), key, fn), nil
	})

	select {
	case <-ctx.Done():
		e := c.Peek(key)
		e.Err = ctx.Err()
		return e
	case r := <-ch:
		return r.Val.(Entry)
	}
}

func (c *Cache) fresh(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.stale || e.Status != StatusSuccess || c.staleTime < 0 {
		return Entry{}, false
	}
	if c.now().Sub(e.UpdatedAt) >= c.staleTime {
		return Entry{}, false
	}
	return e.Entry, true
}

func (c *Cache) load(ctx context.Context, key string, fn FetchFunc) Entry {
	c.mu.Lock()
	c.inflight[key]++
	epoch, gen := c.epoch, c.gen[key]
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inflight[key]--
		if c.inflight[key] <= 0 {
			delete(c.inflight, key)
		}
		c.mu.Unlock()
	}()

	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanQueryFetch,
		attribute.String(observability.AttrCacheKey, key),
	)
	log := c.log.WithContext(ctx)

	policy := c.policy
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		log.Warn("query fetch failed, retrying", logger.MergeWithError(logger.Fields(
			logger.FieldCacheKey, key,
			logger.FieldAttempt, attempt,
			"wait_ms", wait.Milliseconds(),
		), err))
	}

	attempts := 0
	data, err := resilience.Retry(ctx, policy, func(ctx context.Context, attempt int) ([]byte, error) {
		attempts = attempt
		return fn(ctx)
	})
	span.SetAttributes(attribute.Int(observability.AttrAttempt, attempts))
	observability.EndSpan(span, err)

	elapsed := time.Since(start)
	fields := logger.Fields(
		logger.FieldCacheKey, key,
		logger.FieldAttempt, attempts,
		logger.FieldDuration, elapsed.Milliseconds(),
	)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{Entry: Entry{Key: key}}
		c.entries[key] = e
	}
	if err != nil {
		e.Status = StatusError
		e.Err = err
		log.Warn("query fetch failed", logger.MergeWithError(fields, err))
		c.metrics.RecordQueryFetch(ctx, key, "error", elapsed)
		return e.Entry
	}

	e.Data = data
	e.Status = StatusSuccess
	e.Err = nil
	e.UpdatedAt = c.now()
	e.stale = c.epoch != epoch || c.gen[key] != gen
	log.Debug("query fetched", fields)
	c.metrics.RecordQueryFetch(ctx, key, "success", elapsed)
	return e.Entry
}

// Peek returns the current entry without I/O. It reports StatusLoading
// while a fetch for key is in flight and StatusIdle for unknown keys.
func (c *Cache) Peek(key string) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := Entry{Key: key, Status: StatusIdle}
	if e, ok := c.entries[key]; ok {
		out = e.Entry
	}
	if c.inflight[key] > 0 {
		out.Status = StatusLoading
	}
	return out
}

// Invalidate marks keys stale so the next read refetches. With no keys
// every entry is marked.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(keys) == 0 {
		c.epoch++
		for _, e := range c.entries {
			e.stale = true
		}
		return
	}
	for _, k := range keys {
		c.gen[k]++
		if e, ok := c.entries[k]; ok {
			e.stale = true
		}
	}
	c.log.Debug("query invalidated", logger.Fields("keys", keys))
}

// Clear drops every entry. Loads already in flight store their result as
// stale.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.entries = make(map[string]*entry)
	c.gen = make(map[string]uint64)
}

// Keys returns the cached keys.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

package query

import (
	"context"
	"net/http"
	"time"

	"github.com/kbukum/adminkit/client"
	apperrors "github.com/kbukum/adminkit/errors"
	"github.com/kbukum/adminkit/httpclient"
)

// Options describe one cached read. Enabled must be set for the query to
// touch the network.
type Options[T any] struct {
	Key     string
	Path    string
	Enabled bool
	Secure  bool
	// Params are sent as query parameters.
	Params map[string]string
	// Select transforms the decoded value before it is returned.
	Select func(T) T
}

// State is what a read exposes to presentation code.
type State[T any] struct {
	Data      T
	Status    Status
	Err       error
	UpdatedAt time.Time
}

// IsLoading reports whether a fetch is in flight.
func (s State[T]) IsLoading() bool { return s.Status == StatusLoading }

// IsSuccess reports whether Data holds a loaded value.
func (s State[T]) IsSuccess() bool { return s.Status == StatusSuccess }

// IsError reports whether the last fetch failed.
func (s State[T]) IsError() bool { return s.Status == StatusError }

// Query is a typed, cached GET.
type Query[T any] struct {
	source client.Source
	cache  *Cache
	opts   Options[T]
}

// New creates a Query. The cache may be shared between queries.
func New[T any](source client.Source, cache *Cache, opts Options[T]) *Query[T] {
	if cache == nil {
		cache = NewCache()
	}
	return &Query[T]{source: source, cache: cache, opts: opts}
}

// Key returns the cache key.
func (q *Query[T]) Key() string { return q.opts.Key }

// Get resolves the query through the cache.
func (q *Query[T]) Get(ctx context.Context) State[T] {
	return q.state(q.cache.Fetch(ctx, q.opts.Key, q.opts.Enabled, q.fetch))
}

// Peek returns the cached state without I/O.
func (q *Query[T]) Peek() State[T] {
	return q.state(q.cache.Peek(q.opts.Key))
}

func (q *Query[T]) fetch(ctx context.Context) ([]byte, error) {
	resp, err := q.source.Client(q.opts.Secure).Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   q.opts.Path,
		Query:  q.opts.Params,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (q *Query[T]) state(e Entry) State[T] {
	s := State[T]{Status: e.Status, Err: e.Err, UpdatedAt: e.UpdatedAt}
	if len(e.Data) == 0 {
		return s
	}

	data, err := httpclient.Decode[T](e.Data)
	if err != nil {
		s.Status = StatusError
		s.Err = apperrors.InvalidResponse(err)
		return s
	}
	if q.opts.Select != nil {
		data = q.opts.Select(data)
	}
	s.Data = data
	return s
}

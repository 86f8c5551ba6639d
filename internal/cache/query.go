package cache

import (
	"context"
	"sync"
)

// Query wraps a fetch function with entity-scoped caching. The key is
// the entity plus an optional scope (project id, filter hash); scope
// distinguishes cached values, while invalidation applies to the whole
// entity.
type Query[T any] struct {
	cache  *Cache
	entity string
	scope  string
	fetch  func(ctx context.Context) (T, error)

	mu       sync.Mutex
	value    T
	has      bool
	fetchGen uint64
}

// NewQuery creates a query keyed by entity and scope over the given
// fetch function. Scope may be empty for unscoped lists.
func NewQuery[T any](
	c *Cache,
	entity, scope string,
	fetch func(ctx context.Context) (T, error),
) *Query[T] {
	return &Query[T]{cache: c, entity: entity, scope: scope, fetch: fetch}
}

// Key returns the query's cache key, e.g. "tasks" or "tasks:p1".
func (q *Query[T]) Key() string {
	if q.scope == "" {
		return q.entity
	}
	return q.entity + ":" + q.scope
}

// Get returns the cached value when fresh, refetching when the entity
// has been invalidated since the last fetch. A failed refetch leaves
// the prior cached value untouched and returns the error.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	gen := q.cache.generation(q.entity)
	if q.has && q.fetchGen == gen {
		return q.value, nil
	}

	value, err := q.fetch(ctx)
	if err != nil {
		// The prior value stays readable through Peek; Get reports
		// the refetch failure.
		var zero T
		return zero, err
	}

	q.value = value
	q.has = true
	q.fetchGen = gen
	return value, nil
}

// Peek returns the cached value without fetching; ok is false when
// nothing has been cached yet.
func (q *Query[T]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.value, q.has
}

// Stale reports whether the next Get will refetch.
func (q *Query[T]) Stale() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.has || q.fetchGen != q.cache.generation(q.entity)
}

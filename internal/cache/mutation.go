package cache

import (
	"context"
	"sync"
)

// State is the observable lifecycle of a mutation.
type State int

const (
	StateIdle State = iota
	StatePending
	StateSuccess
	StateError
)

// Mutation wraps a write operation. Consumers read its state to
// disable submit controls while pending and to render the terminal
// error; a successful run invalidates the declared entities.
type Mutation[T any] struct {
	cache       *Cache
	invalidates []string
	run         func(ctx context.Context) (T, error)

	mu     sync.Mutex
	state  State
	err    error
	result T
}

// NewMutation creates a mutation that invalidates the given entities
// on success.
func NewMutation[T any](
	c *Cache,
	invalidates []string,
	run func(ctx context.Context) (T, error),
) *Mutation[T] {
	return &Mutation[T]{cache: c, invalidates: invalidates, run: run}
}

// Do executes the mutation. While running the state is pending; the
// terminal state is success or error. The error is returned unchanged
// and also retained for later inspection.
func (m *Mutation[T]) Do(ctx context.Context) (T, error) {
	m.mu.Lock()
	m.state = StatePending
	m.err = nil
	m.mu.Unlock()

	result, err := m.run(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = StateError
		m.err = err
		var zero T
		return zero, err
	}

	m.state = StateSuccess
	m.result = result
	m.cache.Invalidate(m.invalidates...)
	return result, nil
}

// State returns the mutation's current lifecycle state.
func (m *Mutation[T]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pending reports whether the mutation is in flight.
func (m *Mutation[T]) Pending() bool {
	return m.State() == StatePending
}

// Err returns the terminal error, if any.
func (m *Mutation[T]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Result returns the last successful result.
func (m *Mutation[T]) Result() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

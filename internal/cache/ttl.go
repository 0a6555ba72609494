// Package cache holds the short-lived read-through caches placed in front of
// the external ledger and catalog sources.
package cache

import (
	"context"
	"sync"
	"time"
)

// Value caches a single loaded value for a fixed TTL. Entries expire purely
// by age. Failed loads are not cached. Concurrent callers share one load.
type Value[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	value     T
	fetchedAt time.Time
	valid     bool
}

// NewValue creates a cache with the given TTL and the wall clock.
func NewValue[T any](ttl time.Duration) *Value[T] {
	return &Value[T]{ttl: ttl, now: time.Now}
}

// WithClock replaces the clock, for tests.
func (c *Value[T]) WithClock(now func() time.Time) *Value[T] {
	c.now = now
	return c
}

// Get returns the cached value while fresh, otherwise calls load.
func (c *Value[T]) Get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.value, nil
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.value = v
	c.fetchedAt = c.now()
	c.valid = true
	return v, nil
}

// Invalidate drops the cached value.
func (c *Value[T]) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// FetchedAt reports when the current value was loaded and whether one exists.
func (c *Value[T]) FetchedAt() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchedAt, c.valid
}

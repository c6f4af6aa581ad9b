// Package memo caches the results of pure transforms keyed on a
// fingerprint of their raw input. It is the only state shared across
// analysis requests; cached values are treated as immutable.
package memo

import (
	"sync"

	"salespulse/domain/core"
)

// Cache memoizes values of type V under input fingerprints.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[core.Hash]V
}

// New creates an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[core.Hash]V)}
}

// Get returns the cached value for key, if present.
func (c *Cache[V]) Get(key core.Hash) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores a value under key.
func (c *Cache[V]) Put(key core.Hash, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// GetOrCompute returns the cached value for key, computing and caching
// it on a miss. compute must be pure with respect to key.
func (c *Cache[V]) GetOrCompute(key core.Hash, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Put(key, v)
	return v, nil
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

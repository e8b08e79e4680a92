// Package cache provides a thread-safe generic map shared by the in-memory
// storage backend and the wizard session registry.
package cache

import "sync"

type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// Delete removes key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	delete(c.items, key)
	return ok
}

// SetIfBelow stores value only while the cache holds fewer than limit
// entries, checking and inserting under one lock. It reports whether the
// value was stored.
func (c *Cache[K, V]) SetIfBelow(key K, value V, limit int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) >= limit {
		return false
	}
	c.items[key] = value
	return true
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]V)
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// DeleteFunc removes every entry for which drop returns true and returns how
// many were removed. drop runs under the write lock and must not call back
// into the cache.
func (c *Cache[K, V]) DeleteFunc(drop func(K, V) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, v := range c.items {
		if drop(k, v) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

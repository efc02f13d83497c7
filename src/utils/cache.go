package utils

import (
	"sync"
	"time"
)

type Cache[T any] struct {
	value      T
	cachedAt   time.Time
	expiration time.Time
	mutex      sync.RWMutex
}

// NewCache initializes a new cache with an empty value.
func NewCache[T any]() *Cache[T] {
	var zero T
	return &Cache[T]{
		value: zero,
	}
}

// Set sets a new value in the cache with an expiration time.
func (c *Cache[T]) Set(value T, duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.value = value
	c.cachedAt = time.Now()
	c.expiration = c.cachedAt.Add(duration)
}

// Get retrieves the cached value. Values cached before refreshAfter are treated as stale;
// pass the zero time to accept any unexpired value.
func (c *Cache[T]) Get(refreshAfter time.Time) (T, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if time.Now().After(c.expiration) || c.cachedAt.Before(refreshAfter) {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Clear removes the cached value.
func (c *Cache[T]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var zero T
	c.value = zero
	c.expiration = time.Time{}
}

// KeyedCache holds one Cache per key.
type KeyedCache[K comparable, T any] struct {
	entries map[K]*Cache[T]
	mutex   sync.Mutex
}

func NewKeyedCache[K comparable, T any]() *KeyedCache[K, T] {
	return &KeyedCache[K, T]{entries: make(map[K]*Cache[T])}
}

func (k *KeyedCache[K, T]) entry(key K) *Cache[T] {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	c, ok := k.entries[key]
	if !ok {
		c = NewCache[T]()
		k.entries[key] = c
	}
	return c
}

func (k *KeyedCache[K, T]) Set(key K, value T, duration time.Duration) {
	k.entry(key).Set(value, duration)
}

func (k *KeyedCache[K, T]) Get(key K) (T, bool) {
	return k.entry(key).Get(time.Time{})
}

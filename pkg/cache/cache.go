// Package cache keeps recently computed conversions keyed by the content
// of the input graph, so repeated submissions of the same document skip
// the pipeline.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Key identifies one conversion: an output format over one input payload.
type Key string

// KeyFor derives the cache key of payload rendered as format.
func KeyFor(format string, payload []byte) Key {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write(payload)
	return Key(format + ":" + hex.EncodeToString(h.Sum(nil)))
}

// Cache is a fixed-size, concurrency-safe LRU. Cached values are shared
// between callers and must not be mutated.
type Cache[V any] struct {
	entries   *lru.Cache[Key, V]
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Size      int   `json:"size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// New creates a cache holding at most size entries.
func New[V any](size int) (*Cache[V], error) {
	c := &Cache[V]{}
	entries, err := lru.NewWithEvict[Key, V](size, c.handleEviction)
	if err != nil {
		return nil, err
	}
	c.entries = entries
	return c, nil
}

func (c *Cache[V]) handleEviction(Key, V) {
	c.evictions.Add(1)
}

// Get returns the value for key and whether it was present.
func (c *Cache[V]) Get(key Key) (V, bool) {
	v, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Add stores value under key, evicting the least recently used entry when
// full.
func (c *Cache[V]) Add(key Key, value V) {
	c.entries.Add(key, value)
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.entries.Len()
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	c.entries.Purge()
}

// Stats returns the current counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Size:      c.entries.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// Package cache memoizes values computed from file content. Entries are keyed
// by a digest of the content, so a changed file is a miss and an unchanged one
// is a hit no matter how often it is re-read.
package cache

import (
	"sync"

	"github.com/farxc/painel-ies/internal/census/files"
	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxEntries keeps only the latest table: new content evicts the old.
const DefaultMaxEntries = 1

type Cache[V any] struct {
	mu    sync.Mutex
	lru   *lru.Cache
	group singleflight.Group

	// OnEvicted, when set, is called with the key of each evicted entry.
	OnEvicted func(key string)
}

func New[V any](maxEntries int) *Cache[V] {
	if maxEntries < 1 {
		maxEntries = DefaultMaxEntries
	}
	c := &Cache[V]{lru: lru.New(maxEntries)}
	c.lru.OnEvicted = func(key lru.Key, _ interface{}) {
		if c.OnEvicted != nil {
			c.OnEvicted(key.(string))
		}
	}
	return c
}

// Key returns the cache key for content.
func Key(content []byte) string {
	return files.Hash(content)
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	v, ok := c.lru.Get(key)
	if !ok {
		return zero, false
	}
	return v.(V), true
}

func (c *Cache[V]) add(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, v)
}

// GetOrCompute returns the value cached under key, calling compute on a miss.
// Concurrent misses on the same key share one compute call. Errors are
// returned to every waiter and never stored. The bool reports a hit.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	res, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A waiter of an earlier flight may already have stored it.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return res.(V), false, nil
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Clear()
}

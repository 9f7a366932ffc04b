package cache

import (
	"sync"
	"time"

	"github.com/streamsider/streamsider/internal/kick"
)

// entry is a cached record together with the time it was captured.
type entry struct {
	data      kick.Streamer
	timestamp time.Time
}

// Cache is a thread-safe in-memory freshness cache for streamer records.
// Entries expire lazily: a Get past the TTL deletes the entry and reports a
// miss. There is no background sweep — the key space is bounded by the tracked
// list, so stale leftovers simply age out on their next lookup.
type Cache struct {
	mu   sync.Mutex
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests
}

// New creates a Cache with the given TTL.
func New(ttl time.Duration) *Cache {
	return &Cache{
		data: make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the cached record for key if it is still within the TTL.
// A stale entry is purged and reported as a miss.
func (c *Cache) Get(key string) (kick.Streamer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		return kick.Streamer{}, false
	}
	if c.now().Sub(e.timestamp) >= c.ttl {
		delete(c.data, key)
		return kick.Streamer{}, false
	}
	return e.data, true
}

// Set stores data under key, overwriting unconditionally and stamping the
// current time.
func (c *Cache) Set(key string, data kick.Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry{data: data, timestamp: c.now()}
}

// Len returns the number of entries currently held, including stale ones that
// have not been looked up since expiring.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

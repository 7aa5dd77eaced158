package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long an entry stays servable after it is stored.
const DefaultTTL = 60 * time.Second

type entry struct {
	value    any
	storedAt time.Time
}

// Cache is a TTL-bound response memoizer shared by search, quote and
// history requests. Stale entries are ignored on read, not deleted: the
// owning process is a short-lived session, so unbounded growth is an
// accepted simplification.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache with the given TTL (DefaultTTL when ttl <= 0).
func New(ttl time.Duration) *Cache {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock creates a cache with an injected clock, so tests can cross
// the TTL boundary without sleeping.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the stored value for key if it is younger than the TTL.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

// Put stores value under key, overwriting any previous entry.
// Concurrent writers race last-writer-wins.
func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: c.now()}
}

// Key builds a stable composite key from an operation name and its
// normalized parameters, so identical requests collide on the same entry
// regardless of call site.
func Key(parts ...string) string {
	return strings.Join(parts, "_")
}

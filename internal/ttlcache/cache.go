// ABOUTME: Thread-safe generic TTL cache with a background sweep.
// ABOUTME: Holds short-lived correlation payloads and conversation records.

package ttlcache

import (
	"container/list"
	"sync"
	"time"
)

// DefaultSweepInterval is used when no sweep interval is configured and the
// TTL is long enough that ttl/2 would exceed it.
const DefaultSweepInterval = 30 * time.Second

// entry stores the payload, its insertion time and its list element.
type entry[T any] struct {
	value     T
	timestamp time.Time
	element   *list.Element
}

// Cache is a keyed store whose entries expire ttl after insertion.
// Reads check entry age themselves; the sweep only reclaims memory.
// Uses a doubly-linked list to keep insertion order for O(1) eviction when a
// maximum size is configured.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
	order   *list.List // keys in insertion order (oldest at front)

	ttl     time.Duration
	sweep   time.Duration
	maxSize int
	now     func() time.Time

	done      chan struct{}
	stopped   chan struct{}
	destroyed bool
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	sweep   time.Duration
	maxSize int
	now     func() time.Time
}

// WithSweepInterval sets how often expired entries are removed in the background.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) { o.sweep = d }
}

// WithMaxSize bounds the number of entries. When full, the oldest entry is
// evicted to make room. Zero means unbounded.
func WithMaxSize(n int) Option {
	return func(o *options) { o.maxSize = n }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a cache whose entries live for ttl.
// A background goroutine sweeps expired entries until Destroy is called.
func New[T any](ttl time.Duration, opts ...Option) *Cache[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sweep <= 0 {
		o.sweep = min(ttl/2, DefaultSweepInterval)
	}
	if o.sweep <= 0 {
		o.sweep = time.Millisecond
	}

	c := &Cache[T]{
		entries: make(map[string]*entry[T]),
		order:   list.New(),
		ttl:     ttl,
		sweep:   o.sweep,
		maxSize: o.maxSize,
		now:     o.now,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go c.sweeper()
	return c
}

// TTL returns the configured time-to-live.
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}

// Set inserts or overwrites key with a fresh timestamp.
// It is a no-op after Destroy.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}

	now := c.now()

	// Existing key: refresh and move to back
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.timestamp = now
		c.order.MoveToBack(e.element)
		return
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushBack(key)
	c.entries[key] = &entry[T]{
		value:     value,
		timestamp: now,
		element:   elem,
	}
}

// Get returns the value for key if it exists and has not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	e, ok := c.entries[key]
	if !ok || c.expired(e, c.now()) {
		return zero, false
	}
	return e.value, true
}

// Delete removes key unconditionally and reports whether an entry was removed.
func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeLocked(key, e)
	return true
}

// Take atomically returns and removes an unexpired entry.
// Of any number of concurrent callers for the same key, at most one gets ok.
func (c *Cache[T]) Take(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	c.removeLocked(key, e)
	if c.expired(e, c.now()) {
		return zero, false
	}
	return e.value, true
}

// Len returns the number of stored entries, including expired ones that have
// not been swept yet.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// expired reports whether e is past its TTL at now.
func (c *Cache[T]) expired(e *entry[T], now time.Time) bool {
	return now.Sub(e.timestamp) >= c.ttl
}

// removeLocked deletes an entry. Must be called with mu held.
func (c *Cache[T]) removeLocked(key string, e *entry[T]) {
	c.order.Remove(e.element)
	delete(c.entries, key)
}

// evictOldest removes the oldest entry. Must be called with mu held.
func (c *Cache[T]) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}

	key, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, key)
}

// sweeper runs in a background goroutine, periodically removing expired entries.
func (c *Cache[T]) sweeper() {
	defer close(c.stopped)

	ticker := time.NewTicker(c.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runSweep()
		case <-c.done:
			return
		}
	}
}

// runSweep removes all expired entries from the cache.
func (c *Cache[T]) runSweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if c.expired(e, now) {
			c.removeLocked(key, e)
		}
	}
}

// Destroy stops the sweep goroutine and clears all entries.
// The cache is inert afterwards. It is safe to call multiple times.
func (c *Cache[T]) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	close(c.done)
	c.entries = make(map[string]*entry[T])
	c.order.Init()
	c.mu.Unlock()

	// Wait outside the lock: a sweep in progress needs it to finish.
	<-c.stopped
}

package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry holds a cached value with its creation time. The key is carried so
// eviction from the recency list can also drop the map slot.
type entry struct {
	key       string
	value     string
	createdAt time.Time
}

// LRU is a thread-safe, bounded in-memory cache with TTL support. Eviction is
// least-recently-used; expiry is lazy, checked on read. Both the entry count
// and the staleness of a long-lived process stay bounded.
type LRU struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List // front = most recently used
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

// LRUOption configures an LRU cache.
type LRUOption func(*LRU)

// WithClock overrides the time source. Used by tests to advance time past
// the TTL without sleeping.
func WithClock(now func() time.Time) LRUOption {
	return func(c *LRU) {
		c.now = now
	}
}

// NewLRU creates a bounded cache holding at most maxSize entries, each valid
// for ttl after insertion. A ttl of 0 or less disables expiry.
func NewLRU(maxSize int, ttl time.Duration, opts ...LRUOption) *LRU {
	if maxSize <= 0 {
		maxSize = 1
	}
	if ttl < 0 {
		ttl = 0
	}

	c := &LRU{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get retrieves a value from the cache. A fresh hit promotes the entry to
// most-recently-used. An expired entry is removed and reported as a miss; it
// does not resurrect on later gets.
func (c *LRU) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return "", false
	}

	ent := elem.Value.(*entry)
	if c.expired(ent) {
		c.removeLocked(elem)
		return "", false
	}

	c.order.MoveToFront(elem)
	return ent.value, true
}

// Set stores a value in the cache as most-recently-used. An existing entry
// for the key is replaced (its recency and age reset). When at capacity, the
// single least-recently-used entry is evicted first.
func (c *LRU) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeLocked(elem)
	}

	for len(c.items) >= c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
	}

	elem := c.order.PushFront(&entry{
		key:       key,
		value:     value,
		createdAt: c.now(),
	})
	c.items[key] = elem
	return nil
}

// Clear removes all entries from the cache.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the number of resident entries, including any not yet purged
// by lazy expiry.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Snapshot returns all fresh entries as key-value pairs. Used for cache
// export and inspection.
func (c *LRU) Snapshot() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]string, len(c.items))
	for key, elem := range c.items {
		ent := elem.Value.(*entry)
		if c.expired(ent) {
			continue
		}
		result[key] = ent.value
	}

	return result
}

// expired reports whether the entry's age exceeds the TTL (lock held).
func (c *LRU) expired(ent *entry) bool {
	return c.ttl > 0 && c.now().Sub(ent.createdAt) > c.ttl
}

// removeLocked drops an element from both the recency list and the index
// (lock held).
func (c *LRU) removeLocked(elem *list.Element) {
	ent := elem.Value.(*entry)
	c.order.Remove(elem)
	delete(c.items, ent.key)
}

// Verify LRU implements TranslationCache
var _ TranslationCache = (*LRU)(nil)

package cache

import (
	"container/list"
	"sync"
	"time"
)

// Key identifies one prepared chart payload.
type Key struct {
	Markets         string // Comma-joined, order-normalized market IDs
	Left            int64
	Right           int64
	MinutesPerPoint float64
}

// Cache is an LRU cache with TTL expiry for encoded chart responses.
type Cache struct {
	capacity int
	ttl      time.Duration

	mu      sync.Mutex
	entries map[Key]*entry
	lru     *list.List

	hits   uint64
	misses uint64
}

type entry struct {
	key     Key
	payload []byte
	stored  time.Time
	element *list.Element
}

// New creates a cache holding at most capacity entries for at most ttl each.
func New(capacity int, ttl time.Duration) *Cache {
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[Key]*entry),
		lru:      list.New(),
	}
}

// Get returns a cached payload, if present and fresh.
func (c *Cache) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	if time.Since(e.stored) > c.ttl {
		c.removeLocked(key)
		c.misses++
		return nil, false
	}

	c.lru.MoveToFront(e.element)
	c.hits++
	return e.payload, true
}

// Put stores a payload, evicting the least recently used entry when full.
func (c *Cache) Put(key Key, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.payload = payload
		e.stored = time.Now()
		c.lru.MoveToFront(e.element)
		return
	}

	e := &entry{
		key:     key,
		payload: payload,
		stored:  time.Now(),
	}
	e.element = c.lru.PushFront(e)
	c.entries[key] = e

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.removeLocked(oldest.Value.(*entry).key)
		}
	}
}

// Clear drops every entry. Called when new samples invalidate all charts.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*entry)
	c.lru = list.New()
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats contains cache statistics.
type Stats struct {
	Size     int
	Capacity int
	Hits     uint64
	Misses   uint64
}

// Stats returns a snapshot of cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:     len(c.entries),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
	}
}

// removeLocked removes an entry. Must be called with the lock held.
func (c *Cache) removeLocked(key Key) {
	if e, ok := c.entries[key]; ok {
		c.lru.Remove(e.element)
		delete(c.entries, key)
	}
}

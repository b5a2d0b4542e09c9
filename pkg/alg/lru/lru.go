// Package lru provides a generic capacity-bounded cache with
// least-recently-used eviction and hit/miss statistics.
//
// The cache is intended as instance-scoped memoization inside a
// synchronous pipeline: it is not safe for concurrent use without
// external synchronization.
package lru

// entry is a doubly-linked list node holding a key-value pair.
type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

// Cache is a generic LRU cache bounded by entry count.
type Cache[K comparable, V any] struct {
	entries    map[K]*entry[K, V]
	head       *entry[K, V] // Most recently used.
	tail       *entry[K, V] // Least recently used.
	maxEntries int

	hits   int64
	misses int64
}

// New creates an LRU cache holding at most maxEntries entries.
// New panics when maxEntries is not positive.
func New[K comparable, V any](maxEntries int) *Cache[K, V] {
	if maxEntries <= 0 {
		panic("lru: maxEntries must be positive")
	}

	return &Cache[K, V]{
		entries:    make(map[K]*entry[K, V]),
		maxEntries: maxEntries,
	}
}

// Get retrieves a value and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	ent, ok := c.entries[key]
	if !ok {
		c.misses++

		var zero V

		return zero, false
	}

	c.hits++
	c.moveToFront(ent)

	return ent.value, true
}

// Contains reports whether key is cached without updating recency or stats.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.entries[key]

	return ok
}

// Put adds or updates a key-value pair, evicting the least recently used
// entry when the cache is full.
func (c *Cache[K, V]) Put(key K, value V) {
	if ent, ok := c.entries[key]; ok {
		ent.value = value
		c.moveToFront(ent)

		return
	}

	if len(c.entries) >= c.maxEntries {
		c.evictTail()
	}

	ent := &entry[K, V]{key: key, value: value}
	c.entries[key] = ent
	c.addToFront(ent)
}

// Clear removes every entry. Statistics are preserved.
func (c *Cache[K, V]) Clear() {
	c.entries = make(map[K]*entry[K, V])
	c.head = nil
	c.tail = nil
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return len(c.entries)
}

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int {
	return c.maxEntries
}

// Stats holds cache performance counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
	Cap     int
}

// HitRate returns the cache hit rate as a fraction (0.0 to 1.0).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// Stats returns the current counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Entries: len(c.entries),
		Cap:     c.maxEntries,
	}
}

// moveToFront detaches ent and reattaches it as head.
func (c *Cache[K, V]) moveToFront(ent *entry[K, V]) {
	if c.head == ent {
		return
	}

	c.detach(ent)
	c.addToFront(ent)
}

// addToFront attaches a detached entry as head.
func (c *Cache[K, V]) addToFront(ent *entry[K, V]) {
	ent.prev = nil
	ent.next = c.head

	if c.head != nil {
		c.head.prev = ent
	}

	c.head = ent

	if c.tail == nil {
		c.tail = ent
	}
}

// detach removes an entry from the list without touching the map.
func (c *Cache[K, V]) detach(ent *entry[K, V]) {
	if ent.prev != nil {
		ent.prev.next = ent.next
	} else {
		c.head = ent.next
	}

	if ent.next != nil {
		ent.next.prev = ent.prev
	} else {
		c.tail = ent.prev
	}

	ent.prev = nil
	ent.next = nil
}

// evictTail drops the least recently used entry.
func (c *Cache[K, V]) evictTail() {
	victim := c.tail
	if victim == nil {
		return
	}

	c.detach(victim)
	delete(c.entries, victim.key)
}

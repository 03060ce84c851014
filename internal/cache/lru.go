// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package cache provides the bounded in-memory structures used by the client core.
package cache

import "sync"

// lruEntry is a node of the recency list.
type lruEntry[K comparable, V any] struct {
	key   K
	value V
	prev  *lruEntry[K, V]
	next  *lruEntry[K, V]
}

// LRU is a thread-safe Least Recently Used map with a fixed capacity.
//
// Key features:
//   - O(1) Get, Put, Remove operations
//   - O(1) eviction of the least recently used entry when full
//   - Optional eviction callback, invoked with the lock released
//
// A doubly-linked list keeps recency order and a map provides lookups.
type LRU[K comparable, V any] struct {
	mu sync.Mutex

	capacity int
	items    map[K]*lruEntry[K, V]

	// head.next is the most recently used, tail.prev is the least recently used
	head *lruEntry[K, V]
	tail *lruEntry[K, V]

	onEvict func(K, V)

	// stats
	hits      int64
	misses    int64
	evictions int64
}

// Stats is a snapshot of LRU counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// NewLRU creates an LRU holding at most capacity entries.
// A non-positive capacity defaults to 1000.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 1000 // Default capacity
	}

	c := &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*lruEntry[K, V], capacity),
		head:     &lruEntry[K, V]{},
		tail:     &lruEntry[K, V]{},
	}

	// Initialize linked list sentinels
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// OnEvict registers fn to be called for every entry dropped by capacity pressure.
// Explicit Remove and Clear do not trigger it.
func (c *LRU[K, V]) OnEvict(fn func(K, V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.items[key]; exists {
		c.moveToFront(entry)
		c.hits++
		return entry.value, true
	}

	c.misses++
	var zero V
	return zero, false
}

// Peek returns the value for key without updating recency or stats.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.items[key]; exists {
		return entry.value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present without updating access order.
func (c *LRU[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.items[key]
	return exists
}

// Put adds or replaces the value for key. If the cache is full, the least
// recently used entry is evicted.
func (c *LRU[K, V]) Put(key K, value V) {
	evicted := c.put(key, value)
	c.notify(evicted)
}

// Update applies fn to the current value for key (zero value and false when
// absent) and stores the result, atomically with respect to other callers.
func (c *LRU[K, V]) Update(key K, fn func(V, bool) V) V {
	c.mu.Lock()
	var current V
	entry, exists := c.items[key]
	if exists {
		current = entry.value
	}
	next := fn(current, exists)
	var evicted []*lruEntry[K, V]
	if exists {
		entry.value = next
		c.moveToFront(entry)
	} else {
		evicted = c.insert(key, next)
	}
	c.mu.Unlock()

	c.notify(evicted)
	return next
}

// UpdateIfPresent applies fn to the value for key and stores the result only
// when key is present. It reports whether fn ran.
func (c *LRU[K, V]) UpdateIfPresent(key K, fn func(V) V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.items[key]
	if !exists {
		var zero V
		return zero, false
	}
	entry.value = fn(entry.value)
	c.moveToFront(entry)
	return entry.value, true
}

// Remove deletes key. It returns true if the entry was present.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.items[key]; exists {
		c.removeEntry(entry)
		return true
	}
	return false
}

// Keys returns the keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, len(c.items))
	for entry := c.head.next; entry != c.tail; entry = entry.next {
		keys = append(keys, entry.key)
	}
	return keys
}

// Len returns the current number of entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear removes all entries.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*lruEntry[K, V], c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Stats returns hit, miss and eviction counters.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.items),
		Capacity:  c.capacity,
	}
}

// Internal methods (must be called with lock held unless noted)

func (c *LRU[K, V]) put(key K, value V) []*lruEntry[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.items[key]; exists {
		entry.value = value
		c.moveToFront(entry)
		return nil
	}
	return c.insert(key, value)
}

// insert adds a new entry and returns the entries evicted to make room.
func (c *LRU[K, V]) insert(key K, value V) []*lruEntry[K, V] {
	entry := &lruEntry[K, V]{key: key, value: value}
	c.addToFront(entry)
	c.items[key] = entry

	var evicted []*lruEntry[K, V]
	for len(c.items) > c.capacity {
		oldest := c.tail.prev
		if oldest == c.head {
			break // List is empty
		}
		c.removeEntry(oldest)
		c.evictions++
		evicted = append(evicted, oldest)
	}
	return evicted
}

// notify runs the eviction callback; called without the lock.
func (c *LRU[K, V]) notify(evicted []*lruEntry[K, V]) {
	if len(evicted) == 0 {
		return
	}
	c.mu.Lock()
	fn := c.onEvict
	c.mu.Unlock()
	if fn == nil {
		return
	}
	for _, e := range evicted {
		fn(e.key, e.value)
	}
}

// addToFront adds an entry to the front of the list (most recently used).
func (c *LRU[K, V]) addToFront(entry *lruEntry[K, V]) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

// moveToFront moves an existing entry to the front of the list.
func (c *LRU[K, V]) moveToFront(entry *lruEntry[K, V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

// removeEntry removes an entry from both the list and the map.
func (c *LRU[K, V]) removeEntry(entry *lruEntry[K, V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
}

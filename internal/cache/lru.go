// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

// Package cache provides an in-process LRU cache with per-entry expiry.
package cache

import (
	"sync"
	"time"
)

const (
	defaultCapacity = 10000
	defaultTTL      = 5 * time.Minute
)

type node[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
	prev      *node[K, V]
	next      *node[K, V]
}

// LRU is a thread-safe least recently used cache. Entries also expire ttl
// after they were last written; expired entries are dropped lazily on access.
//
// Get, Add and Remove are O(1). Ordering is kept in a doubly linked list with
// sentinel head and tail nodes: head.next is the most recently used entry.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[K]*node[K, V]
	head     *node[K, V]
	tail     *node[K, V]
	now      func() time.Time

	hits   int64
	misses int64
}

// NewLRU returns a cache holding at most capacity entries for ttl each.
// Non-positive arguments select 10000 entries and five minutes.
func NewLRU[K comparable, V any](capacity int, ttl time.Duration) *LRU[K, V] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	c := &LRU[K, V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[K]*node[K, V]),
		head:     &node[K, V]{},
		tail:     &node[K, V]{},
		now:      time.Now,
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if ok && c.now().After(n.expiresAt) {
		c.unlink(n)
		ok = false
	}
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}

	c.moveToFront(n)
	c.hits++
	return n.value, true
}

// Add stores value under key, replacing any previous value. When the cache
// is full the least recently used entry is evicted.
func (c *LRU[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if n, ok := c.items[key]; ok {
		n.value = value
		n.expiresAt = expiresAt
		c.moveToFront(n)
		return
	}

	if len(c.items) >= c.capacity {
		if oldest := c.tail.prev; oldest != c.head {
			c.unlink(oldest)
		}
	}

	n := &node[K, V]{key: key, value: value, expiresAt: expiresAt}
	c.items[key] = n
	c.pushFront(n)
}

// Remove deletes key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if ok {
		c.unlink(n)
	}
	return ok
}

// Len returns the number of stored entries, including expired ones not yet
// dropped.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Purge drops every entry.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.items)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Stats returns the hit and miss counts since creation.
func (c *LRU[K, V]) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// The helpers below require c.mu to be held.

func (c *LRU[K, V]) pushFront(n *node[K, V]) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *LRU[K, V]) moveToFront(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	c.pushFront(n)
}

func (c *LRU[K, V]) unlink(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	delete(c.items, n.key)
}

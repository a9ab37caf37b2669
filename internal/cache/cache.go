// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the caching layer for the site: a small typed
// cache for site configuration, a generated-sitemap cache, a general
// in-process cache for published content lists, and a shared byte-level
// backend (memory or Redis) behind the Cacher interface.
package cache

import (
	"strings"
	"sync"
	"time"
)

// SimpleCache is an in-process key/value cache with per-entry expiry.
// It holds arbitrary values and is used for data that is cheap to
// rebuild from the database, such as the published content lists.
type SimpleCache struct {
	mu      sync.RWMutex
	entries map[string]simpleEntry
	ttl     time.Duration

	hits   int64
	misses int64
	sets   int64

	stopOnce sync.Once
	stopCh   chan struct{}
}

type simpleEntry struct {
	value     any
	expiresAt time.Time
}

// Stats describes cache effectiveness since creation.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	Items   int     `json:"items"`
	HitRate float64 `json:"hit_rate"`
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration) *SimpleCache {
	return &SimpleCache{
		entries: make(map[string]simpleEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}
}

// Get returns the value for key when present and not expired.
func (c *SimpleCache) Get(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		if ok {
			delete(c.entries, key)
		}
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return entry.value, true
}

// Set stores value under key with the cache's default TTL.
func (c *SimpleCache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *SimpleCache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = simpleEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.sets++
}

// Delete removes key.
func (c *SimpleCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// DeleteByPrefix removes every key starting with prefix.
func (c *SimpleCache) DeleteByPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Clear removes every entry.
func (c *SimpleCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]simpleEntry)
}

// StartCleanup launches a goroutine that drops expired entries every
// interval, until Stop is called.
func (c *SimpleCache) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.removeExpired()
			case <-c.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (c *SimpleCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *SimpleCache) removeExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Stats returns a snapshot of the cache counters.
func (c *SimpleCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		Hits:   c.hits,
		Misses: c.misses,
		Sets:   c.sets,
		Items:  len(c.entries),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total) * 100
	}
	return s
}

// ResetStats zeroes the counters.
func (c *SimpleCache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits, c.misses, c.sets = 0, 0, 0
}

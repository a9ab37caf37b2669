// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"time"
)

// Cacher is the byte-level cache contract shared by the in-process and
// Redis backends. Values are opaque []byte so the same call sites work
// against either backend. Implementations must be safe for concurrent use.
type Cacher interface {
	// Get returns the value for key, or ErrCacheMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl means the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error

	// Close releases backend resources. The cache is unusable afterwards.
	Close() error
}

// Error is a sentinel error for cache operations.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrCacheMiss reports that a key is absent or expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed reports an operation on a closed cache.
	ErrCacheClosed Error = "cache closed"
)

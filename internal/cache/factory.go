// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"net/url"
	"time"
)

// CacheConfig selects and tunes the shared cache backend.
type CacheConfig struct {
	// Type is the backend type: "memory" or "redis".
	Type string

	// RedisURL is the Redis connection URL (redis type only),
	// e.g. redis://localhost:6379/0.
	RedisURL string

	// Prefix namespaces keys in Redis (redis type only).
	Prefix string

	// DefaultTTL applies to entries stored without an explicit TTL.
	DefaultTTL time.Duration

	// MaxSize caps the memory backend's entry count (0 = unbounded).
	MaxSize int

	// CleanupInterval is the memory backend's expired-entry sweep period.
	CleanupInterval time.Duration
}

// DefaultCacheConfig returns the in-memory backend configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Type:            "memory",
		DefaultTTL:      time.Hour,
		MaxSize:         10000,
		CleanupInterval: time.Minute,
	}
}

// NewCache builds the backend cfg describes. For the redis type a
// connection error surfaces to the caller, which decides whether to fall
// back to memory.
func NewCache(cfg CacheConfig) (Cacher, error) {
	if cfg.Type == "redis" && cfg.RedisURL != "" {
		return NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	}), nil
}

// SanitizeRedisURL masks the password in a Redis URL so it can appear in
// logs. An empty string passes through; an unparsable one is replaced
// outright since the broken form could still embed credentials.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if u.User != nil {
		if _, has := u.User.Password(); has {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}

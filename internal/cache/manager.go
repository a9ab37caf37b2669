// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/valforet/valforet-go/internal/store"
)

// ContentKeyPrefix namespaces cached published-content lists in the
// general cache.
const ContentKeyPrefix = "content:"

// sitemapKey stores the generated sitemap XML in the shared backend.
const sitemapKey = "sitemap"

// Manager bundles the cache instances the site uses.
type Manager struct {
	Config  *ConfigCache
	Sitemap *SitemapCache
	General *SimpleCache

	// Shared is the byte-level backend fronting generated artifacts
	// (currently the sitemap XML). It is in-process memory by default
	// and Redis when configured, so multiple instances behind a load
	// balancer serve the same generated output.
	Shared  Cacher
	isRedis bool
}

// NewManager creates a cache manager with in-memory backends.
func NewManager(queries *store.Queries) *Manager {
	return NewManagerWithConfig(queries, DefaultCacheConfig())
}

// NewManagerWithConfig creates a cache manager using the given backend
// configuration. When Redis is requested but unreachable, the manager
// falls back to the in-memory backend and keeps running.
func NewManagerWithConfig(queries *store.Queries, cfg CacheConfig) *Manager {
	m := &Manager{
		Config:  NewConfigCache(queries),
		Sitemap: NewSitemapCache(queries, time.Hour),
		General: New(5 * time.Minute),
	}

	shared, err := NewCache(cfg)
	if err != nil {
		slog.Warn("shared cache backend unavailable, falling back to memory",
			"type", cfg.Type, "error", err)
		memCfg := cfg
		memCfg.Type = "memory"
		shared, _ = NewCache(memCfg)
	} else if cfg.Type == "redis" && cfg.RedisURL != "" {
		m.isRedis = true
	}
	m.Shared = shared

	return m
}

// IsRedis reports whether the shared backend is Redis.
func (m *Manager) IsRedis() bool {
	return m.isRedis
}

// Start launches the expired-entry sweeper on the general cache.
func (m *Manager) Start() {
	m.General.StartCleanup(time.Minute)
}

// Stop stops background tasks and releases backend connections.
func (m *Manager) Stop() {
	m.General.Stop()
	if m.Shared != nil {
		if err := m.Shared.Close(); err != nil {
			slog.Warn("closing shared cache backend", "error", err)
		}
	}
}

// Preload warms the config cache and, when a site URL is known, builds
// the sitemap ahead of the first request. Sitemap failures are not
// fatal; it will be regenerated on demand.
func (m *Manager) Preload(ctx context.Context, siteURL string) error {
	if err := m.Config.Preload(ctx); err != nil {
		return err
	}
	if siteURL != "" {
		if _, err := m.Sitemap.Get(ctx, siteURL); err != nil {
			slog.Warn("sitemap preload failed", "error", err)
		}
	}
	return nil
}

// InvalidateConfig drops the cached site configuration.
func (m *Manager) InvalidateConfig() {
	m.Config.Invalidate()
}

// InvalidateContent drops everything derived from published content: the
// sitemap (local and shared copies) and the cached published lists. Call
// it whenever articles, projects, services, testimonials or slides
// change.
func (m *Manager) InvalidateContent() {
	m.Sitemap.Invalidate()
	m.dropSharedSitemap()
	m.General.DeleteByPrefix(ContentKeyPrefix)
}

// GetSitemap returns the sitemap XML, serving it from the shared backend
// when present and regenerating it otherwise.
func (m *Manager) GetSitemap(ctx context.Context, siteURL string) ([]byte, error) {
	if m.Shared != nil {
		if data, err := m.Shared.Get(ctx, sitemapKey); err == nil {
			return data, nil
		}
	}

	data, err := m.Sitemap.Get(ctx, siteURL)
	if err != nil {
		return nil, err
	}
	if m.Shared != nil {
		if err := m.Shared.Set(ctx, sitemapKey, data, time.Hour); err != nil {
			slog.Warn("storing sitemap in shared cache", "error", err)
		}
	}
	return data, nil
}

func (m *Manager) dropSharedSitemap() {
	if m.Shared == nil {
		return
	}
	if err := m.Shared.Delete(context.Background(), sitemapKey); err != nil {
		slog.Warn("dropping shared sitemap", "error", err)
	}
}

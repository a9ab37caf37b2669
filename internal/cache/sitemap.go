// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/valforet/valforet-go/internal/seo"
	"github.com/valforet/valforet-go/internal/store"
)

// SitemapCache holds the generated sitemap XML. The sitemap covers every
// published page, so building it walks three tables; the result is kept
// until the TTL passes or content changes invalidate it.
type SitemapCache struct {
	queries *store.Queries
	ttl     time.Duration

	mu      sync.RWMutex
	xml     []byte
	builtAt time.Time
}

// NewSitemapCache creates a sitemap cache. A zero ttl defaults to one hour.
func NewSitemapCache(queries *store.Queries, ttl time.Duration) *SitemapCache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &SitemapCache{queries: queries, ttl: ttl}
}

// Get returns the sitemap XML for siteURL, regenerating it when stale.
func (c *SitemapCache) Get(ctx context.Context, siteURL string) ([]byte, error) {
	c.mu.RLock()
	if c.xml != nil && time.Since(c.builtAt) < c.ttl {
		xml := c.xml
		c.mu.RUnlock()
		return xml, nil
	}
	c.mu.RUnlock()

	return c.rebuild(ctx, siteURL)
}

// Invalidate drops the cached XML; the next Get rebuilds it.
func (c *SitemapCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.xml = nil
	c.builtAt = time.Time{}
}

func (c *SitemapCache) rebuild(ctx context.Context, siteURL string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have rebuilt while we waited for the lock.
	if c.xml != nil && time.Since(c.builtAt) < c.ttl {
		return c.xml, nil
	}

	builder := seo.NewSitemapBuilder(siteURL)
	builder.AddHomepage()
	builder.AddStatic("/projets")
	builder.AddStatic("/actualites")
	builder.AddStatic("/a-propos")
	builder.AddStatic("/contact")

	// A query failure leaves that section out rather than failing the
	// whole sitemap.
	if services, err := c.queries.ListPublishedServices(ctx); err == nil {
		for _, s := range services {
			builder.AddService(seo.SitemapEntry{Slug: s.Slug, UpdatedAt: s.UpdatedAt})
		}
	}
	if projects, err := c.queries.ListPublishedProjects(ctx); err == nil {
		for _, p := range projects {
			builder.AddProject(seo.SitemapEntry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
		}
	}
	if articles, err := c.queries.ListPublishedArticles(ctx); err == nil {
		for _, a := range articles {
			builder.AddArticle(seo.SitemapEntry{Slug: a.Slug, UpdatedAt: a.UpdatedAt})
		}
	}

	xml, err := builder.Build()
	if err != nil {
		return nil, err
	}

	c.xml = xml
	c.builtAt = time.Now()
	return xml, nil
}

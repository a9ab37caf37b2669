// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"

	"github.com/valforet/valforet-go/internal/store"
)

// ConfigCache serves site configuration values from memory. The whole
// config table is loaded on first access and kept until Invalidate;
// config rows change rarely and are read on every request for the site
// name, so a per-key TTL buys nothing here.
type ConfigCache struct {
	queries *store.Queries

	mu     sync.RWMutex
	loaded bool
	values map[string]string
}

// NewConfigCache creates a config cache over the given query layer.
func NewConfigCache(queries *store.Queries) *ConfigCache {
	return &ConfigCache{
		queries: queries,
		values:  make(map[string]string),
	}
}

// Get returns the config value for key, loading the table on first use.
// A missing key returns an empty string with no error.
func (c *ConfigCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	if c.loaded {
		value := c.values[key]
		c.mu.RUnlock()
		return value, nil
	}
	c.mu.RUnlock()

	if err := c.load(ctx); err != nil {
		return "", err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key], nil
}

// Preload loads the config table eagerly, for startup warm-up.
func (c *ConfigCache) Preload(ctx context.Context) error {
	return c.load(ctx)
}

// Invalidate drops the loaded values; the next Get reloads the table.
func (c *ConfigCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.values = make(map[string]string)
}

func (c *ConfigCache) load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}

	configs, err := c.queries.ListConfig(ctx)
	if err != nil {
		return err
	}

	c.values = make(map[string]string, len(configs))
	for _, cfg := range configs {
		c.values[cfg.Key] = cfg.Value
	}
	c.loaded = true
	return nil
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"
)

func TestManagerInvalidateContent(t *testing.T) {
	m := NewManager(nil)
	defer m.Stop()

	m.General.Set(ContentKeyPrefix+"articles", []string{"a"})
	m.General.Set(ContentKeyPrefix+"projects", []string{"p"})
	m.General.Set("unrelated", 1)

	m.InvalidateContent()

	if _, ok := m.General.Get(ContentKeyPrefix + "articles"); ok {
		t.Error("content:articles survived InvalidateContent")
	}
	if _, ok := m.General.Get(ContentKeyPrefix + "projects"); ok {
		t.Error("content:projects survived InvalidateContent")
	}
	if _, ok := m.General.Get("unrelated"); !ok {
		t.Error("unrelated key was removed by InvalidateContent")
	}
}

func TestManagerSharedBackend(t *testing.T) {
	m := NewManager(nil)
	defer m.Stop()

	if m.IsRedis() {
		t.Error("IsRedis() = true for default manager, want false")
	}

	ctx := context.Background()
	if err := m.Shared.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Shared.Set() error = %v", err)
	}
	got, err := m.Shared.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Shared.Get() = %q, %v, want %q, nil", got, err, "v")
	}
}

func TestManagerRedisFallback(t *testing.T) {
	cfg := DefaultCacheConfig()
	cfg.Type = "redis"
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	m := NewManagerWithConfig(nil, cfg)
	defer m.Stop()

	if m.IsRedis() {
		t.Error("IsRedis() = true after failed Redis connection, want false")
	}
	if m.Shared == nil {
		t.Fatal("Shared = nil, want memory fallback")
	}
	if _, ok := m.Shared.(*MemoryCache); !ok {
		t.Errorf("Shared = %T, want *MemoryCache fallback", m.Shared)
	}
}

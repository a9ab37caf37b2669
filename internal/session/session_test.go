// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package session_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/valforet/valforet-go/internal/session"
	"github.com/valforet/valforet-go/internal/testutil"
)

func TestNewCookieSettings(t *testing.T) {
	tests := []struct {
		name       string
		isDev      bool
		wantSecure bool
		wantName   string
	}{
		{"development", true, false, "session"},
		{"production", false, true, "__Host-session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.TestDB(t)

			sm := session.New(db, tt.isDev)

			if sm.Cookie.Secure != tt.wantSecure {
				t.Errorf("Cookie.Secure = %v, want %v", sm.Cookie.Secure, tt.wantSecure)
			}
			if sm.Cookie.Name != tt.wantName {
				t.Errorf("Cookie.Name = %q, want %q", sm.Cookie.Name, tt.wantName)
			}
			if !sm.Cookie.HttpOnly {
				t.Error("Cookie.HttpOnly should always be set")
			}
			if sm.Cookie.SameSite != http.SameSiteLaxMode {
				t.Errorf("Cookie.SameSite = %v, want Lax", sm.Cookie.SameSite)
			}
			if sm.Lifetime != 24*time.Hour {
				t.Errorf("Lifetime = %v, want 24h", sm.Lifetime)
			}
			if sm.Cookie.Path != "/" {
				t.Errorf("Cookie.Path = %q, want /", sm.Cookie.Path)
			}
		})
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	db := testutil.TestDB(t)

	sm := session.New(db, true)
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, _, ok := session.Identity(sm, ctx); ok {
		t.Fatal("fresh session should carry no identity")
	}

	session.SetIdentity(sm, ctx, 7, "claire@valforet.fr")

	userID, email, ok := session.Identity(sm, ctx)
	if !ok {
		t.Fatal("identity not found after SetIdentity")
	}
	if userID != 7 {
		t.Errorf("userID = %d, want 7", userID)
	}
	if email != "claire@valforet.fr" {
		t.Errorf("email = %q, want claire@valforet.fr", email)
	}
}

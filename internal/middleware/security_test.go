// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithHeaders(t *testing.T, cfg SecurityHeadersConfig, path string) http.Header {
	t.Helper()
	h := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Header()
}

func TestSecurityHeadersProduction(t *testing.T) {
	headers := serveWithHeaders(t, DefaultSecurityHeadersConfig(false), "/projets")

	if got := headers.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := headers.Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := headers.Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("Strict-Transport-Security = %q", got)
	}
	csp := headers.Get("Content-Security-Policy")
	if !strings.Contains(csp, "script-src 'self';") {
		t.Errorf("production CSP should restrict scripts, got %q", csp)
	}
	if strings.Contains(csp, "unsafe-eval") {
		t.Errorf("production CSP allows unsafe-eval: %q", csp)
	}
	if got := headers.Get("Permissions-Policy"); !strings.Contains(got, "camera=()") {
		t.Errorf("Permissions-Policy = %q", got)
	}
}

func TestSecurityHeadersDevelopment(t *testing.T) {
	headers := serveWithHeaders(t, DefaultSecurityHeadersConfig(true), "/")

	if got := headers.Get("Strict-Transport-Security"); got != "" {
		t.Errorf("development should not send HSTS, got %q", got)
	}
	if csp := headers.Get("Content-Security-Policy"); !strings.Contains(csp, "unsafe-eval") {
		t.Errorf("development CSP missing unsafe-eval: %q", csp)
	}
}

func TestSecurityHeadersExcludedPath(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/uploads/"}

	headers := serveWithHeaders(t, cfg, "/uploads/originals/x/a.jpg")
	if got := headers.Get("Content-Security-Policy"); got != "" {
		t.Errorf("excluded path still got CSP %q", got)
	}
}

func TestStaticCache(t *testing.T) {
	h := StaticCache(86400)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/site.css", nil))

	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", got)
	}
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/valforet/valforet-go/internal/cache"
	"github.com/valforet/valforet-go/internal/seo"
)

// SEOHandler serves the crawler-facing endpoints.
type SEOHandler struct {
	caches  *cache.Manager
	siteURL string
}

// NewSEOHandler creates a new SEOHandler. siteURL is the canonical origin
// without trailing slash, e.g. https://valforet.fr.
func NewSEOHandler(caches *cache.Manager, siteURL string) *SEOHandler {
	return &SEOHandler{caches: caches, siteURL: siteURL}
}

// Sitemap serves /sitemap.xml from the sitemap cache, regenerating it on
// a cold or expired cache.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	data, err := h.caches.GetSitemap(r.Context(), h.siteURL)
	if err != nil {
		logAndInternalError(w, "generating sitemap", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(data)
}

// Robots serves /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.Robots(h.siteURL, false)))
}

// SecurityTxt serves /.well-known/security.txt.
func (h *SEOHandler) SecurityTxt(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.SecurityTxt("mailto:securite@valforet.fr", time.Now().AddDate(1, 0, 0))))
}

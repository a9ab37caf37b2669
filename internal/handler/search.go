// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/valforet/valforet-go/internal/i18n"
	"github.com/valforet/valforet-go/internal/middleware"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/service"
)

// SearchHandler serves the search page and the JSON endpoint behind the
// live search overlay.
type SearchHandler struct {
	search   *service.SearchService
	renderer *render.Renderer
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(search *service.SearchService, renderer *render.Renderer) *SearchHandler {
	return &SearchHandler{search: search, renderer: renderer}
}

// SearchPageData holds data for the search page.
type SearchPageData struct {
	Results service.SearchResults
}

// Page renders the search page for a ?q= query.
func (h *SearchHandler) Page(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	query := r.URL.Query().Get("q")

	results, err := h.search.Search(r.Context(), query, lang)
	if err != nil {
		slog.Error("search failed", "error", err, "query", query)
	}

	renderErr := h.renderer.Render(w, r, "frontend/search", render.TemplateData{
		Title:    i18n.T(lang, "nav.search"),
		Lang:     lang,
		SiteName: middleware.GetSiteName(r),
		Data:     SearchPageData{Results: results},
	})
	if renderErr != nil {
		logAndInternalError(w, "rendering search page", "error", renderErr)
	}
}

// searchResponse is the JSON shape of the live-search endpoint.
type searchResponse struct {
	Query    string               `json:"query"`
	Prompt   bool                 `json:"prompt"`
	Total    int                  `json:"total"`
	Projects []model.SearchResult `json:"projects"`
	Articles []model.SearchResult `json:"articles"`
}

// API answers /api/v1/search?q= with grouped results. A too-short query
// returns the prompt state rather than an error.
func (h *SearchHandler) API(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	query := r.URL.Query().Get("q")

	results, err := h.search.Search(r.Context(), query, lang)
	if err != nil {
		slog.Error("search failed", "error", err, "query", query)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query:    results.Query,
		Prompt:   results.Prompt,
		Total:    results.Total(),
		Projects: emptyIfNil(results.Projects),
		Articles: emptyIfNil(results.Articles),
	})
}

// writeJSON encodes v to the response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

// emptyIfNil keeps JSON arrays as [] instead of null.
func emptyIfNil(results []model.SearchResult) []model.SearchResult {
	if results == nil {
		return []model.SearchResult{}
	}
	return results
}

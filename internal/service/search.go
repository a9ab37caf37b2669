// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/valforet/valforet-go/internal/i18n"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/store"
)

// Search behavior constants.
const (
	// MinQueryLength is the minimum number of characters before any
	// query is issued; shorter input yields the prompt state.
	MinQueryLength = 2
	// MaxResultsPerType caps how many hits each content type contributes.
	MaxResultsPerType = 5
	// ExcerptLength is the plain-text excerpt size in runes.
	ExcerptLength = 100
)

// SearchResults aggregates hits across content types for one query.
type SearchResults struct {
	Query    string
	Prompt   bool // true when the query was too short to search
	Articles []model.SearchResult
	Projects []model.SearchResult
}

// Empty reports whether a performed search matched nothing.
func (r SearchResults) Empty() bool {
	return !r.Prompt && len(r.Articles) == 0 && len(r.Projects) == 0
}

// Total returns the combined number of hits.
func (r SearchResults) Total() int {
	return len(r.Articles) + len(r.Projects)
}

// SearchService aggregates matches from published articles and projects.
// Only published content is ever searched; draft and archived rows are
// invisible here regardless of the caller's role.
type SearchService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(db *sql.DB, logger *slog.Logger) *SearchService {
	return &SearchService{queries: store.New(db), logger: logger}
}

// Search runs one aggregated search. A query shorter than MinQueryLength
// (after trimming) returns the prompt state without touching the database.
func (s *SearchService) Search(ctx context.Context, query, lang string) (SearchResults, error) {
	trimmed := strings.TrimSpace(query)
	if len([]rune(trimmed)) < MinQueryLength {
		return SearchResults{Query: trimmed, Prompt: true}, nil
	}

	results := SearchResults{Query: trimmed}
	pattern := likePattern(trimmed)
	now := time.Now()

	articles, err := s.queries.SearchPublishedArticles(ctx, store.SearchPublishedArticlesParams{
		Pattern: pattern,
		Limit:   MaxResultsPerType,
	})
	if err != nil {
		return SearchResults{}, err
	}
	for _, a := range articles {
		results.Articles = append(results.Articles, model.SearchResult{
			ID:           a.ID,
			Type:         model.SearchTypeArticle,
			Title:        a.Title,
			Slug:         a.Slug,
			Category:     a.Category,
			Excerpt:      Excerpt(firstNonEmpty(a.Excerpt, a.Body), ExcerptLength),
			Date:         a.CreatedAt,
			RelativeDate: i18n.RelativeDate(lang, a.CreatedAt, now),
		})
	}

	projects, err := s.queries.SearchPublishedProjects(ctx, store.SearchPublishedProjectsParams{
		Pattern: pattern,
		Limit:   MaxResultsPerType,
	})
	if err != nil {
		return SearchResults{}, err
	}
	for _, p := range projects {
		results.Projects = append(results.Projects, model.SearchResult{
			ID:           p.ID,
			Type:         model.SearchTypeProject,
			Title:        p.Title,
			Slug:         p.Slug,
			Category:     p.Category,
			Excerpt:      Excerpt(p.Description, ExcerptLength),
			Date:         p.CreatedAt,
			RelativeDate: i18n.RelativeDate(lang, p.CreatedAt, now),
		})
	}

	return results, nil
}

// likePattern builds the LIKE pattern for a search term, escaping the SQL
// wildcards so user input matches literally.
func likePattern(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "%", `\%`)
	term = strings.ReplaceAll(term, "_", `\_`)
	return "%" + term + "%"
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// StripHTMLTags removes markup and normalizes whitespace, leaving plain
// text suitable for excerpts.
func StripHTMLTags(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// Excerpt returns the first maxRunes runes of the HTML-stripped text, with
// an ellipsis when truncated.
func Excerpt(body string, maxRunes int) string {
	text := StripHTMLTags(body)
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

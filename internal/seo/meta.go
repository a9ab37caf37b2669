// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the discovery surface of the site: per-page meta
// tags, JSON-LD structured data, the sitemap, robots.txt and
// security.txt.
package seo

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"
)

// descriptionLength is the cut-off for generated meta descriptions.
const descriptionLength = 160

// Meta is the per-page <head> metadata rendered by the base layout.
type Meta struct {
	Description string
	Canonical   string
	OGType      string
	OGImage     string
	NoIndex     bool
	JSONLD      template.JS
}

// Page describes a page for meta generation. Summary may contain HTML;
// it is stripped and truncated for the description.
type Page struct {
	Summary string
	Path    string
	Image   string
	NoIndex bool
}

// PageMeta builds the head metadata for a page on the given site.
func PageMeta(p Page, siteURL string) *Meta {
	return &Meta{
		Description: Summarize(p.Summary, descriptionLength),
		Canonical:   AbsoluteURL(p.Path, siteURL),
		OGType:      "website",
		OGImage:     AbsoluteURL(p.Image, siteURL),
		NoIndex:     p.NoIndex,
	}
}

// Article describes a published article for JSON-LD generation.
type Article struct {
	Title       string
	Summary     string
	Path        string
	Image       string
	AuthorName  string
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// ArticleMeta builds the head metadata for an article page, including
// schema.org NewsArticle structured data.
func ArticleMeta(a Article, siteURL, siteName string) *Meta {
	m := PageMeta(Page{Summary: a.Summary, Path: a.Path, Image: a.Image}, siteURL)
	m.OGType = "article"

	ld := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "NewsArticle",
		"headline":      a.Title,
		"description":   m.Description,
		"url":           m.Canonical,
		"datePublished": a.PublishedAt.Format(time.RFC3339),
		"publisher": map[string]any{
			"@type": "Organization",
			"name":  siteName,
			"url":   siteURL,
		},
	}
	if !a.UpdatedAt.IsZero() {
		ld["dateModified"] = a.UpdatedAt.Format(time.RFC3339)
	}
	if a.AuthorName != "" {
		ld["author"] = map[string]any{"@type": "Person", "name": a.AuthorName}
	}
	if m.OGImage != "" {
		ld["image"] = []string{m.OGImage}
	}

	if data, err := json.Marshal(ld); err == nil {
		m.JSONLD = template.JS(data)
	}
	return m
}

// RobotsDirective returns the robots meta value for a page.
func (m *Meta) RobotsDirective() string {
	if m.NoIndex {
		return "noindex, nofollow"
	}
	return "index, follow"
}

// Summarize strips HTML tags from s, collapses whitespace and truncates
// the result to max runes on a word boundary.
func Summarize(s string, max int) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteByte(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	text := strings.Join(strings.Fields(b.String()), " ")
	if utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)[:max]
	if idx := strings.LastIndex(string(runes), " "); idx > max/2 {
		runes = []rune(string(runes)[:idx])
	}
	return strings.TrimRight(string(runes), " ,;:.") + "…"
}

// AbsoluteURL resolves path against siteURL. Absolute inputs and empty
// strings pass through untouched.
func AbsoluteURL(path, siteURL string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(siteURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

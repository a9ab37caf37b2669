// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Search result types.
const (
	SearchTypeArticle = "article"
	SearchTypeProject = "project"
)

// SearchResult is the ephemeral, uniform shape produced by the global search
// aggregator for the duration of one search session. Never persisted.
type SearchResult struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Excerpt      string    `json:"excerpt"`
	Category     string    `json:"category,omitempty"`
	Date         time.Time `json:"date"`
	RelativeDate string    `json:"relative_date"`
}

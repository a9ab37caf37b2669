// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// CategoryAll is the sentinel meaning "no category filter".
// Category comparisons elsewhere are exact and case-sensitive.
const CategoryAll = "Tous"

// ArticleCategories lists the categories editors may assign to articles.
var ArticleCategories = []string{"Actualités", "Conseils", "Réglementation"}

// Article represents a published or draft news/advice article.
type Article struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Slug      string       `json:"slug"`
	Category  string       `json:"category"`
	Excerpt   string       `json:"excerpt"`
	Body      string       `json:"body"`
	Published bool         `json:"published"`
	PublishAt sql.NullTime `json:"publish_at,omitempty"`
	AuthorID  int64        `json:"author_id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// IsValidArticleCategory reports whether c is a category editors may assign.
func IsValidArticleCategory(c string) bool {
	for _, v := range ArticleCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/valforet/valforet-go/internal/model"
)

const articleColumns = `id, title, slug, category, excerpt, body, published, publish_at, author_id, created_at, updated_at`

func scanArticle(row interface{ Scan(...any) error }) (model.Article, error) {
	var a model.Article
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Category, &a.Excerpt, &a.Body,
		&a.Published, &a.PublishAt, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (q *Queries) queryArticles(ctx context.Context, query string, args ...any) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var articles []model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// CreateArticleParams holds the fields required to create an article.
type CreateArticleParams struct {
	Title     string
	Slug      string
	Category  string
	Excerpt   string
	Body      string
	Published bool
	PublishAt time.Time // zero time means no scheduled publication
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateArticle inserts a new article and returns it.
func (q *Queries) CreateArticle(ctx context.Context, arg CreateArticleParams) (model.Article, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO articles (title, slug, category, excerpt, body, published, publish_at, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+articleColumns,
		arg.Title, arg.Slug, arg.Category, arg.Excerpt, arg.Body, arg.Published,
		nullTime(arg.PublishAt), arg.AuthorID, arg.CreatedAt, arg.UpdatedAt)
	return scanArticle(row)
}

// GetArticleByID returns the article with the given ID, published or not.
func (q *Queries) GetArticleByID(ctx context.Context, id int64) (model.Article, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	return scanArticle(row)
}

// GetPublishedArticleBySlug returns a published article by slug.
// Unpublished rows do not resolve: public pages treat them as not found.
func (q *Queries) GetPublishedArticleBySlug(ctx context.Context, slug string) (model.Article, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = ? AND published = 1`, slug)
	return scanArticle(row)
}

// ListPublishedArticles returns every published article, newest first.
// Public list pages fetch the full set once and derive pages client-side.
func (q *Queries) ListPublishedArticles(ctx context.Context) ([]model.Article, error) {
	return q.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE published = 1 ORDER BY created_at DESC`)
}

// ListArticlesParams holds admin listing parameters.
type ListArticlesParams struct {
	Limit  int64
	Offset int64
}

// ListArticles returns a page of articles for the admin list, newest first.
func (q *Queries) ListArticles(ctx context.Context, arg ListArticlesParams) ([]model.Article, error) {
	return q.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM articles ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
}

// CountArticles returns the total number of articles.
func (q *Queries) CountArticles(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n)
	return n, err
}

// CountPublishedArticles returns the number of published articles.
func (q *Queries) CountPublishedArticles(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles WHERE published = 1`).Scan(&n)
	return n, err
}

// SearchPublishedArticlesParams holds search parameters.
type SearchPublishedArticlesParams struct {
	Pattern string // LIKE pattern, e.g. "%terme%"
	Limit   int64
}

// SearchPublishedArticles matches published articles on title, excerpt or
// body. SQLite LIKE is case-insensitive for ASCII.
func (q *Queries) SearchPublishedArticles(ctx context.Context, arg SearchPublishedArticlesParams) ([]model.Article, error) {
	return q.queryArticles(ctx, `
		SELECT `+articleColumns+` FROM articles
		WHERE published = 1
		  AND (title LIKE ?1 ESCAPE '\' OR excerpt LIKE ?1 ESCAPE '\' OR body LIKE ?1 ESCAPE '\')
		ORDER BY created_at DESC LIMIT ?2`,
		arg.Pattern, arg.Limit)
}

// UpdateArticleParams holds the editable article fields.
type UpdateArticleParams struct {
	Title     string
	Slug      string
	Category  string
	Excerpt   string
	Body      string
	Published bool
	PublishAt time.Time
	UpdatedAt time.Time
	ID        int64
}

// UpdateArticle updates an article's editable fields.
func (q *Queries) UpdateArticle(ctx context.Context, arg UpdateArticleParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE articles
		SET title = ?, slug = ?, category = ?, excerpt = ?, body = ?, published = ?, publish_at = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Slug, arg.Category, arg.Excerpt, arg.Body, arg.Published,
		nullTime(arg.PublishAt), arg.UpdatedAt, arg.ID)
	return err
}

// SetArticlePublished toggles an article's published flag.
func (q *Queries) SetArticlePublished(ctx context.Context, id int64, published bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE articles SET published = ?, updated_at = ? WHERE id = ?`,
		published, updatedAt, id)
	return err
}

// DeleteArticle removes an article.
func (q *Queries) DeleteArticle(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	return err
}

// CountArticleSlug returns how many articles other than excludeID use slug.
// Pass excludeID 0 when creating.
func (q *Queries) CountArticleSlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}

// PublishDueArticles publishes all drafts whose scheduled time has passed.
// Returns the number of articles published. Called by the scheduler.
func (q *Queries) PublishDueArticles(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE articles SET published = 1, updated_at = ?
		WHERE published = 0 AND publish_at IS NOT NULL AND publish_at <= ?`,
		now, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/valforet/valforet-go/internal/model"
)

const testimonialColumns = `id, author, role, quote, rating, display_order, published, archived, created_at, updated_at`

func scanTestimonial(row interface{ Scan(...any) error }) (model.Testimonial, error) {
	var t model.Testimonial
	err := row.Scan(&t.ID, &t.Author, &t.Role, &t.Quote, &t.Rating,
		&t.DisplayOrder, &t.Published, &t.Archived, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (q *Queries) queryTestimonials(ctx context.Context, query string, args ...any) ([]model.Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var testimonials []model.Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}

// CreateTestimonialParams holds the fields required to create a testimonial.
type CreateTestimonialParams struct {
	Author       string
	Role         string
	Quote        string
	Rating       int64
	DisplayOrder int64
	Published    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateTestimonial inserts a new testimonial and returns it.
func (q *Queries) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (model.Testimonial, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO testimonials (author, role, quote, rating, display_order, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+testimonialColumns,
		arg.Author, arg.Role, arg.Quote, arg.Rating, arg.DisplayOrder,
		arg.Published, arg.CreatedAt, arg.UpdatedAt)
	return scanTestimonial(row)
}

// GetTestimonialByID returns the testimonial with the given ID.
func (q *Queries) GetTestimonialByID(ctx context.Context, id int64) (model.Testimonial, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = ?`, id)
	return scanTestimonial(row)
}

// ListPublishedTestimonials returns published, non-archived testimonials
// by display order.
func (q *Queries) ListPublishedTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	return q.queryTestimonials(ctx, `
		SELECT `+testimonialColumns+` FROM testimonials
		WHERE published = 1 AND archived = 0
		ORDER BY display_order, id`)
}

// ListTestimonials returns non-archived testimonials for the admin list.
func (q *Queries) ListTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	return q.queryTestimonials(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE archived = 0 ORDER BY display_order, id`)
}

// ListArchivedTestimonials returns archived testimonials for the archive tab.
func (q *Queries) ListArchivedTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	return q.queryTestimonials(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE archived = 1 ORDER BY display_order, id`)
}

// UpdateTestimonialParams holds the editable testimonial fields.
type UpdateTestimonialParams struct {
	Author       string
	Role         string
	Quote        string
	Rating       int64
	DisplayOrder int64
	Published    bool
	UpdatedAt    time.Time
	ID           int64
}

// UpdateTestimonial updates a testimonial's editable fields.
func (q *Queries) UpdateTestimonial(ctx context.Context, arg UpdateTestimonialParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE testimonials
		SET author = ?, role = ?, quote = ?, rating = ?, display_order = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		arg.Author, arg.Role, arg.Quote, arg.Rating, arg.DisplayOrder,
		arg.Published, arg.UpdatedAt, arg.ID)
	return err
}

// SetTestimonialArchived moves a testimonial in or out of the archive.
func (q *Queries) SetTestimonialArchived(ctx context.Context, id int64, archived bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE testimonials SET archived = ?, updated_at = ? WHERE id = ?`,
		archived, updatedAt, id)
	return err
}

// DeleteTestimonial removes a testimonial.
func (q *Queries) DeleteTestimonial(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = ?`, id)
	return err
}

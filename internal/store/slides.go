// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/valforet/valforet-go/internal/model"
)

const slideColumns = `id, title, subtitle, image_path, button_label, button_url, display_order, published, created_at, updated_at`

func scanSlide(row interface{ Scan(...any) error }) (model.HeroSlide, error) {
	var s model.HeroSlide
	err := row.Scan(&s.ID, &s.Title, &s.Subtitle, &s.ImagePath, &s.ButtonLabel,
		&s.ButtonURL, &s.DisplayOrder, &s.Published, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (q *Queries) querySlides(ctx context.Context, query string, args ...any) ([]model.HeroSlide, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var slides []model.HeroSlide
	for rows.Next() {
		s, err := scanSlide(rows)
		if err != nil {
			return nil, err
		}
		slides = append(slides, s)
	}
	return slides, rows.Err()
}

// CreateSlideParams holds the fields required to create a hero slide.
type CreateSlideParams struct {
	Title        string
	Subtitle     string
	ImagePath    string
	ButtonLabel  string
	ButtonURL    string
	DisplayOrder int64
	Published    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateSlide inserts a new hero slide and returns it.
func (q *Queries) CreateSlide(ctx context.Context, arg CreateSlideParams) (model.HeroSlide, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO hero_slides (title, subtitle, image_path, button_label, button_url, display_order, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+slideColumns,
		arg.Title, arg.Subtitle, arg.ImagePath, arg.ButtonLabel, arg.ButtonURL,
		arg.DisplayOrder, arg.Published, arg.CreatedAt, arg.UpdatedAt)
	return scanSlide(row)
}

// GetSlideByID returns the hero slide with the given ID.
func (q *Queries) GetSlideByID(ctx context.Context, id int64) (model.HeroSlide, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+slideColumns+` FROM hero_slides WHERE id = ?`, id)
	return scanSlide(row)
}

// ListPublishedSlides returns published slides by display order for the
// home page carousel.
func (q *Queries) ListPublishedSlides(ctx context.Context) ([]model.HeroSlide, error) {
	return q.querySlides(ctx,
		`SELECT `+slideColumns+` FROM hero_slides WHERE published = 1 ORDER BY display_order, id`)
}

// ListSlides returns all slides for the admin list, by display order.
func (q *Queries) ListSlides(ctx context.Context) ([]model.HeroSlide, error) {
	return q.querySlides(ctx,
		`SELECT `+slideColumns+` FROM hero_slides ORDER BY display_order, id`)
}

// UpdateSlideParams holds the editable slide fields.
type UpdateSlideParams struct {
	Title        string
	Subtitle     string
	ImagePath    string
	ButtonLabel  string
	ButtonURL    string
	DisplayOrder int64
	Published    bool
	UpdatedAt    time.Time
	ID           int64
}

// UpdateSlide updates a slide's editable fields.
func (q *Queries) UpdateSlide(ctx context.Context, arg UpdateSlideParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE hero_slides
		SET title = ?, subtitle = ?, image_path = ?, button_label = ?, button_url = ?, display_order = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Subtitle, arg.ImagePath, arg.ButtonLabel, arg.ButtonURL,
		arg.DisplayOrder, arg.Published, arg.UpdatedAt, arg.ID)
	return err
}

// SetSlidePublished toggles a slide's published flag.
func (q *Queries) SetSlidePublished(ctx context.Context, id int64, published bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE hero_slides SET published = ?, updated_at = ? WHERE id = ?`,
		published, updatedAt, id)
	return err
}

// DeleteSlide removes a hero slide.
func (q *Queries) DeleteSlide(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM hero_slides WHERE id = ?`, id)
	return err
}

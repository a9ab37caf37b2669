// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/valforet/valforet-go/internal/model"
)

const serviceColumns = `id, title, slug, icon, summary, body, display_order, published, archived, created_at, updated_at`

func scanService(row interface{ Scan(...any) error }) (model.Service, error) {
	var s model.Service
	err := row.Scan(&s.ID, &s.Title, &s.Slug, &s.Icon, &s.Summary, &s.Body,
		&s.DisplayOrder, &s.Published, &s.Archived, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (q *Queries) queryServices(ctx context.Context, query string, args ...any) ([]model.Service, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var services []model.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// CreateServiceParams holds the fields required to create a service.
type CreateServiceParams struct {
	Title        string
	Slug         string
	Icon         string
	Summary      string
	Body         string
	DisplayOrder int64
	Published    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateService inserts a new service and returns it.
func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (model.Service, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO services (title, slug, icon, summary, body, display_order, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+serviceColumns,
		arg.Title, arg.Slug, arg.Icon, arg.Summary, arg.Body, arg.DisplayOrder,
		arg.Published, arg.CreatedAt, arg.UpdatedAt)
	return scanService(row)
}

// GetServiceByID returns the service with the given ID.
func (q *Queries) GetServiceByID(ctx context.Context, id int64) (model.Service, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	return scanService(row)
}

// GetPublishedServiceBySlug returns a published, non-archived service by slug.
func (q *Queries) GetPublishedServiceBySlug(ctx context.Context, slug string) (model.Service, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE slug = ? AND published = 1 AND archived = 0`, slug)
	return scanService(row)
}

// ListPublishedServices returns published, non-archived services by display order.
func (q *Queries) ListPublishedServices(ctx context.Context) ([]model.Service, error) {
	return q.queryServices(ctx, `
		SELECT `+serviceColumns+` FROM services
		WHERE published = 1 AND archived = 0
		ORDER BY display_order, id`)
}

// ListServices returns non-archived services for the admin list, by display order.
func (q *Queries) ListServices(ctx context.Context) ([]model.Service, error) {
	return q.queryServices(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE archived = 0 ORDER BY display_order, id`)
}

// ListArchivedServices returns archived services for the archive tab.
func (q *Queries) ListArchivedServices(ctx context.Context) ([]model.Service, error) {
	return q.queryServices(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE archived = 1 ORDER BY display_order, id`)
}

// CountServices returns the number of non-archived services.
func (q *Queries) CountServices(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM services WHERE archived = 0`).Scan(&n)
	return n, err
}

// UpdateServiceParams holds the editable service fields.
type UpdateServiceParams struct {
	Title        string
	Slug         string
	Icon         string
	Summary      string
	Body         string
	DisplayOrder int64
	Published    bool
	UpdatedAt    time.Time
	ID           int64
}

// UpdateService updates a service's editable fields.
func (q *Queries) UpdateService(ctx context.Context, arg UpdateServiceParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE services
		SET title = ?, slug = ?, icon = ?, summary = ?, body = ?, display_order = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Slug, arg.Icon, arg.Summary, arg.Body, arg.DisplayOrder,
		arg.Published, arg.UpdatedAt, arg.ID)
	return err
}

// SetServiceArchived moves a service in or out of the archive. Archived
// services disappear from the public site and the default admin tab but
// keep their data.
func (q *Queries) SetServiceArchived(ctx context.Context, id int64, archived bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE services SET archived = ?, updated_at = ? WHERE id = ?`,
		archived, updatedAt, id)
	return err
}

// DeleteService removes a service.
func (q *Queries) DeleteService(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	return err
}

// CountServiceSlug returns how many services other than excludeID use slug.
func (q *Queries) CountServiceSlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM services WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}

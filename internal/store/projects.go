// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/valforet/valforet-go/internal/model"
)

const projectColumns = `id, title, slug, category, description, client, location, published, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Category, &p.Description,
		&p.Client, &p.Location, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (q *Queries) queryProjects(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProjectParams holds the fields required to create a project.
type CreateProjectParams struct {
	Title       string
	Slug        string
	Category    string
	Description string
	Client      string
	Location    string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateProject inserts a new project and returns it.
func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (model.Project, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO projects (title, slug, category, description, client, location, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+projectColumns,
		arg.Title, arg.Slug, arg.Category, arg.Description, arg.Client, arg.Location,
		arg.Published, arg.CreatedAt, arg.UpdatedAt)
	return scanProject(row)
}

// GetProjectByID returns the project with the given ID.
func (q *Queries) GetProjectByID(ctx context.Context, id int64) (model.Project, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// GetPublishedProjectBySlug returns a published project by slug.
func (q *Queries) GetPublishedProjectBySlug(ctx context.Context, slug string) (model.Project, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE slug = ? AND published = 1`, slug)
	return scanProject(row)
}

// ListPublishedProjects returns every published project, newest first.
func (q *Queries) ListPublishedProjects(ctx context.Context) ([]model.Project, error) {
	return q.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE published = 1 ORDER BY created_at DESC`)
}

// ListProjectsParams holds admin listing parameters.
type ListProjectsParams struct {
	Limit  int64
	Offset int64
}

// ListProjects returns a page of projects for the admin list, newest first.
func (q *Queries) ListProjects(ctx context.Context, arg ListProjectsParams) ([]model.Project, error) {
	return q.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
}

// CountProjects returns the total number of projects.
func (q *Queries) CountProjects(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n)
	return n, err
}

// CountPublishedProjects returns the number of published projects.
func (q *Queries) CountPublishedProjects(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE published = 1`).Scan(&n)
	return n, err
}

// SearchPublishedProjectsParams holds search parameters.
type SearchPublishedProjectsParams struct {
	Pattern string
	Limit   int64
}

// SearchPublishedProjects matches published projects on title, description,
// client or location.
func (q *Queries) SearchPublishedProjects(ctx context.Context, arg SearchPublishedProjectsParams) ([]model.Project, error) {
	return q.queryProjects(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE published = 1
		  AND (title LIKE ?1 ESCAPE '\' OR description LIKE ?1 ESCAPE '\'
		       OR client LIKE ?1 ESCAPE '\' OR location LIKE ?1 ESCAPE '\')
		ORDER BY created_at DESC LIMIT ?2`,
		arg.Pattern, arg.Limit)
}

// UpdateProjectParams holds the editable project fields.
type UpdateProjectParams struct {
	Title       string
	Slug        string
	Category    string
	Description string
	Client      string
	Location    string
	Published   bool
	UpdatedAt   time.Time
	ID          int64
}

// UpdateProject updates a project's editable fields.
func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE projects
		SET title = ?, slug = ?, category = ?, description = ?, client = ?, location = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Slug, arg.Category, arg.Description, arg.Client, arg.Location,
		arg.Published, arg.UpdatedAt, arg.ID)
	return err
}

// SetProjectPublished toggles a project's published flag.
func (q *Queries) SetProjectPublished(ctx context.Context, id int64, published bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE projects SET published = ?, updated_at = ? WHERE id = ?`,
		published, updatedAt, id)
	return err
}

// DeleteProject removes a project. Its images are removed by cascade.
func (q *Queries) DeleteProject(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}

// CountProjectSlug returns how many projects other than excludeID use slug.
func (q *Queries) CountProjectSlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}

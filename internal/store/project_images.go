// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/valforet/valforet-go/internal/model"
)

const projectImageColumns = `id, project_id, path, display_order, is_cover, created_at`

func scanProjectImage(row interface{ Scan(...any) error }) (model.ProjectImage, error) {
	var img model.ProjectImage
	err := row.Scan(&img.ID, &img.ProjectID, &img.Path, &img.DisplayOrder, &img.IsCover, &img.CreatedAt)
	return img, err
}

// CreateProjectImageParams holds the fields required to attach an image.
type CreateProjectImageParams struct {
	ProjectID    int64
	Path         string
	DisplayOrder int64
	IsCover      bool
	CreatedAt    time.Time
}

// CreateProjectImage attaches an image to a project and returns it.
func (q *Queries) CreateProjectImage(ctx context.Context, arg CreateProjectImageParams) (model.ProjectImage, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO project_images (project_id, path, display_order, is_cover, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+projectImageColumns,
		arg.ProjectID, arg.Path, arg.DisplayOrder, arg.IsCover, arg.CreatedAt)
	return scanProjectImage(row)
}

// GetProjectImageByID returns a single project image.
func (q *Queries) GetProjectImageByID(ctx context.Context, id int64) (model.ProjectImage, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+projectImageColumns+` FROM project_images WHERE id = ?`, id)
	return scanProjectImage(row)
}

// ListProjectImages returns a project's images ordered by display_order.
func (q *Queries) ListProjectImages(ctx context.Context, projectID int64) ([]model.ProjectImage, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+projectImageColumns+` FROM project_images WHERE project_id = ? ORDER BY display_order, id`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var images []model.ProjectImage
	for rows.Next() {
		img, err := scanProjectImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// CountProjectImages returns the number of images attached to a project.
// New uploads take this count as their display_order.
func (q *Queries) CountProjectImages(ctx context.Context, projectID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM project_images WHERE project_id = ?`, projectID).Scan(&n)
	return n, err
}

// GetProjectCover returns the cover image of a project.
func (q *Queries) GetProjectCover(ctx context.Context, projectID int64) (model.ProjectImage, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+projectImageColumns+` FROM project_images WHERE project_id = ? AND is_cover = 1`,
		projectID)
	return scanProjectImage(row)
}

// ClearProjectCover unsets the cover flag on all of a project's images.
// Used with SetProjectCover inside a transaction so exactly one image
// carries the flag afterwards.
func (q *Queries) ClearProjectCover(ctx context.Context, projectID int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE project_images SET is_cover = 0 WHERE project_id = ?`, projectID)
	return err
}

// SetProjectCover marks a single image as its project's cover.
func (q *Queries) SetProjectCover(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE project_images SET is_cover = 1 WHERE id = ?`, id)
	return err
}

// DeleteProjectImage removes an image row.
func (q *Queries) DeleteProjectImage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM project_images WHERE id = ?`, id)
	return err
}

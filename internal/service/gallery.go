// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/valforet/valforet-go/internal/imaging"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/store"
	"github.com/valforet/valforet-go/internal/util"
)

// MaxUploadSize bounds one uploaded image.
const MaxUploadSize = 10 * 1024 * 1024 // 10MB

// ErrUploadFailed is returned to callers when an image cannot be stored.
// The underlying cause goes to the log; the admin UI shows one generic
// message either way.
var ErrUploadFailed = errors.New("image upload failed")

// GalleryService manages project image galleries: sequential uploads,
// display ordering and the single cover flag.
type GalleryService struct {
	db        *sql.DB
	queries   *store.Queries
	processor *imaging.Processor
	logger    *slog.Logger
}

// NewGalleryService creates a new gallery service.
func NewGalleryService(db *sql.DB, uploadDir string, logger *slog.Logger) *GalleryService {
	return &GalleryService{
		db:        db,
		queries:   store.New(db),
		processor: imaging.NewProcessor(uploadDir),
		logger:    logger,
	}
}

// Upload stores one image for a project. Uploads are performed one at a
// time in selection order: display_order is the gallery size at insert
// time, and the image that lands in an empty gallery becomes the cover.
func (s *GalleryService) Upload(ctx context.Context, projectID int64, file multipart.File, header *multipart.FileHeader) (model.ProjectImage, error) {
	if header.Size > MaxUploadSize {
		return model.ProjectImage{}, fmt.Errorf("%w: file exceeds %d bytes", ErrUploadFailed, MaxUploadSize)
	}

	filename, err := util.SanitizeFilename(header.Filename)
	if err != nil {
		return model.ProjectImage{}, fmt.Errorf("%w: invalid filename", ErrUploadFailed)
	}

	count, err := s.queries.CountProjectImages(ctx, projectID)
	if err != nil {
		s.logger.Error("counting project images failed", "project_id", projectID, "error", err)
		return model.ProjectImage{}, ErrUploadFailed
	}

	fileUUID := uuid.New().String()
	result, err := s.processor.ProcessImage(file, fileUUID, filename)
	if err != nil {
		s.logger.Error("processing gallery image failed",
			"project_id", projectID, "filename", filename, "error", err)
		return model.ProjectImage{}, ErrUploadFailed
	}

	if _, err := s.processor.CreateAllVariants(result.FilePath, fileUUID, filename); err != nil {
		s.logger.Warn("creating image variants failed",
			"project_id", projectID, "uuid", fileUUID, "error", err)
	}

	img, err := s.queries.CreateProjectImage(ctx, store.CreateProjectImageParams{
		ProjectID:    projectID,
		Path:         filepath.ToSlash(filepath.Join("originals", fileUUID, filename)),
		DisplayOrder: count,
		IsCover:      count == 0,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// Orphaned files for a failed insert are cleaned up right away.
		_ = s.processor.DeleteMediaFiles(fileUUID)
		s.logger.Error("storing gallery image failed", "project_id", projectID, "error", err)
		return model.ProjectImage{}, ErrUploadFailed
	}

	return img, nil
}

// SetCover makes the given image its project's cover. The previous flag is
// cleared in the same transaction so exactly one image stays flagged.
func (s *GalleryService) SetCover(ctx context.Context, imageID int64) error {
	img, err := s.queries.GetProjectImageByID(ctx, imageID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	if err := qtx.ClearProjectCover(ctx, img.ProjectID); err != nil {
		return err
	}
	if err := qtx.SetProjectCover(ctx, imageID); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes an image and its files. When the cover is deleted and
// other images remain, the first by display order becomes the new cover.
func (s *GalleryService) Delete(ctx context.Context, imageID int64) error {
	img, err := s.queries.GetProjectImageByID(ctx, imageID)
	if err != nil {
		return err
	}

	if err := s.queries.DeleteProjectImage(ctx, imageID); err != nil {
		return err
	}

	if fileUUID := pathUUID(img.Path); fileUUID != "" {
		if err := s.processor.DeleteMediaFiles(fileUUID); err != nil {
			s.logger.Warn("deleting image files failed", "path", img.Path, "error", err)
		}
	}

	if img.IsCover {
		remaining, err := s.queries.ListProjectImages(ctx, img.ProjectID)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			return s.SetCover(ctx, remaining[0].ID)
		}
	}
	return nil
}

// pathUUID extracts the storage UUID from an image path of the form
// originals/<uuid>/<filename>.
func pathUUID(path string) string {
	dir := filepath.Dir(filepath.ToSlash(path))
	return filepath.Base(dir)
}

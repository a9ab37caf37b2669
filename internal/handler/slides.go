// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/valforet/valforet-go/internal/cache"
	"github.com/valforet/valforet-go/internal/imaging"
	"github.com/valforet/valforet-go/internal/middleware"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/service"
	"github.com/valforet/valforet-go/internal/store"
	"github.com/valforet/valforet-go/internal/util"
	adminviews "github.com/valforet/valforet-go/internal/views/admin"
)

// SlidesHandler handles the admin hero slide screens.
type SlidesHandler struct {
	queries   *store.Queries
	renderer  *render.Renderer
	activity  *service.ActivityService
	processor *imaging.Processor
	caches    *cache.Manager
}

// NewSlidesHandler creates a new SlidesHandler.
func NewSlidesHandler(db *sql.DB, renderer *render.Renderer, activity *service.ActivityService, uploadDir string, caches *cache.Manager) *SlidesHandler {
	return &SlidesHandler{
		queries:   store.New(db),
		renderer:  renderer,
		activity:  activity,
		processor: imaging.NewProcessor(uploadDir),
		caches:    caches,
	}
}

// SlideListData holds data for the admin slide list.
type SlideListData struct {
	Slides []model.HeroSlide
}

// List renders the slide list in display order.
func (h *SlidesHandler) List(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.slides")

	slides, err := h.queries.ListSlides(r.Context())
	if err != nil {
		slog.Error("listing slides", "error", err)
	}

	renderAdmin(w, r, h.renderer, "admin/slides", pc, SlideListData{Slides: slides})
}

// SlideFormData holds form state for the create/edit screens.
type SlideFormData struct {
	Slide  model.HeroSlide
	Errors map[string]string
	IsNew  bool
}

// NewForm renders the empty slide form.
func (h *SlidesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.create")
	renderAdmin(w, r, h.renderer, "admin/slide_form", pc, SlideFormData{IsNew: true})
}

// EditForm renders the form populated with an existing slide.
func (h *SlidesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminSlides, pc.T("admin.not_found"))
		return
	}
	slide, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminSlides, "slide", id,
		func(id int64) (model.HeroSlide, error) { return h.queries.GetSlideByID(r.Context(), id) })
	if !ok {
		return
	}

	pc.Title = pc.T("admin.edit")
	renderAdmin(w, r, h.renderer, "admin/slide_form", pc, SlideFormData{Slide: slide})
}

// slideFromForm reads the submitted fields. The image is handled
// separately since it arrives as a file.
func slideFromForm(r *http.Request, pc *adminviews.PageContext, existing model.HeroSlide) (model.HeroSlide, map[string]string) {
	slide := existing
	slide.Title = formTrimmed(r, "title")
	slide.Subtitle = formTrimmed(r, "subtitle")
	slide.ButtonLabel = formTrimmed(r, "button_label")
	slide.ButtonURL = formTrimmed(r, "button_url")
	slide.DisplayOrder = formInt64(r, "display_order", existing.DisplayOrder)
	slide.Published = formChecked(r, "published")

	errs := make(map[string]string)
	if slide.Title == "" || len(slide.Title) > maxTitleLength {
		errs["title"] = pc.T("form.required")
	}
	return slide, errs
}

// storeSlideImage processes an optional uploaded image and returns its
// stored path. An empty filename means no upload and keeps the old path.
func (h *SlidesHandler) storeSlideImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	filename, err := util.SanitizeFilename(header.Filename)
	if err != nil {
		return "", err
	}
	fileUUID := uuid.New().String()
	if _, err := h.processor.ProcessImage(file, fileUUID, filename); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join("originals", fileUUID, filename)), nil
}

// Create stores a new slide.
func (h *SlidesHandler) Create(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.create")
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		flashError(w, r, h.renderer, redirectAdminSlides, pc.T("auth.error"))
		return
	}

	slide, errs := slideFromForm(r, &pc, model.HeroSlide{})

	if file, header, err := r.FormFile("image"); err == nil {
		path, uploadErr := h.storeSlideImage(file, header)
		_ = file.Close()
		if uploadErr != nil {
			slog.Error("uploading slide image", "error", uploadErr)
			errs["image"] = pc.T("admin.upload_failed")
		} else {
			slide.ImagePath = path
		}
	}
	if slide.ImagePath == "" {
		errs["image"] = pc.T("form.required")
	}

	if len(errs) > 0 {
		renderAdmin(w, r, h.renderer, "admin/slide_form", pc, SlideFormData{
			Slide: slide, Errors: errs, IsNew: true,
		})
		return
	}

	now := time.Now().UTC()
	created, err := h.queries.CreateSlide(r.Context(), store.CreateSlideParams{
		Title:        slide.Title,
		Subtitle:     slide.Subtitle,
		ImagePath:    slide.ImagePath,
		ButtonLabel:  slide.ButtonLabel,
		ButtonURL:    slide.ButtonURL,
		DisplayOrder: slide.DisplayOrder,
		Published:    slide.Published,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		slog.Error("creating slide", "error", err)
		flashError(w, r, h.renderer, redirectAdminSlides, pc.T("auth.error"))
		return
	}

	h.afterWrite(r, model.ActionSlideCreated, created.Title)
	flashSuccess(w, r, h.renderer, redirectAdminSlides, pc.T("admin.saved"))
}

// Update stores changes to an existing slide.
func (h *SlidesHandler) Update(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.edit")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminSlides, pc.T("admin.not_found"))
		return
	}
	existing, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminSlides, "slide", id,
		func(id int64) (model.HeroSlide, error) { return h.queries.GetSlideByID(r.Context(), id) })
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		flashError(w, r, h.renderer, redirectAdminSlides, pc.T("auth.error"))
		return
	}

	slide, errs := slideFromForm(r, &pc, existing)

	if file, header, err := r.FormFile("image"); err == nil {
		path, uploadErr := h.storeSlideImage(file, header)
		_ = file.Close()
		if uploadErr != nil {
			slog.Error("uploading slide image", "error", uploadErr)
			errs["image"] = pc.T("admin.upload_failed")
		} else {
			slide.ImagePath = path
		}
	}

	if len(errs) > 0 {
		renderAdmin(w, r, h.renderer, "admin/slide_form", pc, SlideFormData{
			Slide: slide, Errors: errs,
		})
		return
	}

	err := h.queries.UpdateSlide(r.Context(), store.UpdateSlideParams{
		ID:           id,
		Title:        slide.Title,
		Subtitle:     slide.Subtitle,
		ImagePath:    slide.ImagePath,
		ButtonLabel:  slide.ButtonLabel,
		ButtonURL:    slide.ButtonURL,
		DisplayOrder: slide.DisplayOrder,
		Published:    slide.Published,
		UpdatedAt:    time.Now().UTC(),
	})
	if err != nil {
		slog.Error("updating slide", "error", err, "slide_id", id)
		flashError(w, r, h.renderer, redirectAdminSlides, pc.T("auth.error"))
		return
	}

	h.afterWrite(r, model.ActionSlideUpdated, slide.Title)
	flashSuccess(w, r, h.renderer, redirectAdminSlides, pc.T("admin.saved"))
}

// TogglePublish flips a slide's published flag.
func (h *SlidesHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminSlides, pc.T("admin.not_found"))
		return
	}
	slide, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminSlides, "slide", id,
		func(id int64) (model.HeroSlide, error) { return h.queries.GetSlideByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.SetSlidePublished(r.Context(), id, !slide.Published, time.Now().UTC()); err != nil {
		slog.Error("toggling slide", "error", err, "slide_id", id)
		flashError(w, r, h.renderer, redirectAdminSlides, pc.T("auth.error"))
		return
	}

	h.afterWrite(r, model.ActionSlideUpdated, slide.Title)
	flashSuccess(w, r, h.renderer, redirectAdminSlides, pc.T("admin.saved"))
}

// Delete removes a slide. The route is admin-only.
func (h *SlidesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminSlides, pc.T("admin.not_found"))
		return
	}
	slide, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminSlides, "slide", id,
		func(id int64) (model.HeroSlide, error) { return h.queries.GetSlideByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.DeleteSlide(r.Context(), id); err != nil {
		slog.Error("deleting slide", "error", err, "slide_id", id)
		flashError(w, r, h.renderer, redirectAdminSlides, pc.T("auth.error"))
		return
	}

	h.afterWrite(r, model.ActionSlideDeleted, slide.Title)
	flashSuccess(w, r, h.renderer, redirectAdminSlides, pc.T("admin.deleted"))
}

// afterWrite records the activity entry and drops the cached content.
func (h *SlidesHandler) afterWrite(r *http.Request, action model.ActivityAction, title string) {
	h.activity.RecordAsync(middleware.GetUserID(r), action,
		service.ContentDetails{Title: title}, middleware.GetClientIP(r))
	h.caches.InvalidateContent()
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/valforet/valforet-go/internal/cache"
	"github.com/valforet/valforet-go/internal/middleware"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/service"
	"github.com/valforet/valforet-go/internal/store"
	"github.com/valforet/valforet-go/internal/uikit"
	"github.com/valforet/valforet-go/internal/util"
	adminviews "github.com/valforet/valforet-go/internal/views/admin"
)

// ProjectsHandler handles the admin project screens, gallery included.
type ProjectsHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	activity *service.ActivityService
	gallery  *service.GalleryService
	caches   *cache.Manager
}

// NewProjectsHandler creates a new ProjectsHandler.
func NewProjectsHandler(db *sql.DB, renderer *render.Renderer, activity *service.ActivityService, gallery *service.GalleryService, caches *cache.Manager) *ProjectsHandler {
	return &ProjectsHandler{
		queries:  store.New(db),
		renderer: renderer,
		activity: activity,
		gallery:  gallery,
		caches:   caches,
	}
}

// ProjectListData holds data for the admin project list.
type ProjectListData struct {
	Projects   []model.Project
	Covers     map[int64]string
	Pagination uikit.AdminPagination
}

// List renders the paginated admin project list.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.projects")

	page := uikit.ParsePageParam(r)
	total, err := h.queries.CountProjects(ctx)
	if err != nil {
		slog.Error("counting projects", "error", err)
	}
	page, _ = uikit.NormalizePagination(page, int(total), adminPerPage)

	projects, err := h.queries.ListProjects(ctx, store.ListProjectsParams{
		Limit:  adminPerPage,
		Offset: int64((page - 1) * adminPerPage),
	})
	if err != nil {
		slog.Error("listing projects", "error", err)
	}

	covers := make(map[int64]string, len(projects))
	for _, p := range projects {
		if img, err := h.queries.GetProjectCover(ctx, p.ID); err == nil {
			covers[p.ID] = img.Path
		}
	}

	renderAdmin(w, r, h.renderer, "admin/projects", pc, ProjectListData{
		Projects:   projects,
		Covers:     covers,
		Pagination: uikit.BuildAdminPagination(page, int(total), adminPerPage, RouteAdminProjects, r.URL.Query()),
	})
}

// ProjectFormData holds form state for the create/edit screens.
type ProjectFormData struct {
	Project    model.Project
	Images     []model.ProjectImage
	Categories []string
	Errors     map[string]string
	IsNew      bool
}

// NewForm renders the empty project form.
func (h *ProjectsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.create")
	renderAdmin(w, r, h.renderer, "admin/project_form", pc, ProjectFormData{
		Project:    model.Project{Category: model.ProjectCategories[0]},
		Categories: model.ProjectCategories,
		IsNew:      true,
	})
}

// EditForm renders the form populated with an existing project and its
// gallery.
func (h *ProjectsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminProjects, pc.T("admin.not_found"))
		return
	}
	project, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminProjects, "project", id,
		func(id int64) (model.Project, error) { return h.queries.GetProjectByID(r.Context(), id) })
	if !ok {
		return
	}

	images, err := h.queries.ListProjectImages(r.Context(), id)
	if err != nil {
		slog.Error("listing project images", "error", err, "project_id", id)
	}

	pc.Title = pc.T("admin.edit")
	renderAdmin(w, r, h.renderer, "admin/project_form", pc, ProjectFormData{
		Project:    project,
		Images:     images,
		Categories: model.ProjectCategories,
	})
}

// projectFromForm reads and validates the submitted fields.
func (h *ProjectsHandler) projectFromForm(r *http.Request, pc *adminviews.PageContext, existing model.Project) (model.Project, map[string]string) {
	project := existing
	project.Title = formTrimmed(r, "title")
	project.Slug = formTrimmed(r, "slug")
	project.Category = formTrimmed(r, "category")
	project.Description = r.FormValue("description")
	project.Client = formTrimmed(r, "client")
	project.Location = formTrimmed(r, "location")
	project.Published = formChecked(r, "published")

	if project.Slug == "" {
		project.Slug = util.Slugify(project.Title)
	}

	errs := make(map[string]string)
	if project.Title == "" || len(project.Title) > maxTitleLength {
		errs["title"] = pc.T("form.required")
	}
	if !util.IsValidSlug(project.Slug) || len(project.Slug) > maxSlugLength {
		errs["slug"] = pc.T("form.invalid")
	}
	if !model.IsValidProjectCategory(project.Category) {
		errs["category"] = pc.T("form.invalid")
	}

	if errs["slug"] == "" {
		taken, err := h.queries.CountProjectSlug(r.Context(), project.Slug, existing.ID)
		if err != nil {
			slog.Error("checking project slug", "error", err)
		} else if taken > 0 {
			errs["slug"] = pc.T("admin.slug_taken")
		}
	}
	return project, errs
}

// Create stores a new project.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.create")
	if !parseFormOrRedirect(w, r, h.renderer, pc.Lang, redirectAdminProjects) {
		return
	}

	project, errs := h.projectFromForm(r, &pc, model.Project{})
	if len(errs) > 0 {
		renderAdmin(w, r, h.renderer, "admin/project_form", pc, ProjectFormData{
			Project:    project,
			Categories: model.ProjectCategories,
			Errors:     errs,
			IsNew:      true,
		})
		return
	}

	now := time.Now().UTC()
	created, err := h.queries.CreateProject(r.Context(), store.CreateProjectParams{
		Title:       project.Title,
		Slug:        project.Slug,
		Category:    project.Category,
		Description: project.Description,
		Client:      project.Client,
		Location:    project.Location,
		Published:   project.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		slog.Error("creating project", "error", err)
		flashError(w, r, h.renderer, redirectAdminProjects, pc.T("auth.error"))
		return
	}

	h.afterWrite(r, model.ActionProjectCreated, created.Title)
	flashAndRedirect(w, r, h.renderer, fmt.Sprintf(redirectAdminProjectsID, created.ID),
		pc.T("admin.saved"), "success")
}

// Update stores changes to an existing project.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.edit")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminProjects, pc.T("admin.not_found"))
		return
	}
	existing, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminProjects, "project", id,
		func(id int64) (model.Project, error) { return h.queries.GetProjectByID(r.Context(), id) })
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, pc.Lang, redirectAdminProjects) {
		return
	}

	project, errs := h.projectFromForm(r, &pc, existing)
	if len(errs) > 0 {
		images, _ := h.queries.ListProjectImages(r.Context(), id)
		renderAdmin(w, r, h.renderer, "admin/project_form", pc, ProjectFormData{
			Project:    project,
			Images:     images,
			Categories: model.ProjectCategories,
			Errors:     errs,
		})
		return
	}

	err := h.queries.UpdateProject(r.Context(), store.UpdateProjectParams{
		ID:          id,
		Title:       project.Title,
		Slug:        project.Slug,
		Category:    project.Category,
		Description: project.Description,
		Client:      project.Client,
		Location:    project.Location,
		Published:   project.Published,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		slog.Error("updating project", "error", err, "project_id", id)
		flashError(w, r, h.renderer, fmt.Sprintf(redirectAdminProjectsID, id), pc.T("auth.error"))
		return
	}

	h.afterWrite(r, model.ActionProjectUpdated, project.Title)
	flashSuccess(w, r, h.renderer, redirectAdminProjects, pc.T("admin.saved"))
}

// TogglePublish flips a project's published flag.
func (h *ProjectsHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminProjects, pc.T("admin.not_found"))
		return
	}
	project, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminProjects, "project", id,
		func(id int64) (model.Project, error) { return h.queries.GetProjectByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.SetProjectPublished(r.Context(), id, !project.Published, time.Now().UTC()); err != nil {
		slog.Error("toggling project", "error", err, "project_id", id)
		flashError(w, r, h.renderer, redirectAdminProjects, pc.T("auth.error"))
		return
	}

	h.afterWrite(r, model.ActionProjectUpdated, project.Title)
	flashSuccess(w, r, h.renderer, redirectAdminProjects, pc.T("admin.saved"))
}

// Delete removes a project. Images cascade in the schema; their files are
// removed one by one first. The route is admin-only.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminProjects, pc.T("admin.not_found"))
		return
	}
	project, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminProjects, "project", id,
		func(id int64) (model.Project, error) { return h.queries.GetProjectByID(r.Context(), id) })
	if !ok {
		return
	}

	images, err := h.queries.ListProjectImages(r.Context(), id)
	if err != nil {
		slog.Error("listing project images before delete", "error", err, "project_id", id)
	}
	for _, img := range images {
		if err := h.gallery.Delete(r.Context(), img.ID); err != nil {
			slog.Error("deleting project image", "error", err, "image_id", img.ID)
		}
	}

	if err := h.queries.DeleteProject(r.Context(), id); err != nil {
		slog.Error("deleting project", "error", err, "project_id", id)
		flashError(w, r, h.renderer, redirectAdminProjects, pc.T("auth.error"))
		return
	}

	h.afterWrite(r, model.ActionProjectDeleted, project.Title)
	flashSuccess(w, r, h.renderer, redirectAdminProjects, pc.T("admin.deleted"))
}

// UploadImages stores the files of a multipart gallery upload. Files are
// processed strictly one after another, in the order submitted: each
// resize and insert completes before the next file starts, so display
// order follows selection order and the first image of an empty gallery
// becomes the cover.
func (h *ProjectsHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminProjects, pc.T("admin.not_found"))
		return
	}
	redirect := fmt.Sprintf(redirectAdminProjectsID, id)
	if _, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminProjects, "project", id,
		func(id int64) (model.Project, error) { return h.queries.GetProjectByID(r.Context(), id) }); !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		flashError(w, r, h.renderer, redirect, pc.T("admin.upload_failed"))
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		flashError(w, r, h.renderer, redirect, pc.T("admin.upload_failed"))
		return
	}

	uploaded := 0
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			slog.Error("opening uploaded file", "error", err, "filename", header.Filename)
			continue
		}
		_, err = h.gallery.Upload(r.Context(), id, file, header)
		_ = file.Close()
		if err != nil {
			slog.Error("uploading gallery image", "error", err, "project_id", id)
			continue
		}
		uploaded++
	}

	if uploaded == 0 {
		flashError(w, r, h.renderer, redirect, pc.T("admin.upload_failed"))
		return
	}

	h.caches.InvalidateContent()
	flashSuccess(w, r, h.renderer, redirect, pc.T("admin.saved"))
}

// SetCover makes one gallery image the project cover.
func (h *ProjectsHandler) SetCover(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminProjects, pc.T("admin.not_found"))
		return
	}

	img, err := h.queries.GetProjectImageByID(r.Context(), id)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminProjects, pc.T("admin.not_found"))
		return
	}
	redirect := fmt.Sprintf(redirectAdminProjectsID, img.ProjectID)

	if err := h.gallery.SetCover(r.Context(), id); err != nil {
		slog.Error("setting project cover", "error", err, "image_id", id)
		flashError(w, r, h.renderer, redirect, pc.T("auth.error"))
		return
	}

	h.caches.InvalidateContent()
	flashSuccess(w, r, h.renderer, redirect, pc.T("admin.saved"))
}

// DeleteImage removes one gallery image. Any failure surfaces the same
// permissions-flavored message regardless of the actual cause.
func (h *ProjectsHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminProjects, pc.T("gallery.delete_denied"))
		return
	}

	img, err := h.queries.GetProjectImageByID(r.Context(), id)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminProjects, pc.T("gallery.delete_denied"))
		return
	}
	redirect := fmt.Sprintf(redirectAdminProjectsID, img.ProjectID)

	if err := h.gallery.Delete(r.Context(), id); err != nil {
		slog.Error("deleting gallery image", "error", err, "image_id", id)
		flashError(w, r, h.renderer, redirect, pc.T("gallery.delete_denied"))
		return
	}

	h.caches.InvalidateContent()
	flashSuccess(w, r, h.renderer, redirect, pc.T("admin.deleted"))
}

// afterWrite records the activity entry and drops the cached content.
func (h *ProjectsHandler) afterWrite(r *http.Request, action model.ActivityAction, title string) {
	h.activity.RecordAsync(middleware.GetUserID(r), action,
		service.ContentDetails{Title: title}, middleware.GetClientIP(r))
	h.caches.InvalidateContent()
}

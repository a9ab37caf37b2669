// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/valforet/valforet-go/internal/cache"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/store"
	"github.com/valforet/valforet-go/internal/util"
	adminviews "github.com/valforet/valforet-go/internal/views/admin"
)

// ServicesHandler handles the admin service screens. Service changes are
// not part of the activity trail.
type ServicesHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	caches   *cache.Manager
}

// NewServicesHandler creates a new ServicesHandler.
func NewServicesHandler(db *sql.DB, renderer *render.Renderer, caches *cache.Manager) *ServicesHandler {
	return &ServicesHandler{
		queries:  store.New(db),
		renderer: renderer,
		caches:   caches,
	}
}

// ServiceTabData holds data for the admin service list with its
// active/archived tabs.
type ServiceTabData struct {
	Services []model.Service
	Archived bool
}

// List renders the service list. The default tab hides archived rows;
// ?onglet=archives shows them instead.
func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.services")

	archived := r.URL.Query().Get("onglet") == "archives"
	var (
		services []model.Service
		err      error
	)
	if archived {
		services, err = h.queries.ListArchivedServices(r.Context())
	} else {
		services, err = h.queries.ListServices(r.Context())
	}
	if err != nil {
		slog.Error("listing services", "error", err)
	}

	renderAdmin(w, r, h.renderer, "admin/services", pc, ServiceTabData{
		Services: services,
		Archived: archived,
	})
}

// ServiceFormData holds form state for the create/edit screens.
type ServiceFormData struct {
	Service model.Service
	Icons   []string
	Errors  map[string]string
	IsNew   bool
}

// NewForm renders the empty service form.
func (h *ServicesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.create")
	renderAdmin(w, r, h.renderer, "admin/service_form", pc, ServiceFormData{
		Service: model.Service{Icon: model.IconDefault},
		Icons:   model.ValidIcons(),
		IsNew:   true,
	})
}

// EditForm renders the form populated with an existing service.
func (h *ServicesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminServices, pc.T("admin.not_found"))
		return
	}
	svc, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminServices, "service", id,
		func(id int64) (model.Service, error) { return h.queries.GetServiceByID(r.Context(), id) })
	if !ok {
		return
	}

	pc.Title = pc.T("admin.edit")
	renderAdmin(w, r, h.renderer, "admin/service_form", pc, ServiceFormData{
		Service: svc,
		Icons:   model.ValidIcons(),
	})
}

// serviceFromForm reads and validates the submitted fields. Unknown icon
// names are coerced to the default rather than rejected.
func (h *ServicesHandler) serviceFromForm(r *http.Request, pc *adminviews.PageContext, existing model.Service) (model.Service, map[string]string) {
	svc := existing
	svc.Title = formTrimmed(r, "title")
	svc.Slug = formTrimmed(r, "slug")
	svc.Icon = formTrimmed(r, "icon")
	svc.Summary = formTrimmed(r, "summary")
	svc.Body = r.FormValue("body")
	svc.DisplayOrder = formInt64(r, "display_order", existing.DisplayOrder)
	svc.Published = formChecked(r, "published")

	if svc.Slug == "" {
		svc.Slug = util.Slugify(svc.Title)
	}
	known := false
	for _, icon := range model.ValidIcons() {
		if icon == svc.Icon {
			known = true
			break
		}
	}
	if !known {
		svc.Icon = model.IconDefault
	}

	errs := make(map[string]string)
	if svc.Title == "" || len(svc.Title) > maxTitleLength {
		errs["title"] = pc.T("form.required")
	}
	if !util.IsValidSlug(svc.Slug) || len(svc.Slug) > maxSlugLength {
		errs["slug"] = pc.T("form.invalid")
	}

	if errs["slug"] == "" {
		taken, err := h.queries.CountServiceSlug(r.Context(), svc.Slug, existing.ID)
		if err != nil {
			slog.Error("checking service slug", "error", err)
		} else if taken > 0 {
			errs["slug"] = pc.T("admin.slug_taken")
		}
	}
	return svc, errs
}

// Create stores a new service.
func (h *ServicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.create")
	if !parseFormOrRedirect(w, r, h.renderer, pc.Lang, redirectAdminServices) {
		return
	}

	svc, errs := h.serviceFromForm(r, &pc, model.Service{})
	if len(errs) > 0 {
		renderAdmin(w, r, h.renderer, "admin/service_form", pc, ServiceFormData{
			Service: svc,
			Icons:   model.ValidIcons(),
			Errors:  errs,
			IsNew:   true,
		})
		return
	}

	now := time.Now().UTC()
	_, err := h.queries.CreateService(r.Context(), store.CreateServiceParams{
		Title:        svc.Title,
		Slug:         svc.Slug,
		Icon:         svc.Icon,
		Summary:      svc.Summary,
		Body:         svc.Body,
		DisplayOrder: svc.DisplayOrder,
		Published:    svc.Published,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		slog.Error("creating service", "error", err)
		flashError(w, r, h.renderer, redirectAdminServices, pc.T("auth.error"))
		return
	}

	h.caches.InvalidateContent()
	flashSuccess(w, r, h.renderer, redirectAdminServices, pc.T("admin.saved"))
}

// Update stores changes to an existing service.
func (h *ServicesHandler) Update(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.edit")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminServices, pc.T("admin.not_found"))
		return
	}
	existing, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminServices, "service", id,
		func(id int64) (model.Service, error) { return h.queries.GetServiceByID(r.Context(), id) })
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, pc.Lang, redirectAdminServices) {
		return
	}

	svc, errs := h.serviceFromForm(r, &pc, existing)
	if len(errs) > 0 {
		renderAdmin(w, r, h.renderer, "admin/service_form", pc, ServiceFormData{
			Service: svc,
			Icons:   model.ValidIcons(),
			Errors:  errs,
		})
		return
	}

	err := h.queries.UpdateService(r.Context(), store.UpdateServiceParams{
		ID:           id,
		Title:        svc.Title,
		Slug:         svc.Slug,
		Icon:         svc.Icon,
		Summary:      svc.Summary,
		Body:         svc.Body,
		DisplayOrder: svc.DisplayOrder,
		Published:    svc.Published,
		UpdatedAt:    time.Now().UTC(),
	})
	if err != nil {
		slog.Error("updating service", "error", err, "service_id", id)
		flashError(w, r, h.renderer, redirectAdminServices, pc.T("auth.error"))
		return
	}

	h.caches.InvalidateContent()
	flashSuccess(w, r, h.renderer, redirectAdminServices, pc.T("admin.saved"))
}

// ToggleArchive moves a service in or out of the archive tab.
func (h *ServicesHandler) ToggleArchive(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminServices, pc.T("admin.not_found"))
		return
	}
	svc, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminServices, "service", id,
		func(id int64) (model.Service, error) { return h.queries.GetServiceByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.SetServiceArchived(r.Context(), id, !svc.Archived, time.Now().UTC()); err != nil {
		slog.Error("archiving service", "error", err, "service_id", id)
		flashError(w, r, h.renderer, redirectAdminServices, pc.T("auth.error"))
		return
	}

	h.caches.InvalidateContent()
	flashSuccess(w, r, h.renderer, redirectAdminServices, pc.T("admin.saved"))
}

// Delete removes a service. The route is admin-only.
func (h *ServicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminServices, pc.T("admin.not_found"))
		return
	}
	if _, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminServices, "service", id,
		func(id int64) (model.Service, error) { return h.queries.GetServiceByID(r.Context(), id) }); !ok {
		return
	}

	if err := h.queries.DeleteService(r.Context(), id); err != nil {
		slog.Error("deleting service", "error", err, "service_id", id)
		flashError(w, r, h.renderer, redirectAdminServices, pc.T("auth.error"))
		return
	}

	h.caches.InvalidateContent()
	flashSuccess(w, r, h.renderer, redirectAdminServices, pc.T("admin.deleted"))
}

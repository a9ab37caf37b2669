// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/store"
	adminviews "github.com/valforet/valforet-go/internal/views/admin"
)

// TestimonialsHandler handles the admin testimonial screens. Testimonial
// changes are not part of the activity trail.
type TestimonialsHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewTestimonialsHandler creates a new TestimonialsHandler.
func NewTestimonialsHandler(db *sql.DB, renderer *render.Renderer) *TestimonialsHandler {
	return &TestimonialsHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// TestimonialTabData holds data for the testimonial list tabs.
type TestimonialTabData struct {
	Testimonials []model.Testimonial
	Archived     bool
}

// List renders the testimonial list. The default tab hides archived rows;
// ?onglet=archives shows them instead.
func (h *TestimonialsHandler) List(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.testimonials")

	archived := r.URL.Query().Get("onglet") == "archives"
	var (
		testimonials []model.Testimonial
		err          error
	)
	if archived {
		testimonials, err = h.queries.ListArchivedTestimonials(r.Context())
	} else {
		testimonials, err = h.queries.ListTestimonials(r.Context())
	}
	if err != nil {
		slog.Error("listing testimonials", "error", err)
	}

	renderAdmin(w, r, h.renderer, "admin/testimonials", pc, TestimonialTabData{
		Testimonials: testimonials,
		Archived:     archived,
	})
}

// TestimonialFormData holds form state for the create/edit screens.
type TestimonialFormData struct {
	Testimonial model.Testimonial
	Errors      map[string]string
	IsNew       bool
}

// NewForm renders the empty testimonial form.
func (h *TestimonialsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.create")
	renderAdmin(w, r, h.renderer, "admin/testimonial_form", pc, TestimonialFormData{
		Testimonial: model.Testimonial{Rating: 5},
		IsNew:       true,
	})
}

// EditForm renders the form populated with an existing testimonial.
func (h *TestimonialsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminTestimonials, pc.T("admin.not_found"))
		return
	}
	testimonial, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminTestimonials, "testimonial", id,
		func(id int64) (model.Testimonial, error) { return h.queries.GetTestimonialByID(r.Context(), id) })
	if !ok {
		return
	}

	pc.Title = pc.T("admin.edit")
	renderAdmin(w, r, h.renderer, "admin/testimonial_form", pc, TestimonialFormData{
		Testimonial: testimonial,
	})
}

// testimonialFromForm reads and validates the submitted fields.
func testimonialFromForm(r *http.Request, pc *adminviews.PageContext, existing model.Testimonial) (model.Testimonial, map[string]string) {
	t := existing
	t.Author = formTrimmed(r, "author")
	t.Role = formTrimmed(r, "role")
	t.Quote = formTrimmed(r, "quote")
	t.Rating = formInt64(r, "rating", existing.Rating)
	t.DisplayOrder = formInt64(r, "display_order", existing.DisplayOrder)
	t.Published = formChecked(r, "published")

	errs := make(map[string]string)
	if t.Author == "" || len(t.Author) > maxNameLength {
		errs["author"] = pc.T("form.required")
	}
	if t.Quote == "" {
		errs["quote"] = pc.T("form.required")
	}
	if !model.IsValidRating(t.Rating) {
		errs["rating"] = pc.T("form.invalid")
	}
	return t, errs
}

// Create stores a new testimonial.
func (h *TestimonialsHandler) Create(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.create")
	if !parseFormOrRedirect(w, r, h.renderer, pc.Lang, redirectAdminTestimonials) {
		return
	}

	t, errs := testimonialFromForm(r, &pc, model.Testimonial{Rating: 5})
	if len(errs) > 0 {
		renderAdmin(w, r, h.renderer, "admin/testimonial_form", pc, TestimonialFormData{
			Testimonial: t,
			Errors:      errs,
			IsNew:       true,
		})
		return
	}

	now := time.Now().UTC()
	_, err := h.queries.CreateTestimonial(r.Context(), store.CreateTestimonialParams{
		Author:       t.Author,
		Role:         t.Role,
		Quote:        t.Quote,
		Rating:       t.Rating,
		DisplayOrder: t.DisplayOrder,
		Published:    t.Published,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		slog.Error("creating testimonial", "error", err)
		flashError(w, r, h.renderer, redirectAdminTestimonials, pc.T("auth.error"))
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminTestimonials, pc.T("admin.saved"))
}

// Update stores changes to an existing testimonial.
func (h *TestimonialsHandler) Update(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.edit")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminTestimonials, pc.T("admin.not_found"))
		return
	}
	existing, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminTestimonials, "testimonial", id,
		func(id int64) (model.Testimonial, error) { return h.queries.GetTestimonialByID(r.Context(), id) })
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, pc.Lang, redirectAdminTestimonials) {
		return
	}

	t, errs := testimonialFromForm(r, &pc, existing)
	if len(errs) > 0 {
		renderAdmin(w, r, h.renderer, "admin/testimonial_form", pc, TestimonialFormData{
			Testimonial: t,
			Errors:      errs,
		})
		return
	}

	err := h.queries.UpdateTestimonial(r.Context(), store.UpdateTestimonialParams{
		ID:           id,
		Author:       t.Author,
		Role:         t.Role,
		Quote:        t.Quote,
		Rating:       t.Rating,
		DisplayOrder: t.DisplayOrder,
		Published:    t.Published,
		UpdatedAt:    time.Now().UTC(),
	})
	if err != nil {
		slog.Error("updating testimonial", "error", err, "testimonial_id", id)
		flashError(w, r, h.renderer, redirectAdminTestimonials, pc.T("auth.error"))
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminTestimonials, pc.T("admin.saved"))
}

// ToggleArchive moves a testimonial in or out of the archive tab.
func (h *TestimonialsHandler) ToggleArchive(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminTestimonials, pc.T("admin.not_found"))
		return
	}
	testimonial, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminTestimonials, "testimonial", id,
		func(id int64) (model.Testimonial, error) { return h.queries.GetTestimonialByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.SetTestimonialArchived(r.Context(), id, !testimonial.Archived, time.Now().UTC()); err != nil {
		slog.Error("archiving testimonial", "error", err, "testimonial_id", id)
		flashError(w, r, h.renderer, redirectAdminTestimonials, pc.T("auth.error"))
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminTestimonials, pc.T("admin.saved"))
}

// Delete removes a testimonial. The route is admin-only.
func (h *TestimonialsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminTestimonials, pc.T("admin.not_found"))
		return
	}
	if _, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminTestimonials, "testimonial", id,
		func(id int64) (model.Testimonial, error) { return h.queries.GetTestimonialByID(r.Context(), id) }); !ok {
		return
	}

	if err := h.queries.DeleteTestimonial(r.Context(), id); err != nil {
		slog.Error("deleting testimonial", "error", err, "testimonial_id", id)
		flashError(w, r, h.renderer, redirectAdminTestimonials, pc.T("auth.error"))
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminTestimonials, pc.T("admin.deleted"))
}

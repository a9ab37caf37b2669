// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/mail"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/valforet/valforet-go/internal/auth"
	"github.com/valforet/valforet-go/internal/imaging"
	"github.com/valforet/valforet-go/internal/middleware"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/service"
	"github.com/valforet/valforet-go/internal/store"
	"github.com/valforet/valforet-go/internal/uikit"
	"github.com/valforet/valforet-go/internal/util"
)

// SettingsHandler handles the admin settings tabs: profile, security and
// the activity viewer.
type SettingsHandler struct {
	queries   *store.Queries
	renderer  *render.Renderer
	activity  *service.ActivityService
	processor *imaging.Processor
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(db *sql.DB, renderer *render.Renderer, activity *service.ActivityService, uploadDir string) *SettingsHandler {
	return &SettingsHandler{
		queries:   store.New(db),
		renderer:  renderer,
		activity:  activity,
		processor: imaging.NewProcessor(uploadDir),
	}
}

// ProfileData holds form state for the profile tab.
type ProfileData struct {
	Errors map[string]string
}

// Profile renders the profile tab.
func (h *SettingsHandler) Profile(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("settings.profile")
	renderAdmin(w, r, h.renderer, "admin/settings_profile", pc, ProfileData{})
}

// UpdateProfile stores name and email changes for the signed-in user.
func (h *SettingsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("settings.profile")
	if !parseFormOrRedirect(w, r, h.renderer, pc.Lang, redirectAdminSettings) {
		return
	}

	name := formTrimmed(r, "name")
	email := formTrimmed(r, "email")

	errs := make(map[string]string)
	if name == "" || len(name) > maxNameLength {
		errs["name"] = pc.T("form.required")
	}
	if _, err := mail.ParseAddress(email); err != nil || len(email) > maxEmailLength {
		errs["email"] = pc.T("form.invalid")
	}
	if len(errs) > 0 {
		renderAdmin(w, r, h.renderer, "admin/settings_profile", pc, ProfileData{Errors: errs})
		return
	}

	userID := middleware.GetUserID(r)
	err := h.queries.UpdateUserProfile(r.Context(), store.UpdateUserProfileParams{
		ID:        userID,
		Name:      name,
		Email:     email,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("updating profile", "error", err, "user_id", userID)
		flashError(w, r, h.renderer, redirectAdminSettings, pc.T("auth.error"))
		return
	}

	h.activity.RecordAsync(userID, model.ActionProfileUpdated, nil, middleware.GetClientIP(r))
	flashSuccess(w, r, h.renderer, redirectAdminSettings, pc.T("admin.saved"))
}

// Security renders the password tab.
func (h *SettingsHandler) Security(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("settings.security")
	renderAdmin(w, r, h.renderer, "admin/settings_security", pc, nil)
}

// ChangePassword verifies the current password and stores a new one.
func (h *SettingsHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	redirect := RouteAdminSettings + "/securite"
	if !parseFormOrRedirect(w, r, h.renderer, pc.Lang, redirect) {
		return
	}

	current := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")
	if len(newPassword) < minPasswordLength {
		flashError(w, r, h.renderer, redirect, pc.T("form.invalid"))
		return
	}

	userID := middleware.GetUserID(r)
	user, err := h.queries.GetUserByID(r.Context(), userID)
	if err != nil {
		slog.Error("loading user", "error", err, "user_id", userID)
		flashError(w, r, h.renderer, redirect, pc.T("auth.error"))
		return
	}

	valid, err := auth.CheckPassword(current, user.PasswordHash)
	if err != nil || !valid {
		flashError(w, r, h.renderer, redirect, pc.T("settings.wrong_password"))
		return
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		slog.Error("hashing password", "error", err)
		flashError(w, r, h.renderer, redirect, pc.T("auth.error"))
		return
	}
	err = h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    time.Now().UTC(),
		ID:           userID,
	})
	if err != nil {
		slog.Error("updating password", "error", err, "user_id", userID)
		flashError(w, r, h.renderer, redirect, pc.T("auth.error"))
		return
	}

	h.activity.RecordAsync(userID, model.ActionPasswordChanged, nil, middleware.GetClientIP(r))
	flashSuccess(w, r, h.renderer, redirect, pc.T("settings.password_changed"))
}

// UploadAvatar stores a new profile photo under the avatars bucket.
func (h *SettingsHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		flashError(w, r, h.renderer, redirectAdminSettings, pc.T("admin.upload_failed"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminSettings, pc.T("admin.upload_failed"))
		return
	}
	defer func() { _ = file.Close() }()

	filename, err := util.SanitizeFilename(header.Filename)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminSettings, pc.T("admin.upload_failed"))
		return
	}

	fileUUID := uuid.New().String()
	result, err := h.processor.ProcessImage(file, fileUUID, filename)
	if err != nil {
		slog.Error("processing avatar", "error", err)
		flashError(w, r, h.renderer, redirectAdminSettings, pc.T("admin.upload_failed"))
		return
	}

	// The square rendition failing is not worth rejecting the upload over;
	// templates fall back to the original.
	if _, err := h.processor.CreateVariant(result.FilePath, fileUUID, filename, model.AvatarVariant, model.VariantAvatar); err != nil {
		slog.Warn("creating avatar rendition", "error", err, "uuid", fileUUID)
	}

	userID := middleware.GetUserID(r)
	path := filepath.ToSlash(filepath.Join("originals", fileUUID, filename))
	if err := h.queries.UpdateUserAvatar(r.Context(), userID, path, time.Now().UTC()); err != nil {
		slog.Error("updating avatar", "error", err, "user_id", userID)
		flashError(w, r, h.renderer, redirectAdminSettings, pc.T("auth.error"))
		return
	}

	h.activity.RecordAsync(userID, model.ActionAvatarUpdated, nil, middleware.GetClientIP(r))
	flashSuccess(w, r, h.renderer, redirectAdminSettings, pc.T("settings.avatar_updated"))
}

// RemoveAvatar clears the profile photo.
func (h *SettingsHandler) RemoveAvatar(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	userID := middleware.GetUserID(r)

	if err := h.queries.UpdateUserAvatar(r.Context(), userID, "", time.Now().UTC()); err != nil {
		slog.Error("removing avatar", "error", err, "user_id", userID)
		flashError(w, r, h.renderer, redirectAdminSettings, pc.T("auth.error"))
		return
	}

	h.activity.RecordAsync(userID, model.ActionAvatarRemoved, nil, middleware.GetClientIP(r))
	flashSuccess(w, r, h.renderer, redirectAdminSettings, pc.T("settings.avatar_removed"))
}

// ActivityData holds data for the activity viewer tab.
type ActivityData struct {
	Logs       []model.ActivityLog
	Actions    []model.ActivityAction
	Selected   string
	Pagination uikit.AdminPagination
}

// Activity renders the paginated activity trail with an optional action
// filter. An unknown action value means no filter.
func (h *SettingsHandler) Activity(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("activity.title")

	selected := r.URL.Query().Get("action")
	action := model.ActivityAction(selected)
	if !action.IsValid() {
		action, selected = "", ""
	}

	page := uikit.ParsePageParam(r)
	logs, total, err := h.activity.ListByAction(r.Context(), action,
		adminPerPage, int64((page-1)*adminPerPage))
	if err != nil {
		slog.Error("listing activity", "error", err)
	}
	page, _ = uikit.NormalizePagination(page, int(total), adminPerPage)

	renderAdmin(w, r, h.renderer, "admin/settings_activity", pc, ActivityData{
		Logs:       logs,
		Actions:    model.ActivityActions,
		Selected:   selected,
		Pagination: uikit.BuildAdminPagination(page, int(total), adminPerPage, RouteAdminActivity, r.URL.Query()),
	})
}

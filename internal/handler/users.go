// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/valforet/valforet-go/internal/auth"
	"github.com/valforet/valforet-go/internal/middleware"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/service"
	"github.com/valforet/valforet-go/internal/store"
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// UsersHandler handles the admin user-management screens. All routes are
// admin-only.
type UsersHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	activity *service.ActivityService
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(db *sql.DB, renderer *render.Renderer, activity *service.ActivityService) *UsersHandler {
	return &UsersHandler{
		queries:  store.New(db),
		renderer: renderer,
		activity: activity,
	}
}

// UserRow pairs a user with their elevated role for the list screen.
type UserRow struct {
	User model.User
	Role string // empty when the user holds no elevated role
}

// UserListData holds data for the user-management screen.
type UserListData struct {
	Users  []UserRow
	Roles  []string
	Errors map[string]string
	Form   UserForm
}

// UserForm preserves submitted values of the create-user form.
type UserForm struct {
	Name  string
	Email string
	Role  string
}

// List renders the user-management screen.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, nil, UserForm{})
}

func (h *UsersHandler) renderList(w http.ResponseWriter, r *http.Request, errs map[string]string, form UserForm) {
	ctx := r.Context()
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.users")

	users, err := h.queries.ListUsers(ctx)
	if err != nil {
		slog.Error("listing users", "error", err)
	}

	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		row := UserRow{User: u}
		roles, err := h.queries.GetUserRoles(ctx, u.ID)
		if err != nil {
			slog.Error("loading user roles", "error", err, "user_id", u.ID)
		} else if len(roles) > 0 {
			row.Role = roles[0]
		}
		rows = append(rows, row)
	}

	renderAdmin(w, r, h.renderer, "admin/users", pc, UserListData{
		Users:  rows,
		Roles:  model.ValidRoles,
		Errors: errs,
		Form:   form,
	})
}

// Create adds a user account with an elevated role.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	if !parseFormOrRedirect(w, r, h.renderer, pc.Lang, redirectAdminUsers) {
		return
	}

	form := UserForm{
		Name:  formTrimmed(r, "name"),
		Email: formTrimmed(r, "email"),
		Role:  formTrimmed(r, "role"),
	}
	password := r.FormValue("password")

	errs := make(map[string]string)
	if form.Name == "" || len(form.Name) > maxNameLength {
		errs["name"] = pc.T("form.required")
	}
	if _, err := mail.ParseAddress(form.Email); err != nil || len(form.Email) > maxEmailLength {
		errs["email"] = pc.T("form.invalid")
	}
	if len(password) < minPasswordLength {
		errs["password"] = pc.T("form.invalid")
	}
	if !model.IsValidRole(form.Role) {
		errs["role"] = pc.T("form.invalid")
	}
	if len(errs) > 0 {
		h.renderList(w, r, errs, form)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("hashing password", "error", err)
		flashError(w, r, h.renderer, redirectAdminUsers, pc.T("auth.error"))
		return
	}

	now := time.Now().UTC()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        form.Email,
		PasswordHash: hash,
		Name:         form.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		slog.Error("creating user", "error", err)
		flashError(w, r, h.renderer, redirectAdminUsers, pc.T("auth.error"))
		return
	}

	if err := h.queries.SetUserRole(r.Context(), user.ID, form.Role, now); err != nil {
		slog.Error("assigning role", "error", err, "user_id", user.ID)
		flashError(w, r, h.renderer, redirectAdminUsers, pc.T("auth.error"))
		return
	}

	h.activity.RecordAsync(middleware.GetUserID(r), model.ActionRoleChanged,
		service.RoleChangeDetails{TargetUser: user.Email, NewRole: form.Role},
		middleware.GetClientIP(r))
	flashSuccess(w, r, h.renderer, redirectAdminUsers, pc.T("admin.saved"))
}

// ChangeRole replaces a user's elevated role. Demoting the last admin is
// refused so the admin area cannot lock itself out.
func (h *UsersHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminUsers, pc.T("admin.not_found"))
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, pc.Lang, redirectAdminUsers) {
		return
	}

	role := formTrimmed(r, "role")
	if role != "" && !model.IsValidRole(role) {
		flashError(w, r, h.renderer, redirectAdminUsers, pc.T("auth.error"))
		return
	}

	user, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminUsers, "user", id,
		func(id int64) (model.User, error) { return h.queries.GetUserByID(r.Context(), id) })
	if !ok {
		return
	}

	if role != model.RoleAdmin {
		guarded, err := h.isLastAdmin(r, id)
		if err != nil {
			flashError(w, r, h.renderer, redirectAdminUsers, pc.T("auth.error"))
			return
		}
		if guarded {
			flashError(w, r, h.renderer, redirectAdminUsers, pc.T("admin.last_admin"))
			return
		}
	}

	if err := h.queries.SetUserRole(r.Context(), id, role, time.Now().UTC()); err != nil {
		slog.Error("changing role", "error", err, "user_id", id)
		flashError(w, r, h.renderer, redirectAdminUsers, pc.T("auth.error"))
		return
	}

	h.activity.RecordAsync(middleware.GetUserID(r), model.ActionRoleChanged,
		service.RoleChangeDetails{TargetUser: user.Email, NewRole: role},
		middleware.GetClientIP(r))
	flashSuccess(w, r, h.renderer, redirectAdminUsers, pc.T("admin.saved"))
}

// Delete removes a user account. The last admin cannot be deleted.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminUsers, pc.T("admin.not_found"))
		return
	}

	guarded, err := h.isLastAdmin(r, id)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, pc.T("auth.error"))
		return
	}
	if guarded {
		flashError(w, r, h.renderer, redirectAdminUsers, pc.T("admin.last_admin"))
		return
	}

	if err := h.queries.DeleteUser(r.Context(), id); err != nil {
		slog.Error("deleting user", "error", err, "user_id", id)
		flashError(w, r, h.renderer, redirectAdminUsers, pc.T("auth.error"))
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminUsers, pc.T("admin.deleted"))
}

// isLastAdmin reports whether the given user is the only remaining admin.
func (h *UsersHandler) isLastAdmin(r *http.Request, userID int64) (bool, error) {
	roles, err := h.queries.GetUserRoles(r.Context(), userID)
	if err != nil {
		slog.Error("loading user roles", "error", err, "user_id", userID)
		return false, err
	}
	isAdmin := false
	for _, role := range roles {
		if role == model.RoleAdmin {
			isAdmin = true
			break
		}
	}
	if !isAdmin {
		return false, nil
	}

	admins, err := h.queries.CountAdmins(r.Context())
	if err != nil {
		slog.Error("counting admins", "error", err)
		return false, err
	}
	return admins <= 1, nil
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/url"
	"strconv"
	"testing"

	"github.com/valforet/valforet-go/internal/model"
)

func newUsersEnv(t *testing.T) (*testEnv, *UsersHandler, model.User) {
	t.Helper()
	e := newTestEnv(t)
	admin := e.seedUser(t, "admin@valforet.fr", "foret-2026!", model.RoleAdmin)
	h := NewUsersHandler(e.db, e.renderer, e.newActivityService(t))
	return e, h, admin
}

func TestUsersHandler_Create(t *testing.T) {
	e, h, admin := newUsersEnv(t)

	req := postForm(RouteAdminUsers, url.Values{
		"name":     {"Marc Petit"},
		"email":    {"marc@valforet.fr"},
		"password": {"sous-bois-2026"},
		"role":     {model.RoleModerator},
	})
	rr := e.serve(t, h.Create, asUser(req, admin, model.RoleAdmin))
	wantRedirect(t, rr, RouteAdminUsers)

	user, err := e.queries.GetUserByEmail(context.Background(), "marc@valforet.fr")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	roles, err := e.queries.GetUserRoles(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserRoles: %v", err)
	}
	if len(roles) != 1 || roles[0] != model.RoleModerator {
		t.Errorf("roles = %v; want [%s]", roles, model.RoleModerator)
	}
}

func TestUsersHandler_Create_ShortPasswordRejected(t *testing.T) {
	e, h, admin := newUsersEnv(t)

	req := postForm(RouteAdminUsers, url.Values{
		"name":     {"Marc Petit"},
		"email":    {"marc@valforet.fr"},
		"password": {"court"},
		"role":     {model.RoleModerator},
	})
	rr := e.serve(t, h.Create, asUser(req, admin, model.RoleAdmin))

	if rr.Code != 200 {
		t.Fatalf("status = %d; want 200 (form re-render)", rr.Code)
	}
	if _, err := e.queries.GetUserByEmail(context.Background(), "marc@valforet.fr"); err == nil {
		t.Error("user must not be created with a too-short password")
	}
}

func TestUsersHandler_ChangeRole(t *testing.T) {
	e, h, admin := newUsersEnv(t)
	other := e.seedUser(t, "marc@valforet.fr", "sous-bois-2026", model.RoleModerator)

	req := postForm(RouteAdminUsers, url.Values{"role": {model.RoleAdmin}})
	req = withURLParam(req, "id", strconv.FormatInt(other.ID, 10))
	rr := e.serve(t, h.ChangeRole, asUser(req, admin, model.RoleAdmin))
	wantRedirect(t, rr, RouteAdminUsers)

	roles, err := e.queries.GetUserRoles(context.Background(), other.ID)
	if err != nil {
		t.Fatalf("GetUserRoles: %v", err)
	}
	if len(roles) != 1 || roles[0] != model.RoleAdmin {
		t.Errorf("roles = %v; want [%s]", roles, model.RoleAdmin)
	}
}

func TestUsersHandler_ChangeRole_LastAdminKeepsRole(t *testing.T) {
	e, h, admin := newUsersEnv(t)

	req := postForm(RouteAdminUsers, url.Values{"role": {model.RoleModerator}})
	req = withURLParam(req, "id", strconv.FormatInt(admin.ID, 10))
	rr := e.serve(t, h.ChangeRole, asUser(req, admin, model.RoleAdmin))
	wantRedirect(t, rr, RouteAdminUsers)

	roles, err := e.queries.GetUserRoles(context.Background(), admin.ID)
	if err != nil {
		t.Fatalf("GetUserRoles: %v", err)
	}
	if len(roles) != 1 || roles[0] != model.RoleAdmin {
		t.Errorf("last admin must keep the admin role, got %v", roles)
	}
}

func TestUsersHandler_Delete_LastAdminRefused(t *testing.T) {
	e, h, admin := newUsersEnv(t)

	req := postForm(RouteAdminUsers+"/"+strconv.FormatInt(admin.ID, 10)+"/supprimer", nil)
	req = withURLParam(req, "id", strconv.FormatInt(admin.ID, 10))
	rr := e.serve(t, h.Delete, asUser(req, admin, model.RoleAdmin))
	wantRedirect(t, rr, RouteAdminUsers)

	if _, err := e.queries.GetUserByID(context.Background(), admin.ID); err != nil {
		t.Errorf("last admin must survive delete: %v", err)
	}
}

func TestUsersHandler_Delete(t *testing.T) {
	e, h, admin := newUsersEnv(t)
	other := e.seedUser(t, "marc@valforet.fr", "sous-bois-2026", model.RoleModerator)

	req := postForm(RouteAdminUsers+"/"+strconv.FormatInt(other.ID, 10)+"/supprimer", nil)
	req = withURLParam(req, "id", strconv.FormatInt(other.ID, 10))
	rr := e.serve(t, h.Delete, asUser(req, admin, model.RoleAdmin))
	wantRedirect(t, rr, RouteAdminUsers)

	if _, err := e.queries.GetUserByID(context.Background(), other.ID); err == nil {
		t.Error("user should be deleted")
	}
}

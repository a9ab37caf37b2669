// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/valforet/valforet-go/internal/middleware"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/session"
)

func TestAuthHandler_LoginForm(t *testing.T) {
	e := newTestEnv(t)
	h := NewAuthHandler(e.db, e.renderer, e.sm, e.newActivityService(t), nil, nil)

	req := httptest.NewRequest(http.MethodGet, RouteLogin, nil)
	rr := e.serve(t, h.LoginForm, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rr.Code)
	}
}

func TestAuthHandler_LoginForm_SignedInRedirects(t *testing.T) {
	e := newTestEnv(t)
	h := NewAuthHandler(e.db, e.renderer, e.sm, e.newActivityService(t), nil, nil)

	req := httptest.NewRequest(http.MethodGet, RouteLogin, nil)
	rr := e.serve(t, func(w http.ResponseWriter, r *http.Request) {
		session.SetIdentity(e.sm, r.Context(), 1, "admin@valforet.fr")
		h.LoginForm(w, r)
	}, req)

	wantRedirect(t, rr, RouteAdmin)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEnv(t)
	activity := e.newActivityService(t)
	user := e.seedUser(t, "claire@valforet.fr", "foret-2026!", model.RoleAdmin)
	h := NewAuthHandler(e.db, e.renderer, e.sm, activity, nil, nil)

	req := postForm(RouteLogin, url.Values{
		"email":    {"claire@valforet.fr"},
		"password": {"foret-2026!"},
	})
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0")
	rr := e.serve(t, h.Login, req)

	wantRedirect(t, rr, RouteAdmin)

	activity.Wait()
	logs, _, err := activity.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("activity.List: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != model.ActionLogin || logs[0].UserID.Int64 != user.ID {
		t.Errorf("activity logs = %+v; want one login entry for user %d", logs, user.ID)
	}

	updated, err := e.queries.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !updated.LastLoginAt.Valid {
		t.Error("last login time should be set after a successful login")
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "claire@valforet.fr", "foret-2026!", model.RoleAdmin)
	h := NewAuthHandler(e.db, e.renderer, e.sm, e.newActivityService(t), nil, nil)

	req := postForm(RouteLogin, url.Values{
		"email":    {"claire@valforet.fr"},
		"password": {"mauvais-mot-de-passe"},
	})
	rr := e.serve(t, h.Login, req)

	wantRedirect(t, rr, RouteLogin)
}

func TestAuthHandler_Login_UnknownEmailSameOutcome(t *testing.T) {
	e := newTestEnv(t)
	h := NewAuthHandler(e.db, e.renderer, e.sm, e.newActivityService(t), nil, nil)

	req := postForm(RouteLogin, url.Values{
		"email":    {"personne@valforet.fr"},
		"password": {"peu-importe"},
	})
	rr := e.serve(t, h.Login, req)

	// Unknown account and wrong password must be indistinguishable.
	wantRedirect(t, rr, RouteLogin)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newTestEnv(t)
	h := NewAuthHandler(e.db, e.renderer, e.sm, e.newActivityService(t), nil, nil)

	rr := e.serve(t, h.Login, postForm(RouteLogin, url.Values{"email": {"claire@valforet.fr"}}))
	wantRedirect(t, rr, RouteLogin)
}

func TestAuthHandler_Login_LockoutAfterRepeatedFailures(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "claire@valforet.fr", "foret-2026!", model.RoleAdmin)
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		MaxFailedAttempts: 2,
		LockoutDuration:   time.Minute,
	})
	h := NewAuthHandler(e.db, e.renderer, e.sm, e.newActivityService(t), lp, nil)

	for i := 0; i < 2; i++ {
		req := postForm(RouteLogin, url.Values{
			"email":    {"claire@valforet.fr"},
			"password": {"mauvais"},
		})
		e.serve(t, h.Login, req)
	}

	if locked, _ := lp.IsAccountLocked("claire@valforet.fr"); !locked {
		t.Fatal("account should be locked after reaching the failure limit")
	}

	// Even the correct password is refused while the lock holds.
	req := postForm(RouteLogin, url.Values{
		"email":    {"claire@valforet.fr"},
		"password": {"foret-2026!"},
	})
	rr := e.serve(t, h.Login, req)
	wantRedirect(t, rr, RouteLogin)
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEnv(t)
	activity := e.newActivityService(t)
	user := e.seedUser(t, "claire@valforet.fr", "foret-2026!", model.RoleAdmin)
	h := NewAuthHandler(e.db, e.renderer, e.sm, activity, nil, nil)

	req := httptest.NewRequest(http.MethodPost, RouteLogout, nil)
	rr := e.serve(t, func(w http.ResponseWriter, r *http.Request) {
		session.SetIdentity(e.sm, r.Context(), user.ID, user.Email)
		h.Logout(w, r)
	}, req)

	wantRedirect(t, rr, RouteRoot)

	activity.Wait()
	logs, _, err := activity.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("activity.List: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != model.ActionLogout {
		t.Errorf("activity logs = %+v; want one logout entry", logs)
	}
}

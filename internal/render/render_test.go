// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/valforet/valforet-go/internal/i18n"
	"github.com/valforet/valforet-go/internal/testutil"
)

func testTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<html lang="{{.Lang}}"><body>{{template "content" .}}</body></html>{{end}}`),
		},
		"layouts/admin.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<main class="admin">{{template "admin-content" .}}</main>{{end}}`),
		},
		"partials/flash.html": &fstest.MapFile{
			Data: []byte(`{{define "flash"}}{{if .Flash}}<div class="flash flash-{{.FlashType}}">{{.Flash}}</div>{{end}}{{end}}`),
		},
		"frontend/home.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}{{template "flash" .}}<h1>{{.Title}}</h1>{{end}}`),
		},
		"admin/dashboard.html": &fstest.MapFile{
			Data: []byte(`{{define "admin-content"}}<h1>{{.Title}}</h1>{{end}}`),
		},
		"auth/login.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<form>{{.Title}}</form>{{end}}`),
		},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	if err := i18n.Init(testutil.SilentLogger()); err != nil {
		t.Fatal(err)
	}
	r, err := New(Config{TemplatesFS: testTemplatesFS()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestRenderFrontendPage(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	err := r.Render(rr, req, "frontend/home", TemplateData{Title: "Accueil"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "<h1>Accueil</h1>") {
		t.Errorf("body missing page content: %s", body)
	}
	if !strings.Contains(body, `lang="fr"`) {
		t.Errorf("default language should be fr: %s", body)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderAdminPageNestsLayouts(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rr := httptest.NewRecorder()

	err := r.Render(rr, req, "admin/dashboard", TemplateData{Title: "Tableau de bord"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := rr.Body.String()
	if !strings.Contains(body, `<main class="admin"><h1>Tableau de bord</h1></main>`) {
		t.Errorf("admin layout not applied: %s", body)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	if err := r.Render(rr, req, "frontend/nope", TemplateData{}); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestRenderStatus(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()

	err := r.RenderStatus(rr, req, "frontend/home", http.StatusNotFound, TemplateData{Title: "Page introuvable"})
	if err != nil {
		t.Fatalf("RenderStatus() error = %v", err)
	}
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/valforet/valforet-go/internal/auth"
	"github.com/valforet/valforet-go/internal/i18n"
	"github.com/valforet/valforet-go/internal/middleware"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/service"
	"github.com/valforet/valforet-go/internal/store"
	"github.com/valforet/valforet-go/internal/testutil"
)

// testEnv bundles the pieces most handler tests need.
type testEnv struct {
	db       *sql.DB
	queries  *store.Queries
	renderer *render.Renderer
	sm       *scs.SessionManager

	author model.User // lazily created owner for seeded content
}

// frontendPages and adminPages list every template name the handlers
// reference, so a renamed template breaks a test instead of a request.
var frontendPages = []string{
	"home", "services", "service_detail", "projects", "project_detail",
	"articles", "article_detail", "about", "contact", "search", "404",
}

var adminPages = []string{
	"dashboard", "articles", "article_form", "projects", "project_form",
	"services", "service_form", "testimonials", "testimonial_form",
	"slides", "slide_form", "users", "messages", "message_detail",
	"settings_profile", "settings_security", "settings_activity",
}

func testTemplatesFS() fstest.MapFS {
	fsys := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<html lang="{{.Lang}}"><body>{{template "content" .}}</body></html>{{end}}`),
		},
		"layouts/admin.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<main class="admin">{{template "admin-content" .}}</main>{{end}}`),
		},
		"partials/flash.html": &fstest.MapFile{
			Data: []byte(`{{define "flash"}}{{if .Flash}}<div class="flash">{{.Flash}}</div>{{end}}{{end}}`),
		},
	}
	for _, name := range frontendPages {
		fsys["frontend/"+name+".html"] = &fstest.MapFile{
			Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>{{end}}`),
		}
	}
	// The list pages print their derived view so tests can observe
	// filtering and pagination through the response body.
	listPage := `{{define "content"}}{{range .Data.View.Items}}<article>{{.Title}}</article>{{end}}<span class="selected">{{.Data.Selected}}</span>{{end}}`
	fsys["frontend/projects.html"] = &fstest.MapFile{Data: []byte(listPage)}
	fsys["frontend/articles.html"] = &fstest.MapFile{Data: []byte(listPage)}
	fsys["auth/login.html"] = &fstest.MapFile{
		Data: []byte(`{{define "content"}}{{template "flash" .}}<form>{{.Title}}</form>{{end}}`),
	}
	for _, name := range adminPages {
		fsys["admin/"+name+".html"] = &fstest.MapFile{
			Data: []byte(`{{define "admin-content"}}<h1>{{.Title}}</h1>{{end}}`),
		}
	}
	return fsys
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)

	if err := i18n.Init(testutil.SilentLogger()); err != nil {
		t.Fatal(err)
	}

	sm := scs.New()
	renderer, err := render.New(render.Config{
		TemplatesFS:    testTemplatesFS(),
		SessionManager: sm,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	return &testEnv{db: db, queries: store.New(db), renderer: renderer, sm: sm}
}

// newActivityService builds an activity service whose async writes are
// flushed before the test database closes.
func (e *testEnv) newActivityService(t *testing.T) *service.ActivityService {
	t.Helper()
	svc := service.NewActivityService(e.db, testutil.SilentLogger())
	t.Cleanup(svc.Wait)
	return svc
}

// serve runs a handler inside the session middleware so flash messages and
// token renewal work as they do behind the real router.
func (e *testEnv) serve(t *testing.T, h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	e.sm.LoadAndSave(h).ServeHTTP(rr, r)
	return rr
}

// seedUser inserts a user with the given role and returns it.
// An empty role leaves the user without any role rows.
func (e *testEnv) seedUser(t *testing.T, email, password, role string) model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now()
	user, err := e.queries.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Name:         "Testeur",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if role != "" {
		if err := e.queries.SetUserRole(context.Background(), user.ID, role, now); err != nil {
			t.Fatalf("SetUserRole: %v", err)
		}
	}
	return user
}

// authorID returns a user usable as content owner, creating it on first use.
func (e *testEnv) authorID(t *testing.T) int64 {
	t.Helper()
	if e.author.ID == 0 {
		e.author = e.seedUser(t, "auteur@valforet.fr", "motdepasse-auteur", "")
	}
	return e.author.ID
}

func (e *testEnv) seedArticle(t *testing.T, title, slug, category string, published bool) model.Article {
	t.Helper()
	now := time.Now()
	article, err := e.queries.CreateArticle(context.Background(), store.CreateArticleParams{
		Title:     title,
		Slug:      slug,
		Category:  category,
		Excerpt:   "Extrait",
		Body:      "Corps de l'article.",
		Published: published,
		AuthorID:  e.authorID(t),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	return article
}

func (e *testEnv) seedProject(t *testing.T, title, slug, category string, published bool) model.Project {
	t.Helper()
	now := time.Now()
	project, err := e.queries.CreateProject(context.Background(), store.CreateProjectParams{
		Title:       title,
		Slug:        slug,
		Category:    category,
		Description: "Description du chantier.",
		Published:   published,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return project
}

// asUser attaches an identity-known, roles-known session to the request the
// way the auth middleware chain would.
func asUser(r *http.Request, user model.User, roles ...string) *http.Request {
	sess := model.Anonymous().WithIdentity(user.ID, user.Email).WithRoles(roles)
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUser, user)
	ctx = context.WithValue(ctx, middleware.ContextKeySession, sess)
	return r.WithContext(ctx)
}

// withURLParam injects a chi route parameter for handlers called outside a
// router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// postForm builds a POST request with form-encoded values.
func postForm(target string, values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func wantRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d; want %d", rr.Code, http.StatusSeeOther)
	}
	if got := rr.Header().Get("Location"); got != location {
		t.Errorf("Location = %q; want %q", got, location)
	}
}

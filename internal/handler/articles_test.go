// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/valforet/valforet-go/internal/cache"
	"github.com/valforet/valforet-go/internal/model"
)

func newArticlesEnv(t *testing.T) (*testEnv, *ArticlesHandler, model.User, *cache.Manager) {
	t.Helper()
	e := newTestEnv(t)
	admin := e.seedUser(t, "admin@valforet.fr", "foret-2026!", model.RoleAdmin)
	caches := cache.NewManager(e.queries)
	h := NewArticlesHandler(e.db, e.renderer, e.newActivityService(t), caches)
	return e, h, admin, caches
}

func TestArticlesHandler_Create(t *testing.T) {
	e, h, admin, _ := newArticlesEnv(t)

	req := postForm(RouteAdminArticles, url.Values{
		"title":     {"Entretien des haies"},
		"category":  {"Conseils"},
		"excerpt":   {"Quand tailler."},
		"body":      {"## Calendrier\nTailler hors nidification."},
		"published": {"on"},
	})
	rr := e.serve(t, h.Create, asUser(req, admin, model.RoleAdmin))
	wantRedirect(t, rr, RouteAdminArticles)

	articles, err := e.queries.ListPublishedArticles(context.Background())
	if err != nil {
		t.Fatalf("ListPublishedArticles: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("article count = %d; want 1", len(articles))
	}
	got := articles[0]
	if got.Slug != "entretien-des-haies" {
		t.Errorf("slug should derive from title, got %q", got.Slug)
	}
	if got.AuthorID != admin.ID {
		t.Errorf("author = %d; want signed-in user %d", got.AuthorID, admin.ID)
	}
}

func TestArticlesHandler_Create_MissingTitleRerenders(t *testing.T) {
	e, h, admin, _ := newArticlesEnv(t)

	req := postForm(RouteAdminArticles, url.Values{
		"category": {"Conseils"},
		"body":     {"Texte."},
	})
	rr := e.serve(t, h.Create, asUser(req, admin, model.RoleAdmin))

	// Validation failures re-render the form instead of redirecting.
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (form re-render)", rr.Code)
	}

	count, err := e.queries.CountArticles(context.Background())
	if err != nil {
		t.Fatalf("CountArticles: %v", err)
	}
	if count != 0 {
		t.Errorf("article count = %d; want 0", count)
	}
}

func TestArticlesHandler_Create_DuplicateSlugRerenders(t *testing.T) {
	e, h, admin, _ := newArticlesEnv(t)
	e.seedArticle(t, "Existant", "entretien-des-haies", "Conseils", true)

	req := postForm(RouteAdminArticles, url.Values{
		"title":    {"Entretien des haies"},
		"category": {"Conseils"},
		"body":     {"Texte."},
	})
	rr := e.serve(t, h.Create, asUser(req, admin, model.RoleAdmin))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (form re-render)", rr.Code)
	}
	count, err := e.queries.CountArticles(context.Background())
	if err != nil {
		t.Fatalf("CountArticles: %v", err)
	}
	if count != 1 {
		t.Errorf("article count = %d; want only the pre-existing one", count)
	}
}

func TestArticlesHandler_Update(t *testing.T) {
	e, h, admin, _ := newArticlesEnv(t)
	article := e.seedArticle(t, "Titre initial", "titre-initial", "Conseils", false)

	req := postForm(fmt.Sprintf(redirectAdminArticlesID, article.ID), url.Values{
		"title":    {"Titre corrigé"},
		"slug":     {"titre-initial"},
		"category": {"Actualités"},
		"body":     {"Nouveau corps."},
	})
	req = withURLParam(req, "id", strconv.FormatInt(article.ID, 10))
	rr := e.serve(t, h.Update, asUser(req, admin, model.RoleAdmin))
	wantRedirect(t, rr, RouteAdminArticles)

	updated, err := e.queries.GetArticleByID(context.Background(), article.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if updated.Title != "Titre corrigé" || updated.Category != "Actualités" {
		t.Errorf("updated article = %+v", updated)
	}
}

func TestArticlesHandler_TogglePublish(t *testing.T) {
	e, h, admin, _ := newArticlesEnv(t)
	article := e.seedArticle(t, "Brouillon", "brouillon", "Conseils", false)

	req := postForm(fmt.Sprintf(redirectAdminArticlesID, article.ID)+"/publier", nil)
	req = withURLParam(req, "id", strconv.FormatInt(article.ID, 10))
	rr := e.serve(t, h.TogglePublish, asUser(req, admin, model.RoleAdmin))
	wantRedirect(t, rr, RouteAdminArticles)

	updated, err := e.queries.GetArticleByID(context.Background(), article.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if !updated.Published {
		t.Error("article should be published after toggle")
	}
}

func TestArticlesHandler_Delete(t *testing.T) {
	e, h, admin, _ := newArticlesEnv(t)
	article := e.seedArticle(t, "À supprimer", "a-supprimer", "Conseils", true)

	req := postForm(fmt.Sprintf(redirectAdminArticlesID, article.ID)+"/supprimer", nil)
	req = withURLParam(req, "id", strconv.FormatInt(article.ID, 10))
	rr := e.serve(t, h.Delete, asUser(req, admin, model.RoleAdmin))
	wantRedirect(t, rr, RouteAdminArticles)

	count, err := e.queries.CountArticles(context.Background())
	if err != nil {
		t.Fatalf("CountArticles: %v", err)
	}
	if count != 0 {
		t.Errorf("article count = %d; want 0 after delete", count)
	}
}

func TestArticlesHandler_WriteInvalidatesContentCache(t *testing.T) {
	e, h, admin, caches := newArticlesEnv(t)
	caches.General.Set(cache.ContentKeyPrefix+"articles", []model.Article{})

	req := postForm(RouteAdminArticles, url.Values{
		"title":    {"Nouvelle entrée"},
		"category": {"Actualités"},
		"body":     {"Texte."},
	})
	rr := e.serve(t, h.Create, asUser(req, admin, model.RoleAdmin))
	wantRedirect(t, rr, RouteAdminArticles)

	if _, ok := caches.General.Get(cache.ContentKeyPrefix + "articles"); ok {
		t.Error("cached article list should be dropped after a write")
	}
}

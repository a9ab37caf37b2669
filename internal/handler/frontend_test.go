// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/valforet/valforet-go/internal/cache"
	"github.com/valforet/valforet-go/internal/listing"
	"github.com/valforet/valforet-go/internal/store"
)

func newFrontend(e *testEnv) *FrontendHandler {
	return NewFrontendHandler(e.db, e.renderer, cache.NewManager(e.queries), "https://valforet.fr")
}

func TestFrontendHandler_Home(t *testing.T) {
	e := newTestEnv(t)
	h := newFrontend(e)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := e.serve(t, h.Home, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `lang="fr"`) {
		t.Errorf("homepage should default to French: %s", rr.Body.String())
	}
}

func TestFrontendHandler_ProjectList_FiltersByCategory(t *testing.T) {
	e := newTestEnv(t)
	e.seedProject(t, "Plan simple de gestion", "plan-simple", "Forêt", true)
	e.seedProject(t, "Étude d'impact", "etude-impact", "Environnement", true)
	e.seedProject(t, "Brouillon", "brouillon", "Forêt", false)
	h := newFrontend(e)

	req := httptest.NewRequest(http.MethodGet, RouteProjects+"?categorie=For%C3%AAt", nil)
	rr := e.serve(t, h.ProjectList, req)

	body := rr.Body.String()
	if !strings.Contains(body, "Plan simple de gestion") {
		t.Errorf("matching project missing: %s", body)
	}
	if strings.Contains(body, "Étude d'impact") {
		t.Errorf("off-category project should be filtered out: %s", body)
	}
	if strings.Contains(body, "Brouillon") {
		t.Errorf("unpublished project must never appear: %s", body)
	}
	if !strings.Contains(body, `<span class="selected">Forêt</span>`) {
		t.Errorf("selected category not reflected: %s", body)
	}
}

func TestFrontendHandler_ProjectList_UnknownCategoryShowsAll(t *testing.T) {
	e := newTestEnv(t)
	e.seedProject(t, "Reboisement", "reboisement", "Forêt", true)
	e.seedProject(t, "Carrière", "carriere", "BTP", true)
	h := newFrontend(e)

	req := httptest.NewRequest(http.MethodGet, RouteProjects+"?categorie=inconnue", nil)
	rr := e.serve(t, h.ProjectList, req)

	body := rr.Body.String()
	if !strings.Contains(body, "Reboisement") || !strings.Contains(body, "Carrière") {
		t.Errorf("unknown category should fall back to the full list: %s", body)
	}
}

func TestFrontendHandler_ArticleList_Pagination(t *testing.T) {
	e := newTestEnv(t)
	for i := 1; i <= listing.DefaultPageSize+2; i++ {
		e.seedArticle(t, fmt.Sprintf("Article %02d", i), fmt.Sprintf("article-%02d", i), "Actualités", true)
	}
	h := newFrontend(e)

	req := httptest.NewRequest(http.MethodGet, RouteArticles+"?page=2", nil)
	rr := e.serve(t, h.ArticleList, req)

	body := rr.Body.String()
	if got := strings.Count(body, "<article>"); got != 2 {
		t.Errorf("page 2 item count = %d; want 2", got)
	}
}

func TestFrontendHandler_ArticleDetail_UnpublishedIs404(t *testing.T) {
	e := newTestEnv(t)
	e.seedArticle(t, "Brouillon interne", "brouillon-interne", "Conseils", false)
	h := newFrontend(e)

	req := httptest.NewRequest(http.MethodGet, RouteArticles+"/brouillon-interne", nil)
	req = withURLParam(req, "slug", "brouillon-interne")
	rr := e.serve(t, h.ArticleDetail, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rr.Code)
	}
}

func TestFrontendHandler_ArticleDetail_Published(t *testing.T) {
	e := newTestEnv(t)
	e.seedArticle(t, "Nouvelle réglementation", "nouvelle-reglementation", "Réglementation", true)
	h := newFrontend(e)

	req := httptest.NewRequest(http.MethodGet, RouteArticles+"/nouvelle-reglementation", nil)
	req = withURLParam(req, "slug", "nouvelle-reglementation")
	rr := e.serve(t, h.ArticleDetail, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Nouvelle réglementation") {
		t.Errorf("article title missing: %s", rr.Body.String())
	}
}

func TestFrontendHandler_ContactSubmit_StoresMessage(t *testing.T) {
	e := newTestEnv(t)
	h := newFrontend(e)

	req := postForm(RouteContact, url.Values{
		"name":    {"Jean Dupont"},
		"email":   {"jean@example.fr"},
		"subject": {"Demande de devis"},
		"message": {"Bonjour, je souhaite un diagnostic de ma parcelle."},
	})
	rr := e.serve(t, h.ContactSubmit, req)
	wantRedirect(t, rr, RouteContact)

	messages, err := e.queries.ListContactMessages(context.Background(), store.ListContactMessagesParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListContactMessages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("message count = %d; want 1", len(messages))
	}
	if messages[0].Email != "jean@example.fr" || messages[0].Subject != "Demande de devis" {
		t.Errorf("stored message = %+v", messages[0])
	}
}

func TestFrontendHandler_ContactSubmit_RejectsInvalidEmail(t *testing.T) {
	e := newTestEnv(t)
	h := newFrontend(e)

	req := postForm(RouteContact, url.Values{
		"name":    {"Jean"},
		"email":   {"pas-une-adresse"},
		"message": {"Bonjour."},
	})
	rr := e.serve(t, h.ContactSubmit, req)
	wantRedirect(t, rr, RouteContact)

	messages, err := e.queries.ListContactMessages(context.Background(), store.ListContactMessagesParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListContactMessages: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("invalid submission must not be stored, got %d messages", len(messages))
	}
}

func TestFrontendHandler_ContactSubmit_RejectsMissingFields(t *testing.T) {
	e := newTestEnv(t)
	h := newFrontend(e)

	req := postForm(RouteContact, url.Values{"email": {"jean@example.fr"}})
	rr := e.serve(t, h.ContactSubmit, req)
	wantRedirect(t, rr, RouteContact)
}

func TestFrontendHandler_NotFound(t *testing.T) {
	e := newTestEnv(t)
	h := newFrontend(e)

	req := httptest.NewRequest(http.MethodGet, "/nimporte-quoi", nil)
	rr := e.serve(t, h.NotFound, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rr.Code)
	}
}

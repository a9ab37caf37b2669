// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/valforet/valforet-go/internal/cache"
	"github.com/valforet/valforet-go/internal/middleware"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/service"
	"github.com/valforet/valforet-go/internal/store"
	"github.com/valforet/valforet-go/internal/uikit"
	"github.com/valforet/valforet-go/internal/util"
	adminviews "github.com/valforet/valforet-go/internal/views/admin"
)

// datetimeLocalFormat matches the value of an HTML datetime-local input.
const datetimeLocalFormat = "2006-01-02T15:04"

// ArticlesHandler handles the admin article screens.
type ArticlesHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	activity *service.ActivityService
	caches   *cache.Manager
}

// NewArticlesHandler creates a new ArticlesHandler.
func NewArticlesHandler(db *sql.DB, renderer *render.Renderer, activity *service.ActivityService, caches *cache.Manager) *ArticlesHandler {
	return &ArticlesHandler{
		queries:  store.New(db),
		renderer: renderer,
		activity: activity,
		caches:   caches,
	}
}

// ArticleListData holds data for the admin article list.
type ArticleListData struct {
	Articles   []model.Article
	Pagination uikit.AdminPagination
}

// List renders the paginated admin article list.
func (h *ArticlesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.articles")

	page := uikit.ParsePageParam(r)
	total, err := h.queries.CountArticles(ctx)
	if err != nil {
		slog.Error("counting articles", "error", err)
	}
	page, _ = uikit.NormalizePagination(page, int(total), adminPerPage)

	articles, err := h.queries.ListArticles(ctx, store.ListArticlesParams{
		Limit:  adminPerPage,
		Offset: int64((page - 1) * adminPerPage),
	})
	if err != nil {
		slog.Error("listing articles", "error", err)
	}

	renderAdmin(w, r, h.renderer, "admin/articles", pc, ArticleListData{
		Articles:   articles,
		Pagination: uikit.BuildAdminPagination(page, int(total), adminPerPage, RouteAdminArticles, r.URL.Query()),
	})
}

// ArticleFormData holds form state for the create/edit screens. Errors is
// keyed by field name; a failed submission re-renders with the submitted
// values preserved.
type ArticleFormData struct {
	Article    model.Article
	Categories []string
	Errors     map[string]string
	IsNew      bool
}

// NewForm renders the empty article form.
func (h *ArticlesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.create")
	renderAdmin(w, r, h.renderer, "admin/article_form", pc, ArticleFormData{
		Article:    model.Article{Category: model.ArticleCategories[0]},
		Categories: model.ArticleCategories,
		IsNew:      true,
	})
}

// EditForm renders the form populated with an existing article.
func (h *ArticlesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminArticles, pc.T("admin.not_found"))
		return
	}
	article, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminArticles, "article", id,
		func(id int64) (model.Article, error) { return h.queries.GetArticleByID(r.Context(), id) })
	if !ok {
		return
	}

	pc.Title = pc.T("admin.edit")
	renderAdmin(w, r, h.renderer, "admin/article_form", pc, ArticleFormData{
		Article:    article,
		Categories: model.ArticleCategories,
	})
}

// articleFromForm reads the submitted fields into an Article and validates
// them. The returned map is empty when the submission is valid.
func (h *ArticlesHandler) articleFromForm(r *http.Request, pc *adminviews.PageContext, existing model.Article) (model.Article, map[string]string) {
	article := existing
	article.Title = formTrimmed(r, "title")
	article.Slug = formTrimmed(r, "slug")
	article.Category = formTrimmed(r, "category")
	article.Excerpt = formTrimmed(r, "excerpt")
	article.Body = r.FormValue("body")
	article.Published = formChecked(r, "published")

	article.PublishAt = sql.NullTime{}
	if v := formTrimmed(r, "publish_at"); v != "" {
		if t, err := time.ParseInLocation(datetimeLocalFormat, v, time.Local); err == nil {
			article.PublishAt = sql.NullTime{Time: t, Valid: true}
		}
	}

	if article.Slug == "" {
		article.Slug = util.Slugify(article.Title)
	}

	errs := make(map[string]string)
	if article.Title == "" || len(article.Title) > maxTitleLength {
		errs["title"] = pc.T("form.required")
	}
	if !util.IsValidSlug(article.Slug) || len(article.Slug) > maxSlugLength {
		errs["slug"] = pc.T("form.invalid")
	}
	if !model.IsValidArticleCategory(article.Category) {
		errs["category"] = pc.T("form.invalid")
	}

	if errs["slug"] == "" {
		taken, err := h.queries.CountArticleSlug(r.Context(), article.Slug, existing.ID)
		if err != nil {
			slog.Error("checking article slug", "error", err)
		} else if taken > 0 {
			errs["slug"] = pc.T("admin.slug_taken")
		}
	}
	return article, errs
}

// Create stores a new article.
func (h *ArticlesHandler) Create(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.create")
	if !parseFormOrRedirect(w, r, h.renderer, pc.Lang, redirectAdminArticles) {
		return
	}

	article, errs := h.articleFromForm(r, &pc, model.Article{})
	if len(errs) > 0 {
		renderAdmin(w, r, h.renderer, "admin/article_form", pc, ArticleFormData{
			Article:    article,
			Categories: model.ArticleCategories,
			Errors:     errs,
			IsNew:      true,
		})
		return
	}

	now := time.Now().UTC()
	created, err := h.queries.CreateArticle(r.Context(), store.CreateArticleParams{
		Title:     article.Title,
		Slug:      article.Slug,
		Category:  article.Category,
		Excerpt:   article.Excerpt,
		Body:      article.Body,
		Published: article.Published,
		PublishAt: article.PublishAt.Time,
		AuthorID:  middleware.GetUserID(r),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("creating article", "error", err)
		flashError(w, r, h.renderer, redirectAdminArticles, pc.T("auth.error"))
		return
	}

	h.afterWrite(r, model.ActionArticleCreated, created.Title)
	flashSuccess(w, r, h.renderer, redirectAdminArticles, pc.T("admin.saved"))
}

// Update stores changes to an existing article.
func (h *ArticlesHandler) Update(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.edit")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminArticles, pc.T("admin.not_found"))
		return
	}
	existing, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminArticles, "article", id,
		func(id int64) (model.Article, error) { return h.queries.GetArticleByID(r.Context(), id) })
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, pc.Lang, redirectAdminArticles) {
		return
	}

	article, errs := h.articleFromForm(r, &pc, existing)
	if len(errs) > 0 {
		renderAdmin(w, r, h.renderer, "admin/article_form", pc, ArticleFormData{
			Article:    article,
			Categories: model.ArticleCategories,
			Errors:     errs,
		})
		return
	}

	err := h.queries.UpdateArticle(r.Context(), store.UpdateArticleParams{
		ID:        id,
		Title:     article.Title,
		Slug:      article.Slug,
		Category:  article.Category,
		Excerpt:   article.Excerpt,
		Body:      article.Body,
		Published: article.Published,
		PublishAt: article.PublishAt.Time,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("updating article", "error", err, "article_id", id)
		flashError(w, r, h.renderer, fmt.Sprintf(redirectAdminArticlesID, id), pc.T("auth.error"))
		return
	}

	h.afterWrite(r, model.ActionArticleUpdated, article.Title)
	flashSuccess(w, r, h.renderer, redirectAdminArticles, pc.T("admin.saved"))
}

// TogglePublish flips an article's published flag.
func (h *ArticlesHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminArticles, pc.T("admin.not_found"))
		return
	}
	article, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminArticles, "article", id,
		func(id int64) (model.Article, error) { return h.queries.GetArticleByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.SetArticlePublished(r.Context(), id, !article.Published, time.Now().UTC()); err != nil {
		slog.Error("toggling article", "error", err, "article_id", id)
		flashError(w, r, h.renderer, redirectAdminArticles, pc.T("auth.error"))
		return
	}

	h.afterWrite(r, model.ActionArticleUpdated, article.Title)
	flashSuccess(w, r, h.renderer, redirectAdminArticles, pc.T("admin.saved"))
}

// Delete removes an article. The route is admin-only.
func (h *ArticlesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pc := adminContext(r, "")
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminArticles, pc.T("admin.not_found"))
		return
	}
	article, ok := requireEntityWithRedirect(w, r, h.renderer, pc.Lang, redirectAdminArticles, "article", id,
		func(id int64) (model.Article, error) { return h.queries.GetArticleByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.DeleteArticle(r.Context(), id); err != nil {
		slog.Error("deleting article", "error", err, "article_id", id)
		flashError(w, r, h.renderer, redirectAdminArticles, pc.T("auth.error"))
		return
	}

	h.afterWrite(r, model.ActionArticleDeleted, article.Title)
	flashSuccess(w, r, h.renderer, redirectAdminArticles, pc.T("admin.deleted"))
}

// afterWrite records the activity entry and drops the cached content.
func (h *ArticlesHandler) afterWrite(r *http.Request, action model.ActivityAction, title string) {
	h.activity.RecordAsync(middleware.GetUserID(r), action,
		service.ContentDetails{Title: title}, middleware.GetClientIP(r))
	h.caches.InvalidateContent()
}

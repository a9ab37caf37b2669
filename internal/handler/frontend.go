// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/valforet/valforet-go/internal/cache"
	"github.com/valforet/valforet-go/internal/i18n"
	"github.com/valforet/valforet-go/internal/listing"
	"github.com/valforet/valforet-go/internal/markdown"
	"github.com/valforet/valforet-go/internal/middleware"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/seo"
	"github.com/valforet/valforet-go/internal/store"
)

// homeItemCount is how many articles and projects the homepage previews.
const homeItemCount = 3

// FrontendHandler serves the public marketing pages.
type FrontendHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	caches   *cache.Manager
	siteURL  string
}

// NewFrontendHandler creates a new FrontendHandler. siteURL is the
// canonical base URL used for meta tags.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, caches *cache.Manager, siteURL string) *FrontendHandler {
	return &FrontendHandler{
		queries:  store.New(db),
		renderer: renderer,
		caches:   caches,
		siteURL:  siteURL,
	}
}

// publishedArticles returns the published article collection, from the
// content cache when warm. Read failures degrade to an empty list: the
// page renders its empty state and the cause goes to the log.
func (h *FrontendHandler) publishedArticles(ctx context.Context) []model.Article {
	const key = cache.ContentKeyPrefix + "articles"
	if cached, ok := h.caches.General.Get(key); ok {
		if articles, ok := cached.([]model.Article); ok {
			return articles
		}
	}
	articles, err := h.queries.ListPublishedArticles(ctx)
	if err != nil {
		slog.Error("listing published articles", "error", err)
		return nil
	}
	h.caches.General.Set(key, articles)
	return articles
}

// publishedProjects returns the published project collection, cached.
func (h *FrontendHandler) publishedProjects(ctx context.Context) []model.Project {
	const key = cache.ContentKeyPrefix + "projects"
	if cached, ok := h.caches.General.Get(key); ok {
		if projects, ok := cached.([]model.Project); ok {
			return projects
		}
	}
	projects, err := h.queries.ListPublishedProjects(ctx)
	if err != nil {
		slog.Error("listing published projects", "error", err)
		return nil
	}
	h.caches.General.Set(key, projects)
	return projects
}

// publishedServices returns the published, non-archived services, cached.
func (h *FrontendHandler) publishedServices(ctx context.Context) []model.Service {
	const key = cache.ContentKeyPrefix + "services"
	if cached, ok := h.caches.General.Get(key); ok {
		if services, ok := cached.([]model.Service); ok {
			return services
		}
	}
	services, err := h.queries.ListPublishedServices(ctx)
	if err != nil {
		slog.Error("listing published services", "error", err)
		return nil
	}
	h.caches.General.Set(key, services)
	return services
}

// HomeData holds data for the homepage.
type HomeData struct {
	Slides       []model.HeroSlide
	Services     []model.Service
	Articles     []model.Article
	Projects     []model.Project
	Covers       map[int64]string
	Testimonials []model.Testimonial
}

// Home renders the homepage: hero carousel, services overview, latest
// articles and projects, testimonials.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLang(r)

	slides, err := h.queries.ListPublishedSlides(ctx)
	if err != nil {
		slog.Error("listing slides", "error", err)
	}
	testimonials, err := h.queries.ListPublishedTestimonials(ctx)
	if err != nil {
		slog.Error("listing testimonials", "error", err)
	}

	articles := h.publishedArticles(ctx)
	if len(articles) > homeItemCount {
		articles = articles[:homeItemCount]
	}
	projects := h.publishedProjects(ctx)
	if len(projects) > homeItemCount {
		projects = projects[:homeItemCount]
	}

	data := HomeData{
		Slides:       slides,
		Services:     h.publishedServices(ctx),
		Articles:     articles,
		Projects:     projects,
		Covers:       h.projectCovers(ctx, projects),
		Testimonials: testimonials,
	}

	meta := seo.PageMeta(seo.Page{
		Summary: i18n.T(lang, "footer.tagline"),
		Path:    RouteRoot,
	}, h.siteURL)
	h.renderMeta(w, r, "frontend/home", i18n.T(lang, "nav.home"), lang, data, meta)
}

// ServiceListData holds data for the services overview page.
type ServiceListData struct {
	Services []model.Service
}

// ServiceList renders the services overview.
func (h *FrontendHandler) ServiceList(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	data := ServiceListData{Services: h.publishedServices(r.Context())}
	h.render(w, r, "frontend/services", i18n.T(lang, "nav.services"), lang, data)
}

// ServiceDetailData holds data for one service page.
type ServiceDetailData struct {
	Service model.Service
	Body    template.HTML
	Others  []model.Service
}

// ServiceDetail renders one service page by slug.
func (h *FrontendHandler) ServiceDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	svc, err := h.queries.GetPublishedServiceBySlug(r.Context(), slug)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("loading service", "error", err, "slug", slug)
		}
		h.NotFound(w, r)
		return
	}

	var others []model.Service
	for _, s := range h.publishedServices(r.Context()) {
		if s.ID != svc.ID {
			others = append(others, s)
		}
	}

	lang := middleware.GetLang(r)
	data := ServiceDetailData{
		Service: svc,
		Body:    markdown.ToHTML(svc.Body),
		Others:  others,
	}
	meta := seo.PageMeta(seo.Page{
		Summary: svc.Summary,
		Path:    RouteServices + "/" + svc.Slug,
	}, h.siteURL)
	h.renderMeta(w, r, "frontend/service_detail", svc.Title, lang, data, meta)
}

// ListPageData holds data for a filterable, paginated content list page.
type ListPageData[T any] struct {
	View       listing.View[T]
	Categories []string
	Selected   string
	Covers     map[int64]string
	BasePath   string
}

// listState reads the category filter and page number from query
// parameters. An unknown category falls back to the sentinel; switching
// category always lands on page 1, so a page parameter only applies when
// it accompanies the already-active filter.
func listState(r *http.Request, validCategory func(string) bool) listing.State {
	state := listing.NewState()
	if c := r.URL.Query().Get("categorie"); c != "" && validCategory(c) {
		state = state.SetCategory(c)
	}
	if page := r.URL.Query().Get("page"); page != "" {
		if n, err := strconv.Atoi(page); err == nil && n >= 1 {
			state = state.SetPage(n)
		}
	}
	return state
}

// ProjectList renders the project list with category filter and
// pagination. The whole published collection is fetched once; filter and
// page are derived from it without further queries.
func (h *FrontendHandler) ProjectList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLang(r)

	projects := h.publishedProjects(ctx)
	state := listState(r, model.IsValidProjectCategory)
	view := listing.Derive(projects, state, func(p model.Project) string { return p.Category })

	data := ListPageData[model.Project]{
		View:       view,
		Categories: model.ProjectCategories,
		Selected:   state.Category,
		Covers:     h.projectCovers(ctx, view.Items),
		BasePath:   RouteProjects,
	}
	h.render(w, r, "frontend/projects", i18n.T(lang, "nav.projects"), lang, data)
}

// ProjectDetailData holds data for one project page.
type ProjectDetailData struct {
	Project model.Project
	Images  []model.ProjectImage
}

// ProjectDetail renders one project page by slug, gallery cover first.
func (h *FrontendHandler) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	project, err := h.queries.GetPublishedProjectBySlug(r.Context(), slug)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("loading project", "error", err, "slug", slug)
		}
		h.NotFound(w, r)
		return
	}

	images, err := h.queries.ListProjectImages(r.Context(), project.ID)
	if err != nil {
		slog.Error("listing project images", "error", err, "project_id", project.ID)
	}

	lang := middleware.GetLang(r)
	data := ProjectDetailData{Project: project, Images: images}

	var cover string
	if len(images) > 0 {
		cover = images[0].Path
	}
	meta := seo.PageMeta(seo.Page{
		Summary: project.Description,
		Path:    RouteProjects + "/" + project.Slug,
		Image:   cover,
	}, h.siteURL)
	h.renderMeta(w, r, "frontend/project_detail", project.Title, lang, data, meta)
}

// ArticleList renders the article list with category filter and pagination.
func (h *FrontendHandler) ArticleList(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)

	articles := h.publishedArticles(r.Context())
	state := listState(r, model.IsValidArticleCategory)
	view := listing.Derive(articles, state, func(a model.Article) string { return a.Category })

	data := ListPageData[model.Article]{
		View:       view,
		Categories: model.ArticleCategories,
		Selected:   state.Category,
		BasePath:   RouteArticles,
	}
	h.render(w, r, "frontend/articles", i18n.T(lang, "nav.articles"), lang, data)
}

// ArticleDetailData holds data for one article page.
type ArticleDetailData struct {
	Article model.Article
	Body    template.HTML
	Latest  []model.Article
}

// ArticleDetail renders one article page by slug.
func (h *FrontendHandler) ArticleDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	article, err := h.queries.GetPublishedArticleBySlug(r.Context(), slug)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("loading article", "error", err, "slug", slug)
		}
		h.NotFound(w, r)
		return
	}

	var latest []model.Article
	for _, a := range h.publishedArticles(r.Context()) {
		if a.ID != article.ID {
			latest = append(latest, a)
		}
		if len(latest) == homeItemCount {
			break
		}
	}

	lang := middleware.GetLang(r)
	data := ArticleDetailData{
		Article: article,
		Body:    markdown.ToHTML(article.Body),
		Latest:  latest,
	}
	publishedAt := article.CreatedAt
	if article.PublishAt.Valid {
		publishedAt = article.PublishAt.Time
	}
	meta := seo.ArticleMeta(seo.Article{
		Title:       article.Title,
		Summary:     article.Excerpt,
		Path:        RouteArticles + "/" + article.Slug,
		PublishedAt: publishedAt,
		UpdatedAt:   article.UpdatedAt,
	}, h.siteURL, middleware.GetSiteName(r))
	h.renderMeta(w, r, "frontend/article_detail", article.Title, lang, data, meta)
}

// About renders the about page.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	h.render(w, r, "frontend/about", i18n.T(lang, "nav.about"), lang, nil)
}

// ContactForm renders the contact page.
func (h *FrontendHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	h.render(w, r, "frontend/contact", i18n.T(lang, "nav.contact"), lang, nil)
}

// ContactSubmit stores a contact message and redirects back with a flash.
func (h *FrontendHandler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	if !parseFormOrRedirect(w, r, h.renderer, lang, RouteContact) {
		return
	}

	name := formTrimmed(r, "name")
	email := formTrimmed(r, "email")
	subject := formTrimmed(r, "subject")
	body := formTrimmed(r, "message")

	if name == "" || email == "" || body == "" ||
		len(name) > maxNameLength || len(email) > maxEmailLength ||
		len(subject) > maxSubjectLength || len(body) > maxBodyLength {
		flashError(w, r, h.renderer, RouteContact, i18n.T(lang, "contact.invalid"))
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		flashError(w, r, h.renderer, RouteContact, i18n.T(lang, "contact.invalid"))
		return
	}

	_, err := h.queries.CreateContactMessage(r.Context(), store.CreateContactMessageParams{
		Name:      name,
		Email:     email,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("storing contact message", "error", err)
		flashError(w, r, h.renderer, RouteContact, i18n.T(lang, "auth.error"))
		return
	}

	flashSuccess(w, r, h.renderer, RouteContact, i18n.T(lang, "contact.sent"))
}

// NotFound renders the dedicated 404 page with a return-home link.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	err := h.renderer.RenderStatus(w, r, "frontend/404", http.StatusNotFound, render.TemplateData{
		Title:    i18n.T(lang, "error.not_found_title"),
		Lang:     lang,
		SiteName: middleware.GetSiteName(r),
	})
	if err != nil {
		logAndInternalError(w, "rendering 404 page", "error", err)
	}
}

// projectCovers maps project IDs to their cover image path. Projects
// without images are simply absent from the map.
func (h *FrontendHandler) projectCovers(ctx context.Context, projects []model.Project) map[int64]string {
	covers := make(map[int64]string, len(projects))
	for _, p := range projects {
		img, err := h.queries.GetProjectCover(ctx, p.ID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				slog.Error("loading project cover", "error", err, "project_id", p.ID)
			}
			continue
		}
		covers[p.ID] = img.Path
	}
	return covers
}

// render executes a frontend template with common page data filled in.
func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, name, title, lang string, data any) {
	h.renderMeta(w, r, name, title, lang, data, nil)
}

// renderMeta is render with page head metadata attached.
func (h *FrontendHandler) renderMeta(w http.ResponseWriter, r *http.Request, name, title, lang string, data any, meta *seo.Meta) {
	err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:    title,
		Lang:     lang,
		SiteName: middleware.GetSiteName(r),
		Meta:     meta,
		Data:     data,
	})
	if err != nil {
		logAndInternalError(w, "rendering "+name, "error", err)
	}
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/valforet/valforet-go/internal/middleware"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/service"
	"github.com/valforet/valforet-go/internal/store"
	adminviews "github.com/valforet/valforet-go/internal/views/admin"
)

// adminPerPage is the page size of the admin list screens.
const adminPerPage = 20

// AdminPageData wraps the shared context and page-specific data handed to
// admin templates.
type AdminPageData struct {
	Ctx  adminviews.PageContext
	Data any
}

// adminContext builds the shared view context from the request.
func adminContext(r *http.Request, title string) adminviews.PageContext {
	pc := adminviews.PageContext{
		Title:       title,
		Session:     middleware.GetSession(r),
		SiteName:    middleware.GetSiteName(r),
		CurrentPath: r.URL.Path,
		Lang:        middleware.GetLang(r),
	}
	if user := middleware.GetUser(r); user != nil {
		pc.User = adminviews.UserInfo{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			AvatarPath: user.AvatarPath,
		}
	}
	return pc
}

// renderAdmin executes an admin template with the shared context attached.
func renderAdmin(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, name string, pc adminviews.PageContext, data any) {
	err := renderer.Render(w, r, name, render.TemplateData{
		Title:    pc.Title,
		Lang:     pc.Lang,
		SiteName: pc.SiteName,
		Data:     AdminPageData{Ctx: pc, Data: data},
	})
	if err != nil {
		logAndInternalError(w, "rendering "+name, "error", err)
	}
}

// AdminHandler serves the dashboard.
type AdminHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	activity *service.ActivityService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, activity *service.ActivityService) *AdminHandler {
	return &AdminHandler{
		queries:  store.New(db),
		renderer: renderer,
		activity: activity,
	}
}

// DashboardData holds counts and recent items for the dashboard.
type DashboardData struct {
	ArticleCount   int64
	ProjectCount   int64
	ServiceCount   int64
	UserCount      int64
	UnreadMessages int64
	RecentActivity []model.ActivityLog
	RecentMessages []model.ContactMessage
}

// Dashboard renders the admin dashboard. Count or listing failures leave
// the affected section empty; the page itself always renders.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pc := adminContext(r, "")
	pc.Title = pc.T("admin.dashboard")

	var data DashboardData
	var err error
	if data.ArticleCount, err = h.queries.CountArticles(ctx); err != nil {
		slog.Error("counting articles", "error", err)
	}
	if data.ProjectCount, err = h.queries.CountProjects(ctx); err != nil {
		slog.Error("counting projects", "error", err)
	}
	if data.ServiceCount, err = h.queries.CountServices(ctx); err != nil {
		slog.Error("counting services", "error", err)
	}
	if data.UserCount, err = h.queries.CountUsers(ctx); err != nil {
		slog.Error("counting users", "error", err)
	}
	if data.UnreadMessages, err = h.queries.CountUnreadContactMessages(ctx); err != nil {
		slog.Error("counting unread messages", "error", err)
	}

	if data.RecentActivity, _, err = h.activity.List(ctx, 5, 0); err != nil {
		slog.Error("listing recent activity", "error", err)
	}
	data.RecentMessages, err = h.queries.ListContactMessages(ctx, store.ListContactMessagesParams{Limit: 5})
	if err != nil {
		slog.Error("listing recent messages", "error", err)
	}

	renderAdmin(w, r, h.renderer, "admin/dashboard", pc, data)
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded templates and renders pages with
// shared data (flash messages, session state, site name).
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/valforet/valforet-go/internal/i18n"
	"github.com/valforet/valforet-go/internal/seo"
	"github.com/valforet/valforet-go/internal/uikit"
)

// Page groups and the layout chain each one nests in. Admin pages wrap
// the admin chrome around the base layout; everything else renders in
// the base layout directly.
var pageGroups = map[string][]string{
	"frontend": {"layouts/base.html"},
	"auth":     {"layouts/base.html"},
	"admin":    {"layouts/base.html", "layouts/admin.html"},
}

// Renderer holds the parsed template set, one entry per page, keyed
// "<group>/<page>" (for example "frontend/home" or "admin/articles").
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
}

// New parses every page template eagerly so a broken template fails
// startup instead of the first request that hits it.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
	}

	partials, err := fs.Glob(cfg.TemplatesFS, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("globbing partials: %w", err)
	}

	for group, layouts := range pageGroups {
		pages, err := fs.Glob(cfg.TemplatesFS, group+"/*.html")
		if err != nil {
			return nil, fmt.Errorf("globbing %s templates: %w", group, err)
		}

		for _, page := range pages {
			files := make([]string, 0, len(layouts)+len(partials)+1)
			files = append(files, layouts...)
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(cfg.TemplatesFS, files...)
			if err != nil {
				return nil, fmt.Errorf("parsing template %s: %w", page, err)
			}
			r.templates[strings.TrimSuffix(page, path.Ext(page))] = tmpl
		}
	}

	return r, nil
}

// templateFuncs returns the shared helpers plus the site-specific ones.
func (r *Renderer) templateFuncs() template.FuncMap {
	funcs := uikit.TemplateFuncs()
	funcs["t"] = i18n.T
	funcs["relativeDate"] = func(lang string, t time.Time) string {
		return i18n.RelativeDate(lang, t, time.Now())
	}
	return funcs
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Lang        string
	SiteName    string
	Meta        *seo.Meta
	Data        any
	Flash       string
	FlashType   string
	CurrentYear int
	CSRFToken   string
}

// Render renders the named page template with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.render(w, req, name, http.StatusOK, data)
}

// RenderStatus renders a template with an explicit HTTP status code,
// used for the error pages.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, name string, status int, data TemplateData) error {
	return r.render(w, req, name, status, data)
}

func (r *Renderer) render(w http.ResponseWriter, req *http.Request, name string, status int, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	if data.Lang == "" {
		data.Lang = i18n.DefaultLanguage
	}
	if data.Flash == "" {
		data.Flash, data.FlashType = r.popFlash(req)
	}

	// Execute into a buffer so a template error can still become a 500
	// instead of a half-written page.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// SetFlash stores a one-shot notice in the session; the next rendered
// page displays and consumes it.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager == nil {
		return
	}
	r.sessionManager.Put(req.Context(), "flash", message)
	r.sessionManager.Put(req.Context(), "flash_type", flashType)
}

func (r *Renderer) popFlash(req *http.Request) (message, kind string) {
	if r.sessionManager == nil {
		return "", ""
	}
	message = r.sessionManager.PopString(req.Context(), "flash")
	if message == "" {
		return "", ""
	}
	kind = r.sessionManager.PopString(req.Context(), "flash_type")
	if kind == "" {
		kind = "info"
	}
	return message, kind
}

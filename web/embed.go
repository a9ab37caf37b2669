// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the site templates and compiled static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templates embed.FS

//go:embed all:static/dist
var static embed.FS

// TemplateFS returns the template tree rooted at the templates directory.
func TemplateFS() (fs.FS, error) {
	return fs.Sub(templates, "templates")
}

// StaticFS returns the built assets rooted at the dist directory.
func StaticFS() (fs.FS, error) {
	return fs.Sub(static, "static/dist")
}

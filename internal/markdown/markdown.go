// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markdown converts editor-authored Markdown to sanitized HTML for
// the public pages. Conversion happens at render time; sanitization always
// runs on the converted output, so stored bodies stay plain Markdown.
package markdown

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	md = goldmark.New()
	policy = bluemonday.UGCPolicy()
)

// ToHTML renders Markdown source to sanitized HTML. On a conversion error
// the source is returned escaped rather than dropped.
func ToHTML(source string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		slog.Error("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}

// Sanitize strips disallowed markup from an HTML fragment.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}

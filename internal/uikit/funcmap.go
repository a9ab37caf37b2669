// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit holds the template helpers and pagination view models
// shared by the public pages and the admin.
package uikit

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// monthsFr holds French month names, indexed by time.Month - 1.
var monthsFr = [12]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// TemplateFuncs returns the base helper set. The renderer merges the
// site-specific helpers (translations, relative dates) on top.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"repeat":   strings.Repeat,
		"truncate": Truncate,
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
		"seq": func(from, to int) []int {
			var ns []int
			for i := from; i <= to; i++ {
				ns = append(ns, i)
			}
			return ns
		},
		"int": toInt,
		"formatDateLocale": func(t any, lang string) string {
			return applyFormatter(t, lang, FormatDateForLocale)
		},
		"formatDateTimeLocale": func(t any, lang string) string {
			return applyFormatter(t, lang, FormatDateTimeForLocale)
		},
	}
}

// Truncate shortens a string to at most max runes, appending an ellipsis
// when anything was cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}

// toInt coerces the numeric types templates meet into an int. Anything
// else becomes zero.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// FormatDateForLocale renders a date as "12 mars 2026" in French or
// "Mar 12, 2026" in English.
func FormatDateForLocale(t time.Time, lang string) string {
	if lang == "en" {
		return t.Format("Jan 2, 2006")
	}
	return fmt.Sprintf("%d %s %d", t.Day(), monthsFr[t.Month()-1], t.Year())
}

// FormatDateTimeForLocale adds the time of day to the localized date,
// "14h05"-style in French.
func FormatDateTimeForLocale(t time.Time, lang string) string {
	if lang == "en" {
		return t.Format("Jan 2, 2006 3:04 PM")
	}
	return fmt.Sprintf("%d %s %d, %02dh%02d",
		t.Day(), monthsFr[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// applyFormatter handles both time.Time and *time.Time template values.
// Nil pointers and anything else render as empty.
func applyFormatter(t any, lang string, format func(time.Time, string) string) string {
	switch v := t.(type) {
	case time.Time:
		return format(v, lang)
	case *time.Time:
		if v != nil {
			return format(*v, lang)
		}
	}
	return ""
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util holds small helpers for slugs and uploaded filenames.
package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent decomposes characters and drops the combining marks, turning
// "forêt" into "foret".
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL slug from a title: accents removed, lowercased,
// runs of anything non-alphanumeric collapsed to single hyphens.
func Slugify(s string) string {
	flat, _, err := transform.String(deaccent, s)
	if err != nil {
		flat = s
	}

	var b strings.Builder
	b.Grow(len(flat))
	pendingHyphen := false
	for _, r := range strings.ToLower(flat) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsValidSlug reports whether s is already in slug form: non-empty,
// lowercase alphanumerics and single hyphens, no hyphen at either end.
func IsValidSlug(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import "strings"

// crawlerBlockedPaths are the non-content areas kept out of search
// engines: the admin, the auth endpoints and the JSON API.
var crawlerBlockedPaths = []string{
	"/admin",
	"/connexion",
	"/deconnexion",
	"/api",
}

// Robots generates the robots.txt body. With disallowAll set (staging
// deployments) every crawler is blocked and no sitemap is advertised.
func Robots(siteURL string, disallowAll bool) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")

	if disallowAll {
		b.WriteString("Disallow: /\n")
		return b.String()
	}

	for _, path := range crawlerBlockedPaths {
		b.WriteString("Disallow: " + path + "\n")
	}
	b.WriteString("Allow: /\n")

	if siteURL != "" {
		b.WriteString("\nSitemap: " + strings.TrimSuffix(siteURL, "/") + "/sitemap.xml\n")
	}
	return b.String()
}

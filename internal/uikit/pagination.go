// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// pageWindow is how many numbered links surround the current page in
// admin tables before gaps collapse to an ellipsis.
const pageWindow = 2

// PageLink is one entry in a pagination control. An ellipsis entry has
// Number 0 and no URL.
type PageLink struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// AdminPagination drives the admin table pagination partial.
type AdminPagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int64
	PerPage     int
	HasPrev     bool
	HasNext     bool
	Pages       []PageLink
	BaseURL     string
	QueryString string
}

// BuildAdminPagination assembles page links for an admin table. baseURL
// is the path without a query string; queryParams carries the active
// filters, which every link preserves minus its own page parameter.
func BuildAdminPagination(currentPage, totalItems, perPage int, baseURL string, queryParams url.Values) AdminPagination {
	currentPage, totalPages := NormalizePagination(currentPage, totalItems, perPage)

	p := AdminPagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  int64(totalItems),
		PerPage:     perPage,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		BaseURL:     baseURL,
	}

	filtered := make(url.Values)
	for k, v := range queryParams {
		if k != "page" && len(v) > 0 && v[0] != "" {
			filtered[k] = v
		}
	}
	p.QueryString = filtered.Encode()

	p.Pages = pageLinks(currentPage, totalPages, p.PageURL)
	return p
}

// PageURL returns the link for one page, keeping the active filters.
func (p AdminPagination) PageURL(page int) string {
	if p.QueryString != "" {
		return fmt.Sprintf("%s?%s&page=%d", p.BaseURL, p.QueryString, page)
	}
	return fmt.Sprintf("%s?page=%d", p.BaseURL, page)
}

// PrevURL returns the link for the previous page.
func (p AdminPagination) PrevURL() string { return p.PageURL(p.CurrentPage - 1) }

// NextURL returns the link for the next page.
func (p AdminPagination) NextURL() string { return p.PageURL(p.CurrentPage + 1) }

// pageLinks lays out numbered links around the current page, always
// keeping the first and last page reachable and collapsing gaps longer
// than one page to an ellipsis.
func pageLinks(current, total int, pageURL func(int) string) []PageLink {
	start := current - pageWindow
	end := current + pageWindow
	if start < 1 {
		start = 1
		end = 2*pageWindow + 1
	}
	if end > total {
		end = total
		if start = end - 2*pageWindow; start < 1 {
			start = 1
		}
	}

	var links []PageLink
	if start > 1 {
		links = append(links, PageLink{Number: 1, URL: pageURL(1)})
		if start > 2 {
			links = append(links, PageLink{IsEllipsis: true})
		}
	}
	for n := start; n <= end; n++ {
		links = append(links, PageLink{Number: n, URL: pageURL(n), IsCurrent: n == current})
	}
	if end < total {
		if end < total-1 {
			links = append(links, PageLink{IsEllipsis: true})
		}
		links = append(links, PageLink{Number: total, URL: pageURL(total)})
	}
	return links
}

// NormalizePagination derives the page count from the item count and
// clamps the requested page into [1, totalPages]. An empty collection
// still has one (empty) page.
func NormalizePagination(page, totalItems, perPage int) (int, int) {
	totalPages := 1
	if perPage > 0 {
		if totalPages = (totalItems + perPage - 1) / perPage; totalPages < 1 {
			totalPages = 1
		}
	}
	switch {
	case page < 1:
		page = 1
	case page > totalPages:
		page = totalPages
	}
	return page, totalPages
}

// ParsePageParam reads the "page" query parameter, falling back to 1 for
// anything missing or malformed.
func ParsePageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

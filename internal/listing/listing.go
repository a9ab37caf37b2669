// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listing implements the client-side list derivation used by the
// public content pages: category filtering, fixed-size pagination and
// windowed page number labels. Everything here is pure computation over an
// already fetched collection; changing filter or page never triggers a new
// query.
package listing

import "github.com/valforet/valforet-go/internal/model"

// DefaultPageSize is the fixed page size of the public list pages.
const DefaultPageSize = 6

// FilterByCategory returns the items whose category equals selected.
// The sentinel model.CategoryAll is the identity filter. Matching is exact
// and case-sensitive against the editor-assigned category values.
func FilterByCategory[T any](items []T, selected string, categoryOf func(T) string) []T {
	if selected == model.CategoryAll {
		return items
	}
	var out []T
	for _, item := range items {
		if categoryOf(item) == selected {
			out = append(out, item)
		}
	}
	return out
}

// TotalPages returns ceil(count / pageSize). An empty collection has zero
// pages.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginate returns the items of the given 1-based page. Page numbers
// outside [1, TotalPages] yield an empty slice rather than an error: the
// controls clamp navigation, but the computation itself must stay total.
func Paginate[T any](items []T, pageSize, page int) []T {
	total := TotalPages(len(items), pageSize)
	if page < 1 || page > total {
		return nil
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// PageLabel is one entry of the pagination control: either a page number
// or an ellipsis placeholder.
type PageLabel struct {
	Number     int
	IsEllipsis bool
}

func pageEllipsis() PageLabel { return PageLabel{IsEllipsis: true} }

func pageNumber(n int) PageLabel { return PageLabel{Number: n} }

// PageNumberLabels computes the windowed page labels shown by the
// pagination control. With seven or fewer pages every number is shown;
// beyond that a window around the current page is kept with ellipses
// toward the hidden ranges:
//
//	current ≤ 3:              1 2 3 4 … last
//	current ≥ totalPages-2:   1 … last-3 last-2 last-1 last
//	otherwise:                1 … current-1 current current+1 … last
func PageNumberLabels(currentPage, totalPages int) []PageLabel {
	if totalPages < 1 {
		return nil
	}

	if totalPages <= 7 {
		labels := make([]PageLabel, 0, totalPages)
		for n := 1; n <= totalPages; n++ {
			labels = append(labels, pageNumber(n))
		}
		return labels
	}

	switch {
	case currentPage <= 3:
		return []PageLabel{
			pageNumber(1), pageNumber(2), pageNumber(3), pageNumber(4),
			pageEllipsis(), pageNumber(totalPages),
		}
	case currentPage >= totalPages-2:
		return []PageLabel{
			pageNumber(1), pageEllipsis(),
			pageNumber(totalPages - 3), pageNumber(totalPages - 2),
			pageNumber(totalPages - 1), pageNumber(totalPages),
		}
	default:
		return []PageLabel{
			pageNumber(1), pageEllipsis(),
			pageNumber(currentPage - 1), pageNumber(currentPage), pageNumber(currentPage + 1),
			pageEllipsis(), pageNumber(totalPages),
		}
	}
}

// State holds the user-chosen list parameters for one screen.
type State struct {
	Category string
	Page     int
}

// NewState returns the initial list state: no category filter, first page.
func NewState() State {
	return State{Category: model.CategoryAll, Page: 1}
}

// SetCategory switches the active category filter and resets to page 1.
// Keeping a deep page number across a filter change would usually land past
// the end of the narrowed collection.
func (s State) SetCategory(category string) State {
	return State{Category: category, Page: 1}
}

// SetPage moves to the given page, keeping the category filter.
func (s State) SetPage(page int) State {
	s.Page = page
	return s
}

// View is the derived output for one screen render.
type View[T any] struct {
	Items      []T
	TotalItems int
	TotalPages int
	Page       int
	Labels     []PageLabel
}

// ShowControls reports whether the pagination control is rendered at all.
// A single page hides the controls entirely rather than showing disabled
// arrows.
func (v View[T]) ShowControls() bool {
	return v.TotalPages > 1
}

// Derive computes the visible page from the full fetched collection and the
// current list state.
func Derive[T any](items []T, state State, categoryOf func(T) string) View[T] {
	filtered := FilterByCategory(items, state.Category, categoryOf)
	total := TotalPages(len(filtered), DefaultPageSize)
	return View[T]{
		Items:      Paginate(filtered, DefaultPageSize, state.Page),
		TotalItems: len(filtered),
		TotalPages: total,
		Page:       state.Page,
		Labels:     PageNumberLabels(state.Page, total),
	}
}

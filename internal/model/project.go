// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// ProjectCategories lists the categories editors may assign to projects.
var ProjectCategories = []string{"Forêt", "BTP", "Agricole", "Environnement"}

// Project represents a completed or ongoing consultancy project.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Client      string    `json:"client"`
	Location    string    `json:"location"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectImage belongs to exactly one project. At most one image per project
// carries IsCover; the editor flow keeps exactly one flagged whenever any
// image exists.
type ProjectImage struct {
	ID           int64     `json:"id"`
	ProjectID    int64     `json:"project_id"`
	Path         string    `json:"path"`
	DisplayOrder int64     `json:"display_order"`
	IsCover      bool      `json:"is_cover"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsValidProjectCategory reports whether c is a category editors may assign.
func IsValidProjectCategory(c string) bool {
	for _, v := range ProjectCategories {
		if v == c {
			return true
		}
	}
	return false
}

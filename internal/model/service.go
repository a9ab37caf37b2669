// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Service icon identifiers. Content rows reference icons by name; the set is
// closed and unrecognized names fall back to IconDefault rather than being
// resolved dynamically.
const (
	IconTree      = "tree"
	IconMap       = "map"
	IconClipboard = "clipboard"
	IconLeaf      = "leaf"
	IconRuler     = "ruler"
	IconShield    = "shield"
	IconDefault   = IconLeaf
)

// iconClasses maps icon identifiers to their CSS class.
var iconClasses = map[string]string{
	IconTree:      "icon-tree",
	IconMap:       "icon-map",
	IconClipboard: "icon-clipboard",
	IconLeaf:      "icon-leaf",
	IconRuler:     "icon-ruler",
	IconShield:    "icon-shield",
}

// IconClass returns the CSS class for an icon identifier, falling back to
// the default icon for unrecognized names.
func IconClass(name string) string {
	if class, ok := iconClasses[name]; ok {
		return class
	}
	return iconClasses[IconDefault]
}

// ValidIcons returns the closed set of assignable icon identifiers.
func ValidIcons() []string {
	return []string{IconTree, IconMap, IconClipboard, IconLeaf, IconRuler, IconShield}
}

// Service represents one of the consultancy's service offerings.
// Published gates public display; Archived hides the row from the default
// admin listing tab. The two flags are orthogonal.
type Service struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Icon         string    `json:"icon"`
	Summary      string    `json:"summary"`
	Body         string    `json:"body"`
	DisplayOrder int64     `json:"display_order"`
	Published    bool      `json:"published"`
	Archived     bool      `json:"archived"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Rating bounds for testimonials.
const (
	RatingMin = 1
	RatingMax = 5
)

// Testimonial represents a client quote shown on the public site.
type Testimonial struct {
	ID           int64     `json:"id"`
	Author       string    `json:"author"`
	Role         string    `json:"role"`
	Quote        string    `json:"quote"`
	Rating       int64     `json:"rating"`
	DisplayOrder int64     `json:"display_order"`
	Published    bool      `json:"published"`
	Archived     bool      `json:"archived"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsValidRating reports whether r is within the allowed rating bounds.
func IsValidRating(r int64) bool {
	return r >= RatingMin && r <= RatingMax
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// HeroSlide represents one slide of the homepage carousel.
type HeroSlide struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	ImagePath    string    `json:"image_path"`
	ButtonLabel  string    `json:"button_label"`
	ButtonURL    string    `json:"button_url"`
	DisplayOrder int64     `json:"display_order"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

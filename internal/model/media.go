// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Image MIME types accepted for uploads.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// ImageVariantConfig describes one derived rendition of an uploaded image.
type ImageVariantConfig struct {
	Width   int
	Height  int
	Quality int
	Crop    bool
}

// Image variant names.
const (
	VariantThumbnail = "thumbnail"
	VariantLarge     = "large"
	VariantAvatar    = "avatar"
)

// ImageVariants lists the renditions created for gallery uploads. Avatars
// use VariantAvatar directly instead of the full set.
var ImageVariants = map[string]ImageVariantConfig{
	VariantThumbnail: {Width: 400, Height: 300, Quality: 80, Crop: true},
	VariantLarge:     {Width: 1600, Height: 1200, Quality: 85, Crop: false},
}

// AvatarVariant is the square rendition used for profile photos.
var AvatarVariant = ImageVariantConfig{Width: 200, Height: 200, Quality: 85, Crop: true}

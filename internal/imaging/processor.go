// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging stores uploaded photos and derives the renditions the
// site serves. Processing is pure Go: decoding goes through
// disintegration/imaging with the x/image WebP decoder registered, and
// EXIF orientation is read with goexif before the pixels are re-encoded.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/valforet/valforet-go/internal/model"
)

// originalsDir is the bucket under the upload root that holds full-size
// images. Renditions live in sibling buckets named after their variant.
const originalsDir = "originals"

// originalQuality is the JPEG quality used when re-encoding an upload.
const originalQuality = 95

// ProcessResult describes a stored original.
type ProcessResult struct {
	Width    int
	Height   int
	MimeType string
	Size     int64
	FilePath string
}

// VariantResult describes one stored rendition.
type VariantResult struct {
	Type     string
	Width    int
	Height   int
	Size     int64
	FilePath string
}

// Processor writes uploads and their renditions under a single root
// directory, one <bucket>/<uuid>/<filename> path per file.
type Processor struct {
	root string
}

// NewProcessor returns a Processor rooted at the given upload directory.
func NewProcessor(root string) *Processor {
	return &Processor{root: root}
}

// ProcessImage decodes an upload, straightens it according to its EXIF
// orientation and stores it under originals/<uuid>/. Re-encoding drops
// all EXIF metadata, so stored files carry no camera or location data.
func (p *Processor) ProcessImage(r io.Reader, fileUUID, filename string) (*ProcessResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	format, err := sniffFormat(data)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = straighten(img, bytes.NewReader(data))

	encoded, err := encode(img, format, originalQuality)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	path, err := p.store(filepath.Join(originalsDir, fileUUID), filename, encoded)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	return &ProcessResult{
		Width:    b.Dx(),
		Height:   b.Dy(),
		MimeType: mimeFor(format),
		Size:     int64(len(encoded)),
		FilePath: path,
	}, nil
}

// CreateVariant derives one rendition from a stored original. It returns
// (nil, nil) when the source already fits inside the target box and the
// variant does not crop, since upscaling would only waste bytes.
func (p *Processor) CreateVariant(sourcePath, fileUUID, filename string, cfg model.ImageVariantConfig, name string) (*VariantResult, error) {
	img, err := imaging.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}

	b := img.Bounds()
	if !cfg.Crop && b.Dx() <= cfg.Width && b.Dy() <= cfg.Height {
		return nil, nil
	}

	var out image.Image
	if cfg.Crop {
		out = imaging.Fill(img, cfg.Width, cfg.Height, imaging.Center, imaging.Lanczos)
	} else {
		out = imaging.Fit(img, cfg.Width, cfg.Height, imaging.Lanczos)
	}

	encoded, err := encode(out, formatFromExt(filename), cfg.Quality)
	if err != nil {
		return nil, fmt.Errorf("encoding %s rendition: %w", name, err)
	}

	path, err := p.store(filepath.Join(name, fileUUID), filename, encoded)
	if err != nil {
		return nil, err
	}

	ob := out.Bounds()
	return &VariantResult{
		Type:     name,
		Width:    ob.Dx(),
		Height:   ob.Dy(),
		Size:     int64(len(encoded)),
		FilePath: path,
	}, nil
}

// CreateAllVariants derives every gallery rendition from a stored
// original. A failed rendition does not stop the others; an error is
// returned only when none could be created.
func (p *Processor) CreateAllVariants(sourcePath, fileUUID, filename string) ([]*VariantResult, error) {
	var results []*VariantResult
	var failures []string

	for name, cfg := range model.ImageVariants {
		res, err := p.CreateVariant(sourcePath, fileUUID, filename, cfg, name)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if res != nil {
			results = append(results, res)
		}
	}

	if len(results) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("all renditions failed: %s", strings.Join(failures, "; "))
	}
	return results, nil
}

// DeleteMediaFiles removes the original and every rendition stored for
// the given UUID. Missing directories are not an error.
func (p *Processor) DeleteMediaFiles(fileUUID string) error {
	buckets := []string{originalsDir, model.VariantAvatar}
	for name := range model.ImageVariants {
		buckets = append(buckets, name)
	}
	for _, bucket := range buckets {
		dir := filepath.Join(p.root, bucket, fileUUID)
		if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s files: %w", bucket, err)
		}
	}
	return nil
}

// straighten applies the EXIF orientation found in the raw upload bytes.
// Images without a readable orientation tag pass through unchanged.
func straighten(img image.Image, raw io.Reader) image.Image {
	x, err := exif.Decode(raw)
	if err != nil {
		return img
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encode serializes an image in the given format. WebP uploads come back
// out as JPEG since no pure Go WebP encoder exists.
func encode(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sniffFormat identifies the image format from the file's leading bytes.
// TIFF is rejected outright: the resize library's TIFF path is affected
// by CVE-2023-36308 and the site has no use for TIFF uploads.
func sniffFormat(data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "tiff"):
		return "", fmt.Errorf("unsupported image format %q", contentType)
	case strings.Contains(contentType, "jpeg"):
		return "jpeg", nil
	case strings.Contains(contentType, "png"):
		return "png", nil
	case strings.Contains(contentType, "gif"):
		return "gif", nil
	case strings.Contains(contentType, "webp"):
		return "webp", nil
	}
	return "", fmt.Errorf("unsupported image format %q", contentType)
}

// formatFromExt maps a filename extension to an output format, defaulting
// to JPEG for anything unrecognized.
func formatFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		return "jpeg"
	}
}

func mimeFor(format string) string {
	switch format {
	case "jpeg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	case "webp":
		return model.MimeTypeWebP
	}
	return "application/octet-stream"
}

// store writes image bytes under root/subDir/filename. The filename and
// subdirectory are both validated against path traversal before anything
// touches the filesystem.
func (p *Processor) store(subDir, filename string, data []byte) (string, error) {
	name := filepath.Base(filename)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid filename %q", filename)
	}

	clean := filepath.Clean(subDir)
	if filepath.IsAbs(clean) || strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid storage path %q", subDir)
	}

	base, err := filepath.Abs(p.root)
	if err != nil {
		return "", fmt.Errorf("resolving upload root: %w", err)
	}
	dir := filepath.Join(base, clean)
	if rel, err := filepath.Rel(base, dir); err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("storage path %q escapes upload root", subDir)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

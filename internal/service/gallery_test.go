// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package service_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/service"
	"github.com/valforet/valforet-go/internal/store"
	"github.com/valforet/valforet-go/internal/testutil"
)

type galleryFixture struct {
	svc *service.GalleryService
	q   *store.Queries
	pid int64
}

func newGalleryFixture(t *testing.T) galleryFixture {
	t.Helper()
	db := testutil.TestDB(t)
	q := store.New(db)

	now := time.Now().UTC()
	p, err := q.CreateProject(context.Background(), store.CreateProjectParams{
		Title: "Reboisement du plateau", Slug: "reboisement-plateau",
		Category: "Forêt", Description: "Plantation de feuillus",
		Published: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	return galleryFixture{
		svc: service.NewGalleryService(db, t.TempDir(), testutil.SilentLogger()),
		q:   q,
		pid: p.ID,
	}
}

func galleryPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: 120, B: uint8(y * 8), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// galleryUpload round-trips content through a real multipart form so the
// service sees the same File/FileHeader pair the handler hands it.
func galleryUpload(t *testing.T, name string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("images", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	fh := form.File["images"][0]
	f, err := fh.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f, fh
}

func (f galleryFixture) upload(t *testing.T, name string) model.ProjectImage {
	t.Helper()
	file, header := galleryUpload(t, name, galleryPNG(t))
	img, err := f.svc.Upload(context.Background(), f.pid, file, header)
	require.NoError(t, err)
	return img
}

func (f galleryFixture) coverIDs(t *testing.T) []int64 {
	t.Helper()
	images, err := f.q.ListProjectImages(context.Background(), f.pid)
	require.NoError(t, err)
	var ids []int64
	for _, img := range images {
		if img.IsCover {
			ids = append(ids, img.ID)
		}
	}
	return ids
}

func TestGalleryUploadOrderingAndFirstCover(t *testing.T) {
	f := newGalleryFixture(t)

	first := f.upload(t, "chantier-1.png")
	second := f.upload(t, "chantier-2.png")
	third := f.upload(t, "chantier-3.png")

	assert.Equal(t, int64(0), first.DisplayOrder)
	assert.Equal(t, int64(1), second.DisplayOrder)
	assert.Equal(t, int64(2), third.DisplayOrder)

	// Only the image that landed in an empty gallery is the cover.
	assert.True(t, first.IsCover)
	assert.False(t, second.IsCover)
	assert.False(t, third.IsCover)

	cover, err := f.q.GetProjectCover(context.Background(), f.pid)
	require.NoError(t, err)
	assert.Equal(t, first.ID, cover.ID)
	assert.Equal(t, []int64{first.ID}, f.coverIDs(t))
}

func TestGallerySetCoverExclusive(t *testing.T) {
	f := newGalleryFixture(t)
	first := f.upload(t, "parcelle-a.png")
	second := f.upload(t, "parcelle-b.png")

	require.NoError(t, f.svc.SetCover(context.Background(), second.ID))

	// The previous flag is cleared in the same transaction.
	assert.Equal(t, []int64{second.ID}, f.coverIDs(t))

	require.NoError(t, f.svc.SetCover(context.Background(), first.ID))
	assert.Equal(t, []int64{first.ID}, f.coverIDs(t))
}

func TestGalleryDeleteReassignsCover(t *testing.T) {
	f := newGalleryFixture(t)
	ctx := context.Background()
	first := f.upload(t, "coupe-1.png")
	second := f.upload(t, "coupe-2.png")
	third := f.upload(t, "coupe-3.png")

	// Deleting a non-cover image leaves the cover alone.
	require.NoError(t, f.svc.Delete(ctx, third.ID))
	assert.Equal(t, []int64{first.ID}, f.coverIDs(t))

	// Deleting the cover promotes the first remaining image by order.
	require.NoError(t, f.svc.Delete(ctx, first.ID))
	assert.Equal(t, []int64{second.ID}, f.coverIDs(t))

	// Emptying the gallery is not an error.
	require.NoError(t, f.svc.Delete(ctx, second.ID))
	assert.Empty(t, f.coverIDs(t))
}

func TestGalleryUploadRejectsOversize(t *testing.T) {
	f := newGalleryFixture(t)

	header := &multipart.FileHeader{Filename: "drone.png", Size: service.MaxUploadSize + 1}
	_, err := f.svc.Upload(context.Background(), f.pid, nil, header)
	assert.ErrorIs(t, err, service.ErrUploadFailed)
}

func TestGalleryUploadRejectsBadFilename(t *testing.T) {
	f := newGalleryFixture(t)

	file, header := galleryUpload(t, "photo.png", galleryPNG(t))
	header.Filename = ".."
	_, err := f.svc.Upload(context.Background(), f.pid, file, header)
	assert.ErrorIs(t, err, service.ErrUploadFailed)
}

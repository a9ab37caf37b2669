// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valforet/valforet-go/internal/i18n"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/service"
	"github.com/valforet/valforet-go/internal/store"
	"github.com/valforet/valforet-go/internal/testutil"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(testutil.SilentLogger()); err != nil {
		panic(err)
	}
	m.Run()
}

type searchFixture struct {
	svc *service.SearchService
	q   *store.Queries
	uid int64
}

func newSearchFixture(t *testing.T) searchFixture {
	t.Helper()
	db := testutil.TestDB(t)
	q := store.New(db)

	now := time.Now().UTC()
	u, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email: "author@valforet.fr", PasswordHash: "x", Name: "Author",
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	return searchFixture{
		svc: service.NewSearchService(db, testutil.SilentLogger()),
		q:   q,
		uid: u.ID,
	}
}

func (f searchFixture) addArticle(t *testing.T, title, body string, published bool, age time.Duration) {
	t.Helper()
	created := time.Now().UTC().Add(-age)
	_, err := f.q.CreateArticle(context.Background(), store.CreateArticleParams{
		Title: title, Slug: fmt.Sprintf("a-%d", time.Now().UnixNano()),
		Category: "Conseils", Body: body, Published: published,
		AuthorID: f.uid, CreatedAt: created, UpdatedAt: created,
	})
	require.NoError(t, err)
}

func (f searchFixture) addProject(t *testing.T, title, description string, published bool) {
	t.Helper()
	now := time.Now().UTC()
	_, err := f.q.CreateProject(context.Background(), store.CreateProjectParams{
		Title: title, Slug: fmt.Sprintf("p-%d", time.Now().UnixNano()),
		Category: "Forêt", Description: description, Published: published,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
}

func TestSearch_ShortQueryPrompts(t *testing.T) {
	f := newSearchFixture(t)
	f.addArticle(t, "Châtaigniers", "body", true, 0)

	for _, q := range []string{"", " ", "c", " c "} {
		results, err := f.svc.Search(context.Background(), q, "fr")
		require.NoError(t, err)
		assert.True(t, results.Prompt, "query %q should prompt", q)
		assert.Empty(t, results.Articles)
		assert.Empty(t, results.Projects)
	}

	// Two characters is enough.
	results, err := f.svc.Search(context.Background(), "ch", "fr")
	require.NoError(t, err)
	assert.False(t, results.Prompt)
}

func TestSearch_AggregatesBothTypes(t *testing.T) {
	f := newSearchFixture(t)
	f.addArticle(t, "Gestion forestière durable", "<p>Le bois local.</p>", true, 3*24*time.Hour)
	f.addProject(t, "Inventaire forestier", "Parcelles en montagne", true)

	results, err := f.svc.Search(context.Background(), "forest", "fr")
	require.NoError(t, err)
	require.Len(t, results.Articles, 1)
	require.Len(t, results.Projects, 1)
	assert.Equal(t, model.SearchTypeArticle, results.Articles[0].Type)
	assert.Equal(t, model.SearchTypeProject, results.Projects[0].Type)
	assert.Equal(t, 2, results.Total())
	assert.False(t, results.Empty())
}

func TestSearch_ProjectClientAndLocation(t *testing.T) {
	f := newSearchFixture(t)
	now := time.Now().UTC()
	_, err := f.q.CreateProject(context.Background(), store.CreateProjectParams{
		Title: "Aménagement de parcelle", Slug: "amenagement-parcelle",
		Category: "Forêt", Description: "Plan simple de gestion",
		Client: "Michelin", Location: "Clermont-Ferrand",
		Published: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	// The client name matches even when no other field does.
	results, err := f.svc.Search(context.Background(), "Michelin", "fr")
	require.NoError(t, err)
	require.Len(t, results.Projects, 1)
	assert.Equal(t, "amenagement-parcelle", results.Projects[0].Slug)

	results, err = f.svc.Search(context.Background(), "Clermont", "fr")
	require.NoError(t, err)
	assert.Len(t, results.Projects, 1)
}

func TestSearch_PublishedOnly(t *testing.T) {
	f := newSearchFixture(t)
	f.addArticle(t, "Brouillon forestier", "draft", false, 0)
	f.addProject(t, "Projet forestier privé", "desc", false)

	results, err := f.svc.Search(context.Background(), "forestier", "fr")
	require.NoError(t, err)
	assert.True(t, results.Empty())
}

func TestSearch_CapsPerType(t *testing.T) {
	f := newSearchFixture(t)
	for i := 0; i < 8; i++ {
		f.addArticle(t, fmt.Sprintf("Article bois %d", i), "body", true, 0)
	}

	results, err := f.svc.Search(context.Background(), "bois", "fr")
	require.NoError(t, err)
	assert.Len(t, results.Articles, service.MaxResultsPerType)
}

func TestSearch_ExcerptStripsHTMLAndTruncates(t *testing.T) {
	f := newSearchFixture(t)
	body := "<h2>Chêne</h2><p>" + strings.Repeat("mot ", 60) + "</p>"
	f.addArticle(t, "Le chêne", body, true, 0)

	results, err := f.svc.Search(context.Background(), "chêne", "fr")
	require.NoError(t, err)
	require.Len(t, results.Articles, 1)

	excerpt := results.Articles[0].Excerpt
	assert.NotContains(t, excerpt, "<")
	assert.LessOrEqual(t, len([]rune(excerpt)), service.ExcerptLength+1) // +1 for the ellipsis
	assert.True(t, strings.HasSuffix(excerpt, "…"))
}

func TestSearch_FrenchRelativeDates(t *testing.T) {
	f := newSearchFixture(t)
	f.addArticle(t, "Sapins et épicéas", "body", true, 3*24*time.Hour)

	results, err := f.svc.Search(context.Background(), "sapins", "fr")
	require.NoError(t, err)
	require.Len(t, results.Articles, 1)
	assert.Equal(t, "il y a 3 jours", results.Articles[0].RelativeDate)
}

func TestSearch_WildcardsMatchLiterally(t *testing.T) {
	f := newSearchFixture(t)
	f.addArticle(t, "Taux de 100% garanti", "body", true, 0)
	f.addArticle(t, "Autre article", "body", true, 0)

	// A bare % must not match everything.
	results, err := f.svc.Search(context.Background(), "100%", "fr")
	require.NoError(t, err)
	require.Len(t, results.Articles, 1)
	assert.Equal(t, "Taux de 100% garanti", results.Articles[0].Title)
}

func TestStripHTMLTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Bonjour</p>", "Bonjour"},
		{"plain text", "plain text"},
		{"<div>a</div>  <span>b</span>", "a b"},
		{"&eacute;t&eacute;", "été"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, service.StripHTMLTags(tt.in))
	}
}

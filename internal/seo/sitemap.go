// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"time"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq is the sitemap changefreq hint for a URL.
type ChangeFreq string

const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL is a single url element of the sitemap document.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

type sitemapDoc struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapEntry carries the slug and last update of a published content
// row, the only two columns the sitemap needs.
type SitemapEntry struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapBuilder accumulates URL entries and serializes them as
// sitemap XML. Entries appear in insertion order.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{siteURL: siteURL}
}

func (b *SitemapBuilder) add(path string, freq ChangeFreq, priority string, lastMod time.Time) {
	url := SitemapURL{
		Loc:        b.siteURL + path,
		ChangeFreq: freq,
		Priority:   priority,
	}
	if !lastMod.IsZero() {
		url.LastMod = lastMod.Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddHomepage adds the site root at the highest priority.
func (b *SitemapBuilder) AddHomepage() {
	b.add("", ChangeFreqDaily, "1.0", time.Time{})
}

// AddStatic adds a fixed page such as the contact or listing pages.
func (b *SitemapBuilder) AddStatic(path string) {
	b.add(path, ChangeFreqMonthly, "0.5", time.Time{})
}

// AddService adds a service detail page.
func (b *SitemapBuilder) AddService(e SitemapEntry) {
	b.add("/services/"+e.Slug, ChangeFreqMonthly, "0.8", e.UpdatedAt)
}

// AddProject adds a project detail page.
func (b *SitemapBuilder) AddProject(e SitemapEntry) {
	b.add("/projets/"+e.Slug, ChangeFreqMonthly, "0.6", e.UpdatedAt)
}

// AddArticle adds a news article page.
func (b *SitemapBuilder) AddArticle(e SitemapEntry) {
	b.add("/actualites/"+e.Slug, ChangeFreqWeekly, "0.7", e.UpdatedAt)
}

// Build serializes the accumulated entries as an XML document with the
// standard header.
func (b *SitemapBuilder) Build() ([]byte, error) {
	body, err := xml.MarshalIndent(sitemapDoc{XMLNS: sitemapNamespace, URLs: b.urls}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

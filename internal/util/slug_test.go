// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gestion forestière durable", "gestion-forestiere-durable"},
		{"Étude d'impact — Forêt de Brocéliande", "etude-d-impact-foret-de-broceliande"},
		{"  Plantation   2026  ", "plantation-2026"},
		{"Déjà-un-slug", "deja-un-slug"},
		{"À l'orée du bois", "a-l-oree-du-bois"},
		{"___", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"a", "foret-2026", "gestion-durable", "x9"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "-debut", "fin-", "deux--tirets", "Majuscule", "forêt", "avec espace", "a_b"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}

func TestSlugifyOutputIsValid(t *testing.T) {
	titles := []string{
		"Reboisement après tempête",
		"PEFC & certification",
		"Comment ça marche ?",
	}
	for _, title := range titles {
		slug := Slugify(title)
		if slug == "" {
			t.Fatalf("Slugify(%q) produced an empty slug", title)
		}
		if !IsValidSlug(slug) {
			t.Errorf("Slugify(%q) = %q, which fails IsValidSlug", title, slug)
		}
	}
}

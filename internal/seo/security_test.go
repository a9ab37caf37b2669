// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
	"time"
)

func TestSecurityTxt(t *testing.T) {
	expires := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	got := SecurityTxt("mailto:securite@valforet.fr", expires)

	want := "Contact: mailto:securite@valforet.fr\n" +
		"Expires: 2027-06-01T00:00:00Z\n" +
		"Preferred-Languages: fr, en\n"
	if got != want {
		t.Errorf("SecurityTxt() = %q, want %q", got, want)
	}
}

func TestSecurityTxtDefaultExpiry(t *testing.T) {
	got := SecurityTxt("mailto:securite@valforet.fr", time.Time{})

	if !strings.Contains(got, "Expires: ") {
		t.Fatalf("missing Expires line:\n%s", got)
	}
	line := strings.Split(strings.Split(got, "Expires: ")[1], "\n")[0]
	parsed, err := time.Parse(time.RFC3339, line)
	if err != nil {
		t.Fatalf("Expires %q is not RFC 3339: %v", line, err)
	}
	if parsed.Before(time.Now().AddDate(0, 11, 0)) {
		t.Errorf("default expiry %v too close, want about a year out", parsed)
	}
}

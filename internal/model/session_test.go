// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestSessionLifecycle(t *testing.T) {
	s := Anonymous()
	if s.IdentityKnown || s.RolesKnown {
		t.Fatal("anonymous session must know nothing")
	}

	s = s.WithIdentity(7, "claire@valforet.fr")
	if !s.IdentityKnown {
		t.Error("identity should be known after WithIdentity")
	}
	if s.RolesKnown {
		t.Error("roles must not be known before WithRoles")
	}

	s = s.WithRoles([]string{RoleModerator})
	if !s.RolesKnown {
		t.Error("roles should be known after WithRoles")
	}

	s = s.SignOut()
	if s.IdentityKnown || s.RolesKnown || s.UserID != 0 || s.Email != "" || s.Roles != nil {
		t.Errorf("sign-out must clear identity, roles and email together, got %+v", s)
	}
}

func TestSessionIsAuthorized(t *testing.T) {
	tests := []struct {
		name     string
		session  Session
		required []string
		want     bool
	}{
		{"anonymous denied", Anonymous(), []string{RoleAdmin}, false},
		{"anonymous denied even with empty requirement", Anonymous(), nil, false},
		{
			"roles unknown never authorizes",
			Anonymous().WithIdentity(1, "a@b.fr"),
			[]string{RoleAdmin, RoleModerator},
			false,
		},
		{
			"empty requirement means any authenticated user",
			Anonymous().WithIdentity(1, "a@b.fr"),
			nil,
			true,
		},
		{
			"moderator passes elevated check",
			Anonymous().WithIdentity(1, "a@b.fr").WithRoles([]string{RoleModerator}),
			[]string{RoleAdmin, RoleModerator},
			true,
		},
		{
			"moderator fails admin-only check",
			Anonymous().WithIdentity(1, "a@b.fr").WithRoles([]string{RoleModerator}),
			[]string{RoleAdmin},
			false,
		},
		{
			"admin passes admin-only check",
			Anonymous().WithIdentity(1, "a@b.fr").WithRoles([]string{RoleAdmin}),
			[]string{RoleAdmin},
			true,
		},
		{
			"empty role set known is denied",
			Anonymous().WithIdentity(1, "a@b.fr").WithRoles(nil),
			[]string{RoleAdmin, RoleModerator},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.IsAuthorized(tt.required...); got != tt.want {
				t.Errorf("IsAuthorized(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}

func TestActivityActionIsValid(t *testing.T) {
	for _, a := range ActivityActions {
		if !a.IsValid() {
			t.Errorf("action %q should be valid", a)
		}
	}
	for _, a := range []ActivityAction{"", "service_created", "drop_tables", "LOGIN"} {
		if a.IsValid() {
			t.Errorf("action %q should not be valid", a)
		}
	}
}

func TestIconClassFallback(t *testing.T) {
	if got := IconClass(IconTree); got != "icon-tree" {
		t.Errorf("IconClass(tree) = %q", got)
	}
	if got := IconClass("sparkle-unknown"); got != IconClass(IconDefault) {
		t.Errorf("unknown icon should fall back to default, got %q", got)
	}
}

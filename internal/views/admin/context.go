// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package admin provides shared view models for the admin interface.
package admin

import (
	"strings"

	"github.com/valforet/valforet-go/internal/i18n"
	"github.com/valforet/valforet-go/internal/model"
)

// PageContext is the data layer every admin template receives alongside
// its page-specific payload.
type PageContext struct {
	Title       string
	User        UserInfo
	Session     model.Session
	Flash       string
	FlashType   string
	SiteName    string
	CurrentPath string
	Lang        string
}

// UserInfo is the signed-in user as shown in the admin header.
type UserInfo struct {
	ID         int64
	Name       string
	Email      string
	AvatarPath string
}

// T translates a key in the admin UI language.
func (pc *PageContext) T(key string, args ...any) string {
	return i18n.T(pc.Lang, key, args...)
}

// IsAdmin reports whether the signed-in user holds the admin role.
// False while the role set is unknown, so admin-only controls stay hidden.
func (pc *PageContext) IsAdmin() bool {
	return pc.Session.HasRole(model.RoleAdmin)
}

// IsActive reports whether path is the page being viewed, for marking the
// matching sidebar entry.
func (pc *PageContext) IsActive(path string) bool {
	return pc.CurrentPath == path
}

// HasPrefix reports whether the current path sits under prefix, for
// keeping a sidebar section open on its detail pages.
func (pc *PageContext) HasPrefix(prefix string) bool {
	return strings.HasPrefix(pc.CurrentPath, prefix)
}

// UserInitial returns the letter shown when the user has no avatar.
func (pc *PageContext) UserInitial() string {
	if pc.User.Name == "" {
		return "V"
	}
	return string([]rune(pc.User.Name)[0])
}

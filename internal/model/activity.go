// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// ActivityAction identifies an administrative action recorded in the
// activity log. The set is closed: unknown actions are rejected before
// anything is written.
type ActivityAction string

// The full set of recordable actions.
const (
	ActionLogin           ActivityAction = "login"
	ActionLogout          ActivityAction = "logout"
	ActionProfileUpdated  ActivityAction = "profile_updated"
	ActionPasswordChanged ActivityAction = "password_changed"
	ActionAvatarUpdated   ActivityAction = "avatar_updated"
	ActionAvatarRemoved   ActivityAction = "avatar_removed"
	ActionArticleCreated  ActivityAction = "article_created"
	ActionArticleUpdated  ActivityAction = "article_updated"
	ActionArticleDeleted  ActivityAction = "article_deleted"
	ActionProjectCreated  ActivityAction = "project_created"
	ActionProjectUpdated  ActivityAction = "project_updated"
	ActionProjectDeleted  ActivityAction = "project_deleted"
	ActionSlideCreated    ActivityAction = "slide_created"
	ActionSlideUpdated    ActivityAction = "slide_updated"
	ActionSlideDeleted    ActivityAction = "slide_deleted"
	ActionRoleChanged     ActivityAction = "role_changed"
)

// ActivityActions lists every recordable action, in display order for the
// activity viewer filter.
var ActivityActions = []ActivityAction{
	ActionLogin, ActionLogout,
	ActionProfileUpdated, ActionPasswordChanged,
	ActionAvatarUpdated, ActionAvatarRemoved,
	ActionArticleCreated, ActionArticleUpdated, ActionArticleDeleted,
	ActionProjectCreated, ActionProjectUpdated, ActionProjectDeleted,
	ActionSlideCreated, ActionSlideUpdated, ActionSlideDeleted,
	ActionRoleChanged,
}

// IsValid reports whether the action belongs to the closed set.
func (a ActivityAction) IsValid() bool {
	for _, v := range ActivityActions {
		if v == a {
			return true
		}
	}
	return false
}

// ActivityLog is one append-only entry of the admin activity trail.
// Entries are immutable once written; no update or delete operation on them
// exists anywhere in the system.
type ActivityLog struct {
	ID        int64
	UserID    sql.NullInt64
	Action    ActivityAction
	Metadata  string // JSON, shape depends on Action
	IPAddress string
	CreatedAt time.Time
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including User, Session, content entities and the activity log.
package model

import (
	"database/sql"
	"time"
)

// Elevated user roles. Admin is a strict superset of moderator for
// destructive operations.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// ValidRoles contains all assignable elevated roles.
var ValidRoles = []string{RoleAdmin, RoleModerator}

// IsValidRole reports whether role is an assignable elevated role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents an account able to sign in to the admin area.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Name         string       `json:"name"`
	AvatarPath   string       `json:"avatar_path,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the server-side session store and the keys
// under which the signed-in identity is kept.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys. Only the identity is persisted; roles are re-read from the
// database on every request so a role change takes effect immediately.
const (
	KeyUserID = "userID"
	KeyEmail  = "email"
)

// KeyLang stores the visitor's UI language preference.
const KeyLang = "lang"

// New creates a session manager backed by the sessions table. Outside
// development the cookie uses the __Host- prefix, which requires Secure
// and Path=/.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Path = "/"
	}
	return sm
}

// SetIdentity records the signed-in user in the session. Call after
// renewing the session token.
func SetIdentity(sm *scs.SessionManager, ctx context.Context, userID int64, email string) {
	sm.Put(ctx, KeyUserID, userID)
	sm.Put(ctx, KeyEmail, email)
}

// Identity returns the signed-in user recorded in the session, if any.
func Identity(sm *scs.SessionManager, ctx context.Context) (userID int64, email string, ok bool) {
	userID = sm.GetInt64(ctx, KeyUserID)
	if userID == 0 {
		return 0, "", false
	}
	return userID, sm.GetString(ctx, KeyEmail), true
}

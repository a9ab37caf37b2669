// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/valforet/valforet-go/internal/cache"
	"github.com/valforet/valforet-go/internal/i18n"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/session"
	"github.com/valforet/valforet-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for per-request data.
const (
	ContextKeyUser     ContextKey = "user"
	ContextKeySession  ContextKey = "session"
	ContextKeySiteName ContextKey = "site_name"
)

// LoginPath is where unauthenticated requests to the admin area are sent.
const LoginPath = "/connexion"

// Auth creates middleware that requires a signed-in session.
// Requests without one are redirected to the login page.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, _, ok := session.Identity(sm, r.Context()); !ok {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// loadUser resolves the session cookie to a user row and, when found,
// places the user and an identity-known session state in the request
// context. onStale decides what a cookie pointing at a deleted user does.
func loadUser(sm *scs.SessionManager, db *sql.DB, onStale func(http.ResponseWriter, *http.Request, http.Handler)) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _, ok := session.Identity(sm, r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				onStale(w, r, next)
				return
			}

			sess := model.Anonymous().WithIdentity(user.ID, user.Email)
			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			ctx = context.WithValue(ctx, ContextKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadUser is the admin-area variant: a cookie whose user no longer
// exists destroys the session and redirects to login. Use after Auth.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	return loadUser(sm, db, func(w http.ResponseWriter, r *http.Request, _ http.Handler) {
		_ = sm.Destroy(r.Context())
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	})
}

// OptionalLoadUser is the public-route variant: a stale or missing
// cookie continues anonymously instead of redirecting.
func OptionalLoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	return loadUser(sm, db, func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		next.ServeHTTP(w, r)
	})
}

// LoadRoles creates middleware that fetches the role set for the
// identity-known session. Roles are read from the database on every request,
// never from the cookie, so a revocation takes effect immediately.
//
// When the roles query fails the session stays roles-unknown: the gates
// downstream then neither render protected content nor redirect.
func LoadRoles(db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r)
			if !sess.IdentityKnown {
				next.ServeHTTP(w, r)
				return
			}

			roles, err := queries.GetUserRoles(r.Context(), sess.UserID)
			if err != nil {
				slog.Error("load user roles", "error", err, "user_id", sess.UserID)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess.WithRoles(roles))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the user loaded for this request, or nil on public
// requests with no signed-in visitor.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetSession returns the session state for the request. Anonymous when no
// user has been loaded.
func GetSession(r *http.Request) model.Session {
	sess, ok := r.Context().Value(ContextKeySession).(model.Session)
	if !ok {
		return model.Anonymous()
	}
	return sess
}

// GetUserID returns the signed-in user's ID, or 0 for anonymous requests.
// The zero value keeps it usable directly in log attributes.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// RequireRole creates middleware gating a route on the role set.
// With no arguments any signed-in user passes. An unauthenticated request is
// sent to login; an authenticated one lacking every required role is sent to
// the public home page with no error message.
//
// When roles could not be determined this request, the response is a retry
// page rather than either outcome: denying outright would bounce a valid
// admin on a transient query failure, and granting would show protected
// content to a user whose roles were never checked.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r)
			if !sess.IdentityKnown {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if len(roles) > 0 && !sess.RolesKnown {
				writeRetryPage(w)
				return
			}

			if !sess.IsAuthorized(roles...) {
				slog.Warn("access denied",
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", sess.UserID,
					"user_roles", sess.Roles,
					"required_roles", roles,
					"remote_addr", r.RemoteAddr,
				)
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireElevated gates a route on holding any elevated role.
// Shorthand for RequireRole(model.RoleAdmin, model.RoleModerator).
func RequireElevated() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin, model.RoleModerator)
}

// RequireAdmin gates a route on the admin role alone. Used for destructive
// routes where moderator is not sufficient.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}

// writeRetryPage responds when the role set could not be established.
func writeRetryPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Retry-After", "2")
	w.Header().Set("Refresh", "2")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8"><title>Chargement…</title></head><body><p>Chargement…</p></body></html>`))
}

// LoadSiteConfig creates middleware that loads the site name into context.
// If cacheManager is provided it is used for the lookup; otherwise the
// database is queried directly.
func LoadSiteConfig(db *sql.DB, cacheManager *cache.Manager) func(http.Handler) http.Handler {
	var queries *store.Queries
	if db != nil {
		queries = store.New(db)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			siteName := model.DefaultSiteName

			if cacheManager != nil {
				if name, err := cacheManager.Config.Get(r.Context(), model.ConfigKeySiteName); err == nil && name != "" {
					siteName = name
				}
			} else if queries != nil {
				if cfg, err := queries.GetConfig(r.Context(), model.ConfigKeySiteName); err == nil && cfg.Value != "" {
					siteName = cfg.Value
				}
			}

			ctx := context.WithValue(r.Context(), ContextKeySiteName, siteName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSiteName returns the site name loaded for the request, falling back
// to the default when the middleware did not run.
func GetSiteName(r *http.Request) string {
	if siteName, ok := r.Context().Value(ContextKeySiteName).(string); ok && siteName != "" {
		return siteName
	}
	return model.DefaultSiteName
}

// Lang returns the UI language for the request: the visitor's saved
// preference if any, else the best Accept-Language match, else French.
func Lang(sm *scs.SessionManager, r *http.Request) string {
	if sm != nil {
		if lang := sm.GetString(r.Context(), session.KeyLang); lang != "" && i18n.IsSupported(lang) {
			return lang
		}
	}
	if acceptLang := r.Header.Get("Accept-Language"); acceptLang != "" {
		if lang := i18n.MatchLanguage(acceptLang); lang != "" {
			return lang
		}
	}
	return i18n.DefaultLanguage
}

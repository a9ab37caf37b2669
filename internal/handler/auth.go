// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/mileusna/useragent"

	"github.com/valforet/valforet-go/internal/auth"
	"github.com/valforet/valforet-go/internal/geoip"
	"github.com/valforet/valforet-go/internal/i18n"
	"github.com/valforet/valforet-go/internal/middleware"
	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/service"
	"github.com/valforet/valforet-go/internal/session"
	"github.com/valforet/valforet-go/internal/store"
)

// AuthHandler handles the sign-in and sign-out routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	activity        *service.ActivityService
	loginProtection *middleware.LoginProtection
	geo             *geoip.Lookup
}

// NewAuthHandler creates a new AuthHandler. geo may be nil when no GeoIP
// database is configured.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, activity *service.ActivityService, lp *middleware.LoginProtection, geo *geoip.Lookup) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		activity:        activity,
		loginProtection: lp,
		geo:             geo,
	}
}

// LoginForm renders the sign-in page. Users already signed in are sent to
// the admin dashboard; the role gate beyond takes it from there.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.identity(r); ok {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}

	lang := middleware.GetLang(r)
	err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title:    i18n.T(lang, "auth.login"),
		Lang:     lang,
		SiteName: middleware.GetSiteName(r),
	})
	if err != nil {
		logAndInternalError(w, "rendering login page", "error", err)
	}
}

// Login handles the sign-in form submission. Invalid credentials and
// infrastructure failures surface as distinct localized messages; rate
// limiting and lockout count as the latter.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	if !parseFormOrRedirect(w, r, h.renderer, lang, redirectLogin) {
		return
	}

	email := formTrimmed(r, "email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.invalid_credentials"))
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			flashError(w, r, h.renderer, redirectLogin,
				i18n.T(lang, "auth.too_many_attempts", formatDuration(lang, remaining)))
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("login attempt for unknown account", "email", email)
		} else {
			slog.Error("database error during login", "error", err)
			flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.error"))
			return
		}
		// Unknown accounts go through the same failure path as wrong
		// passwords to prevent enumeration.
		h.failLogin(w, r, lang, email)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err, "user_id", user.ID)
		flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.error"))
		return
	}
	if !valid {
		slog.Debug("invalid password attempt", "email", email)
		h.failLogin(w, r, lang, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	// Re-hash if the stored hash uses outdated parameters.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now().UTC(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := h.queries.UpdateUserLastLogin(r.Context(), user.ID, time.Now().UTC()); err != nil {
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	// New session ID against fixation, then bind the identity.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	session.SetIdentity(h.sessionManager, r.Context(), user.ID, user.Email)

	slog.Info("user signed in", "user_id", user.ID, "email", user.Email)
	h.activity.RecordAsync(user.ID, model.ActionLogin, h.loginDetails(r), middleware.GetClientIP(r))

	http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
}

// Logout destroys the session and returns to the public site.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(r)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	if ok {
		slog.Info("user signed out", "user_id", userID)
		h.activity.RecordAsync(userID, model.ActionLogout, nil, middleware.GetClientIP(r))
	}

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// failLogin records a failed attempt and flashes the matching message:
// lockout wording once the attempt triggers a lock, invalid credentials
// otherwise.
func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, lang, email string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			flashError(w, r, h.renderer, redirectLogin,
				i18n.T(lang, "auth.too_many_attempts", formatDuration(lang, lockDuration)))
			return
		}
	}
	flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.invalid_credentials"))
}

// loginDetails gathers best-effort client context for the login entry.
func (h *AuthHandler) loginDetails(r *http.Request) service.LoginDetails {
	ua := useragent.Parse(r.UserAgent())
	details := service.LoginDetails{Browser: ua.Name, OS: ua.OS}
	if h.geo != nil && h.geo.IsEnabled() {
		details.Country = h.geo.LookupCountry(middleware.GetClientIP(r))
	}
	return details
}

// identity returns the signed-in user from the session, if any.
func (h *AuthHandler) identity(r *http.Request) (int64, string, bool) {
	return session.Identity(h.sessionManager, r.Context())
}

// formatDuration renders a lockout duration for the flash message.
func formatDuration(lang string, d time.Duration) string {
	if lang != "fr" {
		if d < time.Minute {
			return fmt.Sprintf("%d seconds", int(d.Seconds()))
		}
		if d < time.Hour {
			return fmt.Sprintf("%d minutes", int(d.Minutes()))
		}
		return fmt.Sprintf("%d hours", int(d.Hours()))
	}
	if d < time.Minute {
		return fmt.Sprintf("%d secondes", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	if d < 2*time.Hour {
		return "1 heure"
	}
	return fmt.Sprintf("%d heures", int(d.Hours()))
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/valforet/valforet-go/internal/i18n"
	"github.com/valforet/valforet-go/internal/session"
)

// ContextKeyLanguageCode holds the resolved UI language for the request.
const ContextKeyLanguageCode ContextKey = "language_code"

// Language creates middleware that resolves the UI language for every
// request. Priority order:
//  1. Query parameter ?lang=XX (explicit switch, saved to the session)
//  2. Session preference
//  3. Accept-Language header
//  4. French
func Language(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if queryLang := strings.ToLower(r.URL.Query().Get("lang")); queryLang != "" && i18n.IsSupported(queryLang) {
				sm.Put(r.Context(), session.KeyLang, queryLang)
				ctx := context.WithValue(r.Context(), ContextKeyLanguageCode, queryLang)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyLanguageCode, Lang(sm, r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLang returns the language resolved by the Language middleware,
// falling back to French when the middleware did not run.
func GetLang(r *http.Request) string {
	code, ok := r.Context().Value(ContextKeyLanguageCode).(string)
	if !ok || code == "" {
		return i18n.DefaultLanguage
	}
	return code
}

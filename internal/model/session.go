// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Session describes what is currently known about the requesting user.
//
// Identity and roles are established independently: the user row is loaded
// from the session cookie first, the role set from user_roles afterwards.
// A gate must therefore be able to distinguish "no elevated roles" from
// "roles not loaded yet" — the former denies, the latter must neither render
// protected content nor redirect.
type Session struct {
	UserID        int64
	Email         string
	IdentityKnown bool
	RolesKnown    bool
	Roles         []string
}

// Anonymous returns the initial session state: nobody signed in.
func Anonymous() Session {
	return Session{}
}

// WithIdentity transitions an anonymous session to identity-known.
// The role set is not known yet.
func (s Session) WithIdentity(userID int64, email string) Session {
	return Session{
		UserID:        userID,
		Email:         email,
		IdentityKnown: true,
	}
}

// WithRoles records the fetched role set on an identity-known session.
func (s Session) WithRoles(roles []string) Session {
	s.RolesKnown = true
	s.Roles = roles
	return s
}

// SignOut returns the session to the anonymous state. User ID, email and
// role set are cleared together; there is no intermediate state.
func (s Session) SignOut() Session {
	return Anonymous()
}

// HasRole reports whether the known role set contains role.
// Always false while roles are unknown.
func (s Session) HasRole(role string) bool {
	if !s.RolesKnown {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAuthorized reports whether the session may access a screen requiring one
// of the given roles. An empty required set means "any authenticated user".
// Returns false while the role set is still unknown, so protected content is
// never shown prematurely.
func (s Session) IsAuthorized(required ...string) bool {
	if !s.IdentityKnown {
		return false
	}
	if len(required) == 0 {
		return true
	}
	if !s.RolesKnown {
		return false
	}
	for _, want := range required {
		if s.HasRole(want) {
			return true
		}
	}
	return false
}

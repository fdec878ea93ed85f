// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request protection.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"newsdesk/internal/model"
	"newsdesk/internal/rbac"
	"newsdesk/internal/service"
)

// ContextKey is the type for request context keys set by this package.
type ContextKey string

// UserContextKey holds the authenticated *model.User.
const UserContextKey ContextKey = "user"

// SessionKeyUserID is the session key holding the logged-in user id.
const SessionKeyUserID = "user_id"

// Middleware bundles the dependencies the auth middleware needs.
type Middleware struct {
	sessions *scs.SessionManager
	users    *service.UserService
	events   *service.EventService
}

// New creates the middleware bundle.
func New(sessions *scs.SessionManager, users *service.UserService, events *service.EventService) *Middleware {
	return &Middleware{sessions: sessions, users: users, events: events}
}

// LoadUser resolves the session user and stores it in the request context.
// Requests without a valid session pass through anonymous; a stale session
// pointing at a deleted user is destroyed.
func (m *Middleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := m.sessions.GetInt64(r.Context(), SessionKeyUserID)
		if userID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.Get(r.Context(), userID)
		if err != nil {
			_ = m.sessions.Destroy(r.Context())
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous requests with 401.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUser(r) == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCapability rejects requests whose user lacks the capability. The
// denial is recorded in the event log.
func (m *Middleware) RequireCapability(c rbac.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			if !rbac.Can(user.Role, c) {
				slog.Warn("capability denied",
					"user_id", user.ID, "role", user.Role,
					"capability", string(c), "path", r.URL.Path)
				m.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
					"capability denied: "+string(c),
					sql.NullInt64{Int64: user.ID, Valid: true},
					map[string]any{"path": r.URL.Path, "role": user.Role})
				writeError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser returns the authenticated user, or nil for anonymous requests.
func GetUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(UserContextKey).(*model.User)
	return user
}

// writeError emits a minimal JSON error without depending on the handler
// packages, keeping the layering one-directional.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"newsdesk/internal/middleware"
	"newsdesk/internal/service"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	sessions   *scs.SessionManager
	users      *service.UserService
	protection *middleware.LoginProtection
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(sessions *scs.SessionManager, users *service.UserService, protection *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{sessions: sessions, users: users, protection: protection}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. The session token is rotated on
// success to prevent fixation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}

	// The lockout table must see the same key Authenticate matches on,
	// or varying the case of the address would evade it.
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if locked, remaining := h.protection.IsAccountLocked(email); locked {
		WriteError(w, http.StatusTooManyRequests, "account_locked",
			fmt.Sprintf("account locked, try again in %s", remaining.Round(time.Second)), nil)
		return
	}

	user, err := h.users.Authenticate(r.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.protection.RecordFailedAttempt(email)
			WriteUnauthorized(w, "invalid email or password")
			return
		}
		WriteServiceError(w, err)
		return
	}

	h.protection.RecordSuccessfulLogin(email)
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		WriteServiceError(w, err)
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	WriteSuccess(w, toUserResponse(user), nil)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteNoContent(w)
}

// Me handles GET /api/auth/me, returning the logged-in user and their
// capabilities.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "authentication required")
		return
	}
	WriteSuccess(w, toUserResponse(*user), nil)
}

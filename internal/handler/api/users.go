// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"newsdesk/internal/middleware"
	"newsdesk/internal/model"
	"newsdesk/internal/rbac"
	"newsdesk/internal/service"
)

// UserHandler serves the account management endpoints.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type userRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type userResponse struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Name         string     `json:"name"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Capabilities []string   `json:"capabilities"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

func toUserResponse(u model.User) userResponse {
	caps := rbac.Capabilities(u.Role)
	capStrings := make([]string, len(caps))
	for i, c := range caps {
		capStrings[i] = string(c)
	}
	resp := userResponse{
		ID:           u.ID,
		Email:        u.Email,
		Role:         u.Role,
		Name:         u.Name,
		AvatarURL:    u.AvatarURL,
		Capabilities: capStrings,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.LastLoginAt.Valid {
		t := u.LastLoginAt.Time
		resp.LastLoginAt = &t
	}
	return resp
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), middleware.GetUser(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	WriteSuccess(w, out, nil)
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid user id")
		return
	}
	actor := middleware.GetUser(r)
	if actor.ID != id && !rbac.Can(actor.Role, rbac.CapManageUsers) {
		WriteError(w, http.StatusForbidden, "forbidden", "insufficient permissions", nil)
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toUserResponse(user), nil)
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	user, err := h.users.Create(r.Context(), middleware.GetUser(r), service.UserInput(req))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, toUserResponse(user))
}

// Update handles PUT /api/users/{id}. Users may edit their own profile;
// editing anyone else's requires the edit-any-profile capability.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid user id")
		return
	}
	var req userRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	user, err := h.users.Update(r.Context(), middleware.GetUser(r), id, service.UserInput(req))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toUserResponse(user), nil)
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid user id")
		return
	}
	if err := h.users.Delete(r.Context(), middleware.GetUser(r), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteNoContent(w)
}

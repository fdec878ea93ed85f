// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application
// including User, Article, Category, Ad and event log structures.
package model

import (
	"database/sql"
	"time"
)

// User roles. Every user has exactly one role.
const (
	RoleAdmin       = "admin"
	RoleEditor      = "editor"
	RoleContributor = "contributor"
)

// ValidRoles contains all assignable user roles.
var ValidRoles = []string{RoleAdmin, RoleEditor, RoleContributor}

// IsValidRole reports whether role is one of the assignable roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleContributor:
		return true
	}
	return false
}

// User represents a CMS user.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Role         string       `json:"role"`
	Name         string       `json:"name"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsEditor returns true if the user has editor role.
func (u *User) IsEditor() bool {
	return u.Role == RoleEditor
}

// IsContributor returns true if the user has contributor role.
func (u *User) IsContributor() bool {
	return u.Role == RoleContributor
}

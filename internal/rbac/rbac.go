// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rbac implements the role capability matrix. Every privileged
// mutation in the service layer asks this package before touching storage,
// so permission rules live in exactly one place.
package rbac

import (
	"sort"

	"newsdesk/internal/model"
)

// Capability is a named permission checked before a privileged action.
type Capability string

// Capabilities known to the system.
const (
	CapDeleteArticle    Capability = "delete_article"
	CapPublish          Capability = "publish"
	CapEditAnyProfile   Capability = "edit_any_profile"
	CapSubmitForReview  Capability = "submit_for_review"
	CapManageUsers      Capability = "manage_users"
	CapManageCategories Capability = "manage_categories"
	CapManageAds        Capability = "manage_ads"
)

// matrix is the fixed role capability table. Unknown roles have no
// capabilities at all.
var matrix = map[string]map[Capability]bool{
	model.RoleAdmin: {
		CapDeleteArticle:    true,
		CapPublish:          true,
		CapEditAnyProfile:   true,
		CapSubmitForReview:  false,
		CapManageUsers:      true,
		CapManageCategories: true,
		CapManageAds:        true,
	},
	model.RoleEditor: {
		CapDeleteArticle:    false,
		CapPublish:          true,
		CapEditAnyProfile:   false,
		CapSubmitForReview:  false,
		CapManageUsers:      false,
		CapManageCategories: false,
		CapManageAds:        false,
	},
	model.RoleContributor: {
		CapDeleteArticle:    false,
		CapPublish:          false,
		CapEditAnyProfile:   false,
		CapSubmitForReview:  true,
		CapManageUsers:      false,
		CapManageCategories: false,
		CapManageAds:        false,
	},
}

// Can reports whether the given role holds the given capability.
// It is pure and deterministic: same inputs, same answer, no side effects.
func Can(role string, c Capability) bool {
	caps, ok := matrix[role]
	if !ok {
		return false
	}
	return caps[c]
}

// Capabilities returns the sorted list of capabilities held by role.
// Useful for introspection endpoints and logging.
func Capabilities(role string) []Capability {
	caps, ok := matrix[role]
	if !ok {
		return nil
	}
	var held []Capability
	for c, allowed := range caps {
		if allowed {
			held = append(held, c)
		}
	}
	sort.Slice(held, func(i, j int) bool { return held[i] < held[j] })
	return held
}

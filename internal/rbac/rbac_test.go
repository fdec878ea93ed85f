// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rbac

import (
	"sort"
	"testing"

	"newsdesk/internal/model"
)

// TestCanMatchesTable enumerates every role and capability combination
// against the fixed table.
func TestCanMatchesTable(t *testing.T) {
	tests := []struct {
		role string
		cap  Capability
		want bool
	}{
		{model.RoleAdmin, CapDeleteArticle, true},
		{model.RoleAdmin, CapPublish, true},
		{model.RoleAdmin, CapEditAnyProfile, true},
		{model.RoleAdmin, CapSubmitForReview, false},
		{model.RoleAdmin, CapManageUsers, true},
		{model.RoleAdmin, CapManageCategories, true},
		{model.RoleAdmin, CapManageAds, true},

		{model.RoleEditor, CapDeleteArticle, false},
		{model.RoleEditor, CapPublish, true},
		{model.RoleEditor, CapEditAnyProfile, false},
		{model.RoleEditor, CapSubmitForReview, false},
		{model.RoleEditor, CapManageUsers, false},
		{model.RoleEditor, CapManageCategories, false},
		{model.RoleEditor, CapManageAds, false},

		{model.RoleContributor, CapDeleteArticle, false},
		{model.RoleContributor, CapPublish, false},
		{model.RoleContributor, CapEditAnyProfile, false},
		{model.RoleContributor, CapSubmitForReview, true},
		{model.RoleContributor, CapManageUsers, false},
		{model.RoleContributor, CapManageCategories, false},
		{model.RoleContributor, CapManageAds, false},
	}

	for _, tt := range tests {
		if got := Can(tt.role, tt.cap); got != tt.want {
			t.Errorf("Can(%q, %q) = %v, want %v", tt.role, tt.cap, got, tt.want)
		}
	}
}

func TestCanUnknownRole(t *testing.T) {
	for _, c := range []Capability{CapDeleteArticle, CapPublish, CapManageUsers} {
		if Can("superuser", c) {
			t.Errorf("Can(superuser, %q) = true, want false", c)
		}
		if Can("", c) {
			t.Errorf("Can(\"\", %q) = true, want false", c)
		}
	}
}

func TestCanUnknownCapability(t *testing.T) {
	if Can(model.RoleAdmin, Capability("launch_missiles")) {
		t.Error("unknown capability granted to admin")
	}
}

func TestCapabilities(t *testing.T) {
	got := Capabilities(model.RoleContributor)
	if len(got) != 1 || got[0] != CapSubmitForReview {
		t.Errorf("Capabilities(contributor) = %v, want [%s]", got, CapSubmitForReview)
	}

	admin := Capabilities(model.RoleAdmin)
	if len(admin) != 6 {
		t.Errorf("Capabilities(admin) has %d entries, want 6", len(admin))
	}
	if !sort.SliceIsSorted(admin, func(i, j int) bool { return admin[i] < admin[j] }) {
		t.Error("Capabilities(admin) is not sorted")
	}

	if Capabilities("nobody") != nil {
		t.Error("Capabilities(unknown role) should be nil")
	}
}

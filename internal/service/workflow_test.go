// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"testing"

	"newsdesk/internal/model"
)

func TestNormalizeRequestedStatus(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		requested string
		want      string
	}{
		{"empty defaults to draft", model.RoleEditor, "", model.ArticleStatusDraft},
		{"contributor published downgrades", model.RoleContributor, model.ArticleStatusPublished, model.ArticleStatusSubmitted},
		{"contributor submitted passes", model.RoleContributor, model.ArticleStatusSubmitted, model.ArticleStatusSubmitted},
		{"editor published passes", model.RoleEditor, model.ArticleStatusPublished, model.ArticleStatusPublished},
		{"admin published passes", model.RoleAdmin, model.ArticleStatusPublished, model.ArticleStatusPublished},
		{"draft passes for anyone", model.RoleContributor, model.ArticleStatusDraft, model.ArticleStatusDraft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRequestedStatus(tt.role, tt.requested); got != tt.want {
				t.Errorf("NormalizeRequestedStatus(%q, %q) = %q, want %q", tt.role, tt.requested, got, tt.want)
			}
		})
	}
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		from    string
		to      string
		wantErr error
	}{
		{"contributor submits draft", model.RoleContributor, "draft", "submitted", nil},
		{"editor cannot submit", model.RoleEditor, "draft", "submitted", ErrForbidden},
		{"admin cannot submit", model.RoleAdmin, "draft", "submitted", ErrForbidden},
		{"contributor cannot resubmit submitted", model.RoleContributor, "submitted", "submitted", ErrInvalidTransition},

		{"editor publishes draft", model.RoleEditor, "draft", "published", nil},
		{"editor publishes submitted", model.RoleEditor, "submitted", "published", nil},
		{"admin publishes submitted", model.RoleAdmin, "submitted", "published", nil},
		{"contributor cannot publish", model.RoleContributor, "submitted", "published", ErrForbidden},
		{"republish is invalid", model.RoleEditor, "published", "published", ErrInvalidTransition},

		{"editor unpublishes", model.RoleEditor, "published", "draft", nil},
		{"admin unpublishes", model.RoleAdmin, "published", "draft", nil},
		{"contributor cannot unpublish", model.RoleContributor, "published", "draft", ErrForbidden},
		{"unpublish from draft is invalid", model.RoleAdmin, "draft", "draft", ErrInvalidTransition},
		{"unpublish from submitted is invalid", model.RoleEditor, "submitted", "draft", ErrInvalidTransition},

		{"unknown target status", model.RoleAdmin, "draft", "archived", ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkTransition(tt.role, tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkTransition(%q, %q, %q) = %v, want %v", tt.role, tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestCanEditArticle(t *testing.T) {
	admin := &model.User{ID: 1, Role: model.RoleAdmin}
	editor := &model.User{ID: 2, Role: model.RoleEditor}
	contributor := &model.User{ID: 3, Role: model.RoleContributor}

	tests := []struct {
		name    string
		actor   *model.User
		article *model.Article
		wantErr error
	}{
		{"admin edits anything", admin, &model.Article{AuthorID: 3, Status: "published"}, nil},
		{"editor edits own published", editor, &model.Article{AuthorID: 2, Status: "published"}, nil},
		{"editor cannot edit others", editor, &model.Article{AuthorID: 3, Status: "draft"}, ErrForbidden},
		{"contributor edits own draft", contributor, &model.Article{AuthorID: 3, Status: "draft"}, nil},
		{"contributor locked on submitted", contributor, &model.Article{AuthorID: 3, Status: "submitted"}, ErrLockedForEditing},
		{"contributor locked on published", contributor, &model.Article{AuthorID: 3, Status: "published"}, ErrLockedForEditing},
		{"contributor cannot edit others", contributor, &model.Article{AuthorID: 2, Status: "draft"}, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := canEditArticle(tt.actor, tt.article)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("canEditArticle() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

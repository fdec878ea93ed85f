// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"newsdesk/internal/model"
	"newsdesk/internal/rbac"
)

// NormalizeRequestedStatus clamps a save-time status request to what the
// actor's role may set. Contributors can never set published directly: a
// requested published status is downgraded to submitted. An empty request
// defaults to draft.
func NormalizeRequestedStatus(role, requested string) string {
	if requested == "" {
		return model.ArticleStatusDraft
	}
	if role == model.RoleContributor && requested == model.ArticleStatusPublished {
		return model.ArticleStatusSubmitted
	}
	return requested
}

// checkTransition validates a single workflow transition for the acting
// role. It returns nil when the transition is legal, ErrForbidden when the
// role lacks the capability, and ErrInvalidTransition when the capability
// is held but the article is not in a state the transition accepts.
func checkTransition(role, from, to string) error {
	switch to {
	case model.ArticleStatusSubmitted:
		if !rbac.Can(role, rbac.CapSubmitForReview) {
			return ErrForbidden
		}
		if from != model.ArticleStatusDraft {
			return ErrInvalidTransition
		}
	case model.ArticleStatusPublished:
		if !rbac.Can(role, rbac.CapPublish) {
			return ErrForbidden
		}
		if from != model.ArticleStatusDraft && from != model.ArticleStatusSubmitted {
			return ErrInvalidTransition
		}
	case model.ArticleStatusDraft:
		// Unpublish: published -> draft.
		if !rbac.Can(role, rbac.CapPublish) {
			return ErrForbidden
		}
		if from != model.ArticleStatusPublished {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}
	return nil
}

// canEditArticle reports whether the actor may edit the article at all.
// Admins edit anything; authors edit their own work, except contributors,
// whose articles lock once they leave draft.
func canEditArticle(actor *model.User, article *model.Article) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.ID != article.AuthorID {
		return ErrForbidden
	}
	if actor.IsContributor() && !article.IsDraft() {
		return ErrLockedForEditing
	}
	return nil
}

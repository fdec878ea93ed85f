// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Article workflow statuses.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusSubmitted = "submitted"
	ArticleStatusPublished = "published"
)

// ValidArticleStatuses contains all valid article statuses.
var ValidArticleStatuses = []string{ArticleStatusDraft, ArticleStatusSubmitted, ArticleStatusPublished}

// IsValidArticleStatus reports whether status is a known workflow status.
func IsValidArticleStatus(status string) bool {
	switch status {
	case ArticleStatusDraft, ArticleStatusSubmitted, ArticleStatusPublished:
		return true
	}
	return false
}

// Article body formats.
const (
	BodyFormatHTML     = "html"
	BodyFormatMarkdown = "markdown"
)

// Article represents a news article moving through the editorial workflow.
// CategoryName and the Author* fields are denormalized snapshots taken at
// save time; CategoryID is the authoritative category reference.
type Article struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Slug         string         `json:"slug"`
	Excerpt      string         `json:"excerpt"`
	Body         string         `json:"body"`
	BodyFormat   string         `json:"body_format"`
	CategoryID   int64          `json:"category_id"`
	CategoryName string         `json:"category_name"`
	ImageURL     string         `json:"image_url,omitempty"`
	VideoURL     sql.NullString `json:"video_url,omitempty"`
	AuthorID     int64          `json:"author_id"`
	AuthorName   string         `json:"author_name"`
	AuthorAvatar string         `json:"author_avatar,omitempty"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	PublishedAt  sql.NullTime   `json:"published_at,omitempty"`
}

// IsPublished returns true if the article is published.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// IsDraft returns true if the article is a draft.
func (a *Article) IsDraft() bool {
	return a.Status == ArticleStatusDraft
}

// IsSubmitted returns true if the article is awaiting review.
func (a *Article) IsSubmitted() bool {
	return a.Status == ArticleStatusSubmitted
}

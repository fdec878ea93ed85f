// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/model"
	"newsdesk/internal/rbac"
	"newsdesk/internal/store"
	"newsdesk/internal/util"
)

// MaxTitleLength bounds article titles.
const MaxTitleLength = 200

// ArticleService implements the editorial workflow over articles.
type ArticleService struct {
	queries *store.Queries
	events  *EventService
}

// NewArticleService creates an ArticleService.
func NewArticleService(db *sql.DB, events *EventService) *ArticleService {
	return &ArticleService{queries: store.New(db), events: events}
}

// ArticleInput holds the writable fields of an article.
type ArticleInput struct {
	Title      string
	Excerpt    string
	Body       string
	BodyFormat string
	CategoryID int64
	ImageURL   string
	VideoURL   string
	Status     string // requested status; normalized per the actor's role
}

func (s *ArticleService) validateInput(in *ArticleInput) ValidationError {
	ve := ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		ve["title"] = "title is required"
	} else if len(in.Title) > MaxTitleLength {
		ve["title"] = fmt.Sprintf("title must be at most %d characters", MaxTitleLength)
	}
	if strings.TrimSpace(in.Body) == "" {
		ve["body"] = "body is required"
	}
	if in.BodyFormat == "" {
		in.BodyFormat = model.BodyFormatHTML
	} else if in.BodyFormat != model.BodyFormatHTML && in.BodyFormat != model.BodyFormatMarkdown {
		ve["body_format"] = "body format must be html or markdown"
	}
	if in.CategoryID <= 0 {
		ve["category_id"] = "category is required"
	}
	if in.Status != "" && !model.IsValidArticleStatus(in.Status) {
		ve["status"] = "unknown status"
	}
	if len(ve) > 0 {
		return ve
	}
	return nil
}

// uniqueSlug derives a slug from title, suffixing a counter until it is
// unique among articles other than excludeID.
func (s *ArticleService) uniqueSlug(ctx context.Context, title string, excludeID int64) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "article"
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := s.queries.ArticleSlugExistsExcluding(ctx, slug, excludeID)
		if err != nil {
			return "", fmt.Errorf("checking slug uniqueness: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// Create stores a new article authored by actor. The requested status is
// normalized for the actor's role: a contributor asking for published gets
// submitted instead, without error.
func (s *ArticleService) Create(ctx context.Context, actor *model.User, in ArticleInput) (model.Article, error) {
	if ve := s.validateInput(&in); ve != nil {
		return model.Article{}, ve
	}

	category, err := s.queries.GetCategoryByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Article{}, ValidationError{"category_id": "unknown category"}
		}
		return model.Article{}, fmt.Errorf("loading category %d: %w", in.CategoryID, err)
	}

	status := NormalizeRequestedStatus(actor.Role, in.Status)
	if status != model.ArticleStatusDraft {
		if err := checkTransition(actor.Role, model.ArticleStatusDraft, status); err != nil {
			return model.Article{}, err
		}
	}

	slug, err := s.uniqueSlug(ctx, in.Title, 0)
	if err != nil {
		return model.Article{}, err
	}

	now := time.Now()
	publishedAt := sql.NullTime{}
	if status == model.ArticleStatusPublished {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	article, err := s.queries.CreateArticle(ctx, store.CreateArticleParams{
		Title:        strings.TrimSpace(in.Title),
		Slug:         slug,
		Excerpt:      in.Excerpt,
		Body:         in.Body,
		BodyFormat:   in.BodyFormat,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		ImageURL:     in.ImageURL,
		VideoURL:     nullString(in.VideoURL),
		AuthorID:     actor.ID,
		AuthorName:   actor.Name,
		AuthorAvatar: actor.AvatarURL,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
		PublishedAt:  publishedAt,
	})
	if err != nil {
		return model.Article{}, fmt.Errorf("creating article: %w", err)
	}

	s.events.LogInfo(ctx, model.EventCategoryArticle,
		fmt.Sprintf("article created: %s", article.Title),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"article_id": article.ID, "status": article.Status})

	return article, nil
}

// Update modifies an article's content. Admins may edit any article; other
// roles only their own, and a contributor's article locks once it leaves
// draft. A status change embedded in the input is validated as a workflow
// transition after role normalization.
func (s *ArticleService) Update(ctx context.Context, actor *model.User, id int64, in ArticleInput) (model.Article, error) {
	article, err := s.Get(ctx, id)
	if err != nil {
		return model.Article{}, err
	}
	if err := canEditArticle(actor, &article); err != nil {
		return model.Article{}, err
	}
	if ve := s.validateInput(&in); ve != nil {
		return model.Article{}, ve
	}

	category, err := s.queries.GetCategoryByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Article{}, ValidationError{"category_id": "unknown category"}
		}
		return model.Article{}, fmt.Errorf("loading category %d: %w", in.CategoryID, err)
	}

	status := article.Status
	if in.Status != "" {
		requested := NormalizeRequestedStatus(actor.Role, in.Status)
		if requested != article.Status {
			if err := checkTransition(actor.Role, article.Status, requested); err != nil {
				return model.Article{}, err
			}
			status = requested
		}
	}

	slug := article.Slug
	if in.Title != article.Title {
		slug, err = s.uniqueSlug(ctx, in.Title, article.ID)
		if err != nil {
			return model.Article{}, err
		}
	}

	now := time.Now()
	publishedAt := article.PublishedAt
	switch {
	case status == model.ArticleStatusPublished && !publishedAt.Valid:
		publishedAt = sql.NullTime{Time: now, Valid: true}
	case status != model.ArticleStatusPublished:
		publishedAt = sql.NullTime{}
	}

	updated, err := s.queries.UpdateArticle(ctx, store.UpdateArticleParams{
		ID:           article.ID,
		Title:        strings.TrimSpace(in.Title),
		Slug:         slug,
		Excerpt:      in.Excerpt,
		Body:         in.Body,
		BodyFormat:   in.BodyFormat,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		ImageURL:     in.ImageURL,
		VideoURL:     nullString(in.VideoURL),
		Status:       status,
		UpdatedAt:    now,
		PublishedAt:  publishedAt,
	})
	if err != nil {
		return model.Article{}, fmt.Errorf("updating article %d: %w", article.ID, err)
	}

	s.events.LogInfo(ctx, model.EventCategoryArticle,
		fmt.Sprintf("article updated: %s", updated.Title),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"article_id": updated.ID, "status": updated.Status})

	return updated, nil
}

// Submit moves a draft into review. The actor must be the article's author
// and hold the submit capability, which makes this a contributor-only
// operation on their own work.
func (s *ArticleService) Submit(ctx context.Context, actor *model.User, id int64) (model.Article, error) {
	article, err := s.Get(ctx, id)
	if err != nil {
		return model.Article{}, err
	}
	if actor.ID != article.AuthorID {
		return model.Article{}, ErrForbidden
	}
	if err := checkTransition(actor.Role, article.Status, model.ArticleStatusSubmitted); err != nil {
		return model.Article{}, err
	}
	return s.setStatus(ctx, actor, article, model.ArticleStatusSubmitted)
}

// Publish makes an article publicly visible. Drafts may be published
// directly by roles holding the publish capability.
func (s *ArticleService) Publish(ctx context.Context, actor *model.User, id int64) (model.Article, error) {
	article, err := s.Get(ctx, id)
	if err != nil {
		return model.Article{}, err
	}
	if err := checkTransition(actor.Role, article.Status, model.ArticleStatusPublished); err != nil {
		return model.Article{}, err
	}
	return s.setStatus(ctx, actor, article, model.ArticleStatusPublished)
}

// Unpublish retracts a published article back to draft.
func (s *ArticleService) Unpublish(ctx context.Context, actor *model.User, id int64) (model.Article, error) {
	article, err := s.Get(ctx, id)
	if err != nil {
		return model.Article{}, err
	}
	if err := checkTransition(actor.Role, article.Status, model.ArticleStatusDraft); err != nil {
		return model.Article{}, err
	}
	return s.setStatus(ctx, actor, article, model.ArticleStatusDraft)
}

func (s *ArticleService) setStatus(ctx context.Context, actor *model.User, article model.Article, status string) (model.Article, error) {
	now := time.Now()
	publishedAt := article.PublishedAt
	switch status {
	case model.ArticleStatusPublished:
		publishedAt = sql.NullTime{Time: now, Valid: true}
	case model.ArticleStatusDraft:
		publishedAt = sql.NullTime{}
	}

	updated, err := s.queries.UpdateArticleStatus(ctx, store.UpdateArticleStatusParams{
		ID:          article.ID,
		Status:      status,
		UpdatedAt:   now,
		PublishedAt: publishedAt,
	})
	if err != nil {
		return model.Article{}, fmt.Errorf("updating article %d status: %w", article.ID, err)
	}

	s.events.LogInfo(ctx, model.EventCategoryArticle,
		fmt.Sprintf("article %s: %s", status, updated.Title),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"article_id": updated.ID, "from": article.Status, "to": status})

	return updated, nil
}

// Delete removes an article. Only roles holding the delete capability may
// do this, regardless of authorship.
func (s *ArticleService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if !rbac.Can(actor.Role, rbac.CapDeleteArticle) {
		return ErrForbidden
	}
	article, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.queries.DeleteArticle(ctx, article.ID); err != nil {
		return fmt.Errorf("deleting article %d: %w", article.ID, err)
	}

	s.events.LogWarning(ctx, model.EventCategoryArticle,
		fmt.Sprintf("article deleted: %s", article.Title),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"article_id": article.ID})

	return nil
}

// Get returns an article by id.
func (s *ArticleService) Get(ctx context.Context, id int64) (model.Article, error) {
	article, err := s.queries.GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Article{}, ErrNotFound
		}
		return model.Article{}, fmt.Errorf("loading article %d: %w", id, err)
	}
	return article, nil
}

// GetPublishedBySlug returns a published article by slug, with the body
// rendered to sanitized HTML.
func (s *ArticleService) GetPublishedBySlug(ctx context.Context, slug string) (model.Article, error) {
	article, err := s.queries.GetPublishedArticleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Article{}, ErrNotFound
		}
		return model.Article{}, fmt.Errorf("loading article %q: %w", slug, err)
	}
	rendered, err := RenderBody(article.Body, article.BodyFormat)
	if err != nil {
		return model.Article{}, err
	}
	article.Body = rendered
	return article, nil
}

// List returns articles for the admin backend, most recently updated first.
// An empty status lists all articles.
func (s *ArticleService) List(ctx context.Context, status string, limit, offset int64) ([]model.Article, error) {
	if limit <= 0 {
		limit = 20
	}
	var (
		articles []model.Article
		err      error
	)
	if status == "" {
		articles, err = s.queries.ListArticles(ctx, store.ListArticlesParams{Limit: limit, Offset: offset})
	} else {
		if !model.IsValidArticleStatus(status) {
			return nil, ValidationError{"status": "unknown status"}
		}
		articles, err = s.queries.ListArticlesByStatus(ctx, store.ListArticlesByStatusParams{
			Status: status, Limit: limit, Offset: offset,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return articles, nil
}

// ListPublished returns published articles for the public site, most
// recently published first, with bodies rendered to sanitized HTML.
func (s *ArticleService) ListPublished(ctx context.Context, limit, offset int64) ([]model.Article, error) {
	if limit <= 0 {
		limit = 20
	}
	articles, err := s.queries.ListPublishedArticles(ctx, store.ListArticlesParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("listing published articles: %w", err)
	}
	for i := range articles {
		rendered, err := RenderBody(articles[i].Body, articles[i].BodyFormat)
		if err != nil {
			return nil, err
		}
		articles[i].Body = rendered
	}
	return articles, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

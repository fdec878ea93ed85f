// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"newsdesk/internal/model"
)

const articleColumns = `id, title, slug, excerpt, body, body_format, category_id, category_name,
	image_url, video_url, author_id, author_name, author_avatar, status, created_at, updated_at, published_at`

func scanArticleRow(row *sql.Row) (model.Article, error) {
	var a model.Article
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Body, &a.BodyFormat,
		&a.CategoryID, &a.CategoryName, &a.ImageURL, &a.VideoURL,
		&a.AuthorID, &a.AuthorName, &a.AuthorAvatar, &a.Status,
		&a.CreatedAt, &a.UpdatedAt, &a.PublishedAt)
	return a, err
}

func scanArticles(rows *sql.Rows) ([]model.Article, error) {
	defer func() { _ = rows.Close() }()

	var articles []model.Article
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Body, &a.BodyFormat,
			&a.CategoryID, &a.CategoryName, &a.ImageURL, &a.VideoURL,
			&a.AuthorID, &a.AuthorName, &a.AuthorAvatar, &a.Status,
			&a.CreatedAt, &a.UpdatedAt, &a.PublishedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// CreateArticleParams holds the fields for creating an article.
type CreateArticleParams struct {
	Title        string
	Slug         string
	Excerpt      string
	Body         string
	BodyFormat   string
	CategoryID   int64
	CategoryName string
	ImageURL     string
	VideoURL     sql.NullString
	AuthorID     int64
	AuthorName   string
	AuthorAvatar string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PublishedAt  sql.NullTime
}

// CreateArticle inserts a new article and returns the stored row.
func (q *Queries) CreateArticle(ctx context.Context, arg CreateArticleParams) (model.Article, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO articles (title, slug, excerpt, body, body_format, category_id, category_name,
			image_url, video_url, author_id, author_name, author_avatar, status,
			created_at, updated_at, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+articleColumns,
		arg.Title, arg.Slug, arg.Excerpt, arg.Body, arg.BodyFormat, arg.CategoryID, arg.CategoryName,
		arg.ImageURL, arg.VideoURL, arg.AuthorID, arg.AuthorName, arg.AuthorAvatar, arg.Status,
		arg.CreatedAt, arg.UpdatedAt, arg.PublishedAt)
	return scanArticleRow(row)
}

// GetArticleByID returns the article with the given id.
func (q *Queries) GetArticleByID(ctx context.Context, id int64) (model.Article, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	return scanArticleRow(row)
}

// GetPublishedArticleBySlug returns the published article with the given slug.
func (q *Queries) GetPublishedArticleBySlug(ctx context.Context, slug string) (model.Article, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = ? AND status = ?`,
		slug, model.ArticleStatusPublished)
	return scanArticleRow(row)
}

// ListArticlesParams holds pagination for article listings.
type ListArticlesParams struct {
	Limit  int64
	Offset int64
}

// ListArticles returns articles ordered by most recently updated.
func (q *Queries) ListArticles(ctx context.Context, arg ListArticlesParams) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles ORDER BY updated_at DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanArticles(rows)
}

// ListArticlesByStatusParams holds filters for status-scoped listings.
type ListArticlesByStatusParams struct {
	Status string
	Limit  int64
	Offset int64
}

// ListArticlesByStatus returns articles with the given status, most recently updated first.
func (q *Queries) ListArticlesByStatus(ctx context.Context, arg ListArticlesByStatusParams) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE status = ? ORDER BY updated_at DESC LIMIT ? OFFSET ?`,
		arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanArticles(rows)
}

// ListPublishedArticles returns published articles, most recently published first.
func (q *Queries) ListPublishedArticles(ctx context.Context, arg ListArticlesParams) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE status = ?
		 ORDER BY published_at DESC LIMIT ? OFFSET ?`,
		model.ArticleStatusPublished, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanArticles(rows)
}

// ListArticlesByCategoryID returns all articles referencing the given category.
func (q *Queries) ListArticlesByCategoryID(ctx context.Context, categoryID int64) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE category_id = ? ORDER BY updated_at DESC`,
		categoryID)
	if err != nil {
		return nil, err
	}
	return scanArticles(rows)
}

// CountArticles returns the total number of articles.
func (q *Queries) CountArticles(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n)
	return n, err
}

// CountArticlesByStatus returns the number of articles with the given status.
func (q *Queries) CountArticlesByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles WHERE status = ?`, status).Scan(&n)
	return n, err
}

// CountArticlesByCategoryID returns the number of articles referencing the given category.
func (q *Queries) CountArticlesByCategoryID(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE category_id = ?`, categoryID).Scan(&n)
	return n, err
}

// CountArticlesByAuthorID returns the number of articles authored by the given user.
func (q *Queries) CountArticlesByAuthorID(ctx context.Context, authorID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE author_id = ?`, authorID).Scan(&n)
	return n, err
}

// UpdateArticleParams holds the fields for updating article content.
type UpdateArticleParams struct {
	ID           int64
	Title        string
	Slug         string
	Excerpt      string
	Body         string
	BodyFormat   string
	CategoryID   int64
	CategoryName string
	ImageURL     string
	VideoURL     sql.NullString
	Status       string
	UpdatedAt    time.Time
	PublishedAt  sql.NullTime
}

// UpdateArticle updates an article row and returns the stored row.
func (q *Queries) UpdateArticle(ctx context.Context, arg UpdateArticleParams) (model.Article, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE articles
		SET title = ?, slug = ?, excerpt = ?, body = ?, body_format = ?,
			category_id = ?, category_name = ?, image_url = ?, video_url = ?,
			status = ?, updated_at = ?, published_at = ?
		WHERE id = ?
		RETURNING `+articleColumns,
		arg.Title, arg.Slug, arg.Excerpt, arg.Body, arg.BodyFormat,
		arg.CategoryID, arg.CategoryName, arg.ImageURL, arg.VideoURL,
		arg.Status, arg.UpdatedAt, arg.PublishedAt, arg.ID)
	return scanArticleRow(row)
}

// UpdateArticleStatusParams holds the fields for a workflow status transition.
type UpdateArticleStatusParams struct {
	ID          int64
	Status      string
	UpdatedAt   time.Time
	PublishedAt sql.NullTime
}

// UpdateArticleStatus performs a workflow status transition and returns the stored row.
func (q *Queries) UpdateArticleStatus(ctx context.Context, arg UpdateArticleStatusParams) (model.Article, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE articles SET status = ?, updated_at = ?, published_at = ? WHERE id = ?
		RETURNING `+articleColumns,
		arg.Status, arg.UpdatedAt, arg.PublishedAt, arg.ID)
	return scanArticleRow(row)
}

// DeleteArticle removes an article row.
func (q *Queries) DeleteArticle(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	return err
}

// ArticleSlugExistsExcluding reports whether another article already uses slug.
func (q *Queries) ArticleSlugExistsExcluding(ctx context.Context, slug string, id int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE slug = ? AND id != ?`, slug, id).Scan(&n)
	return n > 0, err
}

// RenameArticleCategorySnapshots updates the denormalized category_name on
// every article referencing categoryID. Returns the number of rows updated.
func (q *Queries) RenameArticleCategorySnapshots(ctx context.Context, categoryID int64, newName string, at time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE articles SET category_name = ?, updated_at = ? WHERE category_id = ?`,
		newName, at, categoryID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReassignArticlesCategory moves every article from one category to another,
// updating both the foreign key and the name snapshot. Returns the number of
// rows updated.
func (q *Queries) ReassignArticlesCategory(ctx context.Context, fromID, toID int64, toName string, at time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE articles SET category_id = ?, category_name = ?, updated_at = ? WHERE category_id = ?`,
		toID, toName, at, fromID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

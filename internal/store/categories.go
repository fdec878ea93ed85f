// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"newsdesk/internal/model"
)

const categoryColumns = "id, name, slug, created_at, updated_at"

func scanCategory(row *sql.Row) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateCategoryParams holds the fields for creating a category.
type CreateCategoryParams struct {
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateCategory inserts a new category and returns the stored row.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+categoryColumns,
		arg.Name, arg.Slug, arg.CreatedAt, arg.UpdatedAt)
	return scanCategory(row)
}

// GetCategoryByID returns the category with the given id.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

// GetCategoryByName returns the category with the given name.
func (q *Queries) GetCategoryByName(ctx context.Context, name string) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = ?`, name)
	return scanCategory(row)
}

// ListCategories returns all categories ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategoryParams holds the fields for updating a category.
type UpdateCategoryParams struct {
	ID        int64
	Name      string
	Slug      string
	UpdatedAt time.Time
}

// UpdateCategory updates a category row and returns the stored row.
func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE categories SET name = ?, slug = ?, updated_at = ? WHERE id = ?
		RETURNING `+categoryColumns,
		arg.Name, arg.Slug, arg.UpdatedAt, arg.ID)
	return scanCategory(row)
}

// DeleteCategory removes a category row.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return err
}

// CountCategories returns the total number of categories.
func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, err
}

// CategoryNameExistsExcluding reports whether another category already uses name.
func (q *Queries) CategoryNameExistsExcluding(ctx context.Context, name string, id int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE name = ? AND id != ?`, name, id).Scan(&n)
	return n > 0, err
}

// CategorySlugExistsExcluding reports whether another category already uses slug.
func (q *Queries) CategorySlugExistsExcluding(ctx context.Context, slug string, id int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE slug = ? AND id != ?`, slug, id).Scan(&n)
	return n > 0, err
}

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

// MaxCategoryNameLength bounds category names.
const MaxCategoryNameLength = 100

// CategoryService manages the category taxonomy. Renames and deletions
// cascade into article rows inside a single transaction.
type CategoryService struct {
	db      *sql.DB
	queries *store.Queries
	events  *EventService
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(db *sql.DB, events *EventService) *CategoryService {
	return &CategoryService{db: db, queries: store.New(db), events: events}
}

func (s *CategoryService) validateName(ctx context.Context, name string, excludeID int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{"name": "name is required"}
	}
	if len(name) > MaxCategoryNameLength {
		return ValidationError{"name": fmt.Sprintf("name must be at most %d characters", MaxCategoryNameLength)}
	}
	taken, err := s.queries.CategoryNameExistsExcluding(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("checking category name uniqueness: %w", err)
	}
	if taken {
		return ValidationError{"name": "a category with this name already exists"}
	}
	return nil
}

func (s *CategoryService) uniqueSlug(ctx context.Context, name string, excludeID int64) (string, error) {
	base := util.Slugify(name)
	if base == "" {
		base = "category"
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := s.queries.CategorySlugExistsExcluding(ctx, slug, excludeID)
		if err != nil {
			return "", fmt.Errorf("checking category slug uniqueness: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, actor *model.User, name string) (model.Category, error) {
	if !rbac.Can(actor.Role, rbac.CapManageCategories) {
		return model.Category{}, ErrForbidden
	}
	if err := s.validateName(ctx, name, 0); err != nil {
		return model.Category{}, err
	}
	slug, err := s.uniqueSlug(ctx, name, 0)
	if err != nil {
		return model.Category{}, err
	}

	now := time.Now()
	category, err := s.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Name:      strings.TrimSpace(name),
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Category{}, fmt.Errorf("creating category: %w", err)
	}

	s.events.LogInfo(ctx, model.EventCategoryCategory,
		fmt.Sprintf("category created: %s", category.Name),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"category_id": category.ID})

	return category, nil
}

// Rename changes a category's name and rewrites the denormalized name
// snapshot on every article referencing it. Both writes happen in one
// transaction: either the category and all its articles carry the new name,
// or nothing changes.
func (s *CategoryService) Rename(ctx context.Context, actor *model.User, id int64, newName string) (model.Category, int64, error) {
	if !rbac.Can(actor.Role, rbac.CapManageCategories) {
		return model.Category{}, 0, ErrForbidden
	}
	category, err := s.Get(ctx, id)
	if err != nil {
		return model.Category{}, 0, err
	}
	if err := s.validateName(ctx, newName, id); err != nil {
		return model.Category{}, 0, err
	}
	slug, err := s.uniqueSlug(ctx, newName, id)
	if err != nil {
		return model.Category{}, 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Category{}, 0, fmt.Errorf("beginning rename transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now()

	renamed, err := qtx.UpdateCategory(ctx, store.UpdateCategoryParams{
		ID:        category.ID,
		Name:      strings.TrimSpace(newName),
		Slug:      slug,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Category{}, 0, &CascadeError{CategoryID: category.ID, Err: err}
	}

	updated, err := qtx.RenameArticleCategorySnapshots(ctx, category.ID, renamed.Name, now)
	if err != nil {
		return model.Category{}, 0, &CascadeError{CategoryID: category.ID, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return model.Category{}, 0, &CascadeError{CategoryID: category.ID, Updated: updated, Err: err}
	}

	s.events.LogInfo(ctx, model.EventCategoryCategory,
		fmt.Sprintf("category renamed: %s -> %s", category.Name, renamed.Name),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"category_id": category.ID, "articles_updated": updated})

	return renamed, updated, nil
}

// Delete removes a category that no article references. When articles still
// point at it, Delete refuses with ErrHasDependents and leaves everything
// untouched; use ReassignAndDelete to move the articles first.
func (s *CategoryService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if !rbac.Can(actor.Role, rbac.CapManageCategories) {
		return ErrForbidden
	}
	category, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.queries.CountArticlesByCategoryID(ctx, category.ID)
	if err != nil {
		return fmt.Errorf("counting dependent articles: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("category %q has %d articles: %w", category.Name, count, ErrHasDependents)
	}

	if err := s.queries.DeleteCategory(ctx, category.ID); err != nil {
		return fmt.Errorf("deleting category %d: %w", category.ID, err)
	}

	s.events.LogWarning(ctx, model.EventCategoryCategory,
		fmt.Sprintf("category deleted: %s", category.Name),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"category_id": category.ID})

	return nil
}

// ReassignAndDelete moves every article from the category to target, then
// deletes the now-empty category. Reassignment and deletion happen in one
// transaction. Returns the number of articles moved.
func (s *CategoryService) ReassignAndDelete(ctx context.Context, actor *model.User, id, targetID int64) (int64, error) {
	if !rbac.Can(actor.Role, rbac.CapManageCategories) {
		return 0, ErrForbidden
	}
	if id == targetID {
		return 0, ValidationError{"target_id": "target must differ from the category being deleted"}
	}
	category, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	target, err := s.Get(ctx, targetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ValidationError{"target_id": "unknown target category"}
		}
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning reassign transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now()

	moved, err := qtx.ReassignArticlesCategory(ctx, category.ID, target.ID, target.Name, now)
	if err != nil {
		return 0, &CascadeError{CategoryID: category.ID, Err: err}
	}
	if err := qtx.DeleteCategory(ctx, category.ID); err != nil {
		return 0, &CascadeError{CategoryID: category.ID, Updated: moved, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return 0, &CascadeError{CategoryID: category.ID, Updated: moved, Err: err}
	}

	s.events.LogWarning(ctx, model.EventCategoryCategory,
		fmt.Sprintf("category deleted with reassignment: %s -> %s", category.Name, target.Name),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"category_id": category.ID, "target_id": target.ID, "articles_moved": moved})

	return moved, nil
}

// Get returns a category by id.
func (s *CategoryService) Get(ctx context.Context, id int64) (model.Category, error) {
	category, err := s.queries.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, fmt.Errorf("loading category %d: %w", id, err)
	}
	return category, nil
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

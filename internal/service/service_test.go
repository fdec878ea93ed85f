// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newsdesk/internal/auth"
	"newsdesk/internal/model"
	"newsdesk/internal/store"
	"newsdesk/internal/testutil"
	"newsdesk/internal/util"
)

// fixture wires the services against a temporary database with one user
// per role and two categories.
type fixture struct {
	db      *sql.DB
	queries *store.Queries

	articles   *ArticleService
	categories *CategoryService
	users      *UserService
	ads        *AdService

	admin       model.User
	editor      model.User
	contributor model.User

	politics model.Category
	sport    model.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	events := NewEventService(db)
	f := &fixture{
		db:         db,
		queries:    store.New(db),
		articles:   NewArticleService(db, events),
		categories: NewCategoryService(db, events),
		users:      NewUserService(db, events),
		ads:        NewAdService(db, events),
	}

	ctx := context.Background()
	f.admin = f.createUser(t, ctx, "admin@test.local", model.RoleAdmin, "Ada Admin")
	f.editor = f.createUser(t, ctx, "editor@test.local", model.RoleEditor, "Ed Editor")
	f.contributor = f.createUser(t, ctx, "writer@test.local", model.RoleContributor, "Cora Writer")

	f.politics = f.createCategory(t, ctx, "Politics")
	f.sport = f.createCategory(t, ctx, "Sport")

	return f
}

func (f *fixture) createUser(t *testing.T, ctx context.Context, email, role, name string) model.User {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse-battery")
	require.NoError(t, err)
	now := time.Now()
	user, err := f.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) createCategory(t *testing.T, ctx context.Context, name string) model.Category {
	t.Helper()
	now := time.Now()
	category, err := f.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Name:      name,
		Slug:      util.Slugify(name),
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return category
}

// createArticle stores an article through the service as the given actor.
func (f *fixture) createArticle(t *testing.T, ctx context.Context, actor *model.User, title string, categoryID int64, status string) model.Article {
	t.Helper()
	article, err := f.articles.Create(ctx, actor, ArticleInput{
		Title:      title,
		Body:       "<p>Body text.</p>",
		CategoryID: categoryID,
		Status:     status,
	})
	require.NoError(t, err)
	return article
}

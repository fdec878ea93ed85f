// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"newsdesk/internal/model"
	"newsdesk/internal/store"
	"newsdesk/internal/testutil"
)

type storeFixture struct {
	db      *sql.DB
	queries *store.Queries

	author   model.User
	politics model.Category
	sport    model.Category
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	f := &storeFixture{db: db, queries: store.New(db)}
	ctx := context.Background()
	now := time.Now()

	var err error
	f.author, err = f.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        "author@test.local",
		PasswordHash: "x",
		Role:         model.RoleEditor,
		Name:         "Author",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("creating author: %v", err)
	}

	f.politics = f.mustCreateCategory(t, ctx, "Politics", "politics")
	f.sport = f.mustCreateCategory(t, ctx, "Sport", "sport")
	return f
}

func (f *storeFixture) mustCreateCategory(t *testing.T, ctx context.Context, name, slug string) model.Category {
	t.Helper()
	now := time.Now()
	c, err := f.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Name: name, Slug: slug, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("creating category %q: %v", name, err)
	}
	return c
}

func (f *storeFixture) mustCreateArticle(t *testing.T, ctx context.Context, title, slug string, category model.Category) model.Article {
	t.Helper()
	now := time.Now()
	a, err := f.queries.CreateArticle(ctx, store.CreateArticleParams{
		Title:        title,
		Slug:         slug,
		Body:         "<p>body</p>",
		BodyFormat:   model.BodyFormatHTML,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		AuthorID:     f.author.ID,
		AuthorName:   f.author.Name,
		Status:       model.ArticleStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("creating article %q: %v", title, err)
	}
	return a
}

func TestArticleRoundTrip(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	created := f.mustCreateArticle(t, ctx, "First", "first", f.politics)
	if created.ID == 0 {
		t.Fatal("RETURNING did not produce an id")
	}
	if created.CategoryName != "Politics" {
		t.Errorf("category name snapshot = %q", created.CategoryName)
	}

	got, err := f.queries.GetArticleByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if got.Title != "First" || got.Status != model.ArticleStatusDraft {
		t.Errorf("stored article = %+v", got)
	}

	_, err = f.queries.GetArticleByID(ctx, 9999)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing article error = %v, want sql.ErrNoRows", err)
	}
}

func TestGetPublishedArticleBySlugIgnoresDrafts(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	draft := f.mustCreateArticle(t, ctx, "Hidden", "hidden", f.politics)

	if _, err := f.queries.GetPublishedArticleBySlug(ctx, "hidden"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("draft visible by slug: %v", err)
	}

	now := time.Now()
	_, err := f.queries.UpdateArticleStatus(ctx, store.UpdateArticleStatusParams{
		ID:          draft.ID,
		Status:      model.ArticleStatusPublished,
		UpdatedAt:   now,
		PublishedAt: sql.NullTime{Time: now, Valid: true},
	})
	if err != nil {
		t.Fatalf("UpdateArticleStatus: %v", err)
	}

	got, err := f.queries.GetPublishedArticleBySlug(ctx, "hidden")
	if err != nil {
		t.Fatalf("GetPublishedArticleBySlug: %v", err)
	}
	if !got.PublishedAt.Valid {
		t.Error("published_at not stored")
	}
}

func TestRenameArticleCategorySnapshots(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	for _, slug := range []string{"s-one", "s-two", "s-three"} {
		f.mustCreateArticle(t, ctx, "Sport piece", slug, f.sport)
	}
	f.mustCreateArticle(t, ctx, "Politics piece", "p-one", f.politics)

	n, err := f.queries.RenameArticleCategorySnapshots(ctx, f.sport.ID, "Sports Desk", time.Now())
	if err != nil {
		t.Fatalf("RenameArticleCategorySnapshots: %v", err)
	}
	if n != 3 {
		t.Errorf("rows updated = %d, want 3", n)
	}

	articles, err := f.queries.ListArticlesByCategoryID(ctx, f.sport.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range articles {
		if a.CategoryName != "Sports Desk" {
			t.Errorf("article %d snapshot = %q", a.ID, a.CategoryName)
		}
	}

	untouched, err := f.queries.ListArticlesByCategoryID(ctx, f.politics.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(untouched) != 1 || untouched[0].CategoryName != "Politics" {
		t.Errorf("politics article touched by sport rename: %+v", untouched)
	}
}

func TestReassignArticlesCategory(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	f.mustCreateArticle(t, ctx, "A", "a", f.sport)
	f.mustCreateArticle(t, ctx, "B", "b", f.sport)

	n, err := f.queries.ReassignArticlesCategory(ctx, f.sport.ID, f.politics.ID, f.politics.Name, time.Now())
	if err != nil {
		t.Fatalf("ReassignArticlesCategory: %v", err)
	}
	if n != 2 {
		t.Errorf("rows updated = %d, want 2", n)
	}

	remaining, err := f.queries.CountArticlesByCategoryID(ctx, f.sport.ID)
	if err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Errorf("%d articles still reference the source category", remaining)
	}

	moved, err := f.queries.ListArticlesByCategoryID(ctx, f.politics.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range moved {
		if a.CategoryName != "Politics" {
			t.Errorf("moved article snapshot = %q", a.CategoryName)
		}
	}
}

// TestCascadeRollsBackWithTx verifies that a rename inside an aborted
// transaction leaves no partial updates behind.
func TestCascadeRollsBackWithTx(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	f.mustCreateArticle(t, ctx, "Kept", "kept", f.sport)

	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	qtx := f.queries.WithTx(tx)

	if _, err := qtx.UpdateCategory(ctx, store.UpdateCategoryParams{
		ID: f.sport.ID, Name: "Renamed", Slug: "renamed", UpdatedAt: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := qtx.RenameArticleCategorySnapshots(ctx, f.sport.ID, "Renamed", time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatal(err)
	}

	category, err := f.queries.GetCategoryByID(ctx, f.sport.ID)
	if err != nil {
		t.Fatal(err)
	}
	if category.Name != "Sport" {
		t.Errorf("category name after rollback = %q", category.Name)
	}

	articles, err := f.queries.ListArticlesByCategoryID(ctx, f.sport.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 1 || articles[0].CategoryName != "Sport" {
		t.Errorf("article snapshot after rollback = %+v", articles)
	}
}

func TestArticleSlugExistsExcluding(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	a := f.mustCreateArticle(t, ctx, "Taken", "taken", f.politics)

	exists, err := f.queries.ArticleSlugExistsExcluding(ctx, "taken", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("existing slug not reported")
	}

	// The owning row itself is excluded so updates can keep their slug.
	exists, err = f.queries.ArticleSlugExistsExcluding(ctx, "taken", a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("slug reported taken by its own article")
	}
}

func TestDeleteEventsBefore(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -120)
	recent := time.Now()

	for _, at := range []time.Time{old, old, recent} {
		_, err := f.queries.CreateEvent(ctx, store.CreateEventParams{
			Level:     model.EventLevelInfo,
			Category:  model.EventCategorySystem,
			Message:   "entry",
			Metadata:  "{}",
			CreatedAt: at,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	n, err := f.queries.DeleteEventsBefore(ctx, time.Now().AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d events, want 2", n)
	}

	total, err := f.queries.CountEvents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("%d events remain, want 1", total)
	}
}

func TestUserEmailExistsExcluding(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	exists, err := f.queries.UserEmailExistsExcluding(ctx, "author@test.local", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("existing email not reported")
	}

	exists, err = f.queries.UserEmailExistsExcluding(ctx, "author@test.local", f.author.ID)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("email reported taken by its own user")
	}
}

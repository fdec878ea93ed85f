// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newsdesk/internal/auth"
	"newsdesk/internal/model"
	"newsdesk/internal/util"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates the default admin user if no users exist yet.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAdminPassword,
	)

	return nil
}

// SeedDemo creates demo content (users, categories, articles, ads) when
// enabled. It is idempotent: a second run against a seeded database does
// nothing.
func SeedDemo(ctx context.Context, db *sql.DB, enabled bool) error {
	if !enabled {
		return nil
	}

	queries := New(db)

	count, err := queries.CountCategories(ctx)
	if err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if count > 0 {
		slog.Info("demo content already present, skipping demo seed")
		return nil
	}

	now := time.Now()

	demoUsers := []struct {
		email, name, role string
	}{
		{"editor@example.com", "Evelyn Marsh", model.RoleEditor},
		{"contributor@example.com", "Theo Reyes", model.RoleContributor},
	}

	users := make(map[string]model.User)
	for _, du := range demoUsers {
		hash, err := auth.HashPassword(DefaultAdminPassword)
		if err != nil {
			return fmt.Errorf("hashing demo password: %w", err)
		}
		u, err := queries.CreateUser(ctx, CreateUserParams{
			Email:        du.email,
			PasswordHash: hash,
			Role:         du.role,
			Name:         du.name,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("creating demo user %s: %w", du.email, err)
		}
		users[du.role] = u
	}

	categoryNames := []string{"Politics", "Business", "Sport", "Culture"}
	categories := make(map[string]model.Category)
	for _, name := range categoryNames {
		c, err := queries.CreateCategory(ctx, CreateCategoryParams{
			Name:      name,
			Slug:      util.Slugify(name),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("creating demo category %s: %w", name, err)
		}
		categories[name] = c
	}

	editor := users[model.RoleEditor]
	demoArticles := []struct {
		title, category, status string
	}{
		{"Council Approves New Transit Plan", "Politics", model.ArticleStatusPublished},
		{"Local Startup Raises Series A", "Business", model.ArticleStatusPublished},
		{"Derby Ends in Late Drama", "Sport", model.ArticleStatusSubmitted},
		{"Gallery Season Opens Downtown", "Culture", model.ArticleStatusDraft},
	}
	for _, da := range demoArticles {
		cat := categories[da.category]
		published := sql.NullTime{}
		if da.status == model.ArticleStatusPublished {
			published = sql.NullTime{Time: now, Valid: true}
		}
		if _, err := queries.CreateArticle(ctx, CreateArticleParams{
			Title:        da.title,
			Slug:         util.Slugify(da.title),
			Excerpt:      "Demo article seeded for local development.",
			Body:         "<p>Demo article body.</p>",
			BodyFormat:   model.BodyFormatHTML,
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			AuthorID:     editor.ID,
			AuthorName:   editor.Name,
			Status:       da.status,
			CreatedAt:    now,
			UpdatedAt:    now,
			PublishedAt:  published,
		}); err != nil {
			return fmt.Errorf("creating demo article %q: %w", da.title, err)
		}
	}

	if _, err := queries.CreateAd(ctx, CreateAdParams{
		Title:     "House Ad",
		Location:  model.AdLocationHeaderLeaderboard,
		Type:      model.AdTypeImage,
		Content:   "/uploads/house-ad.png",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("creating demo ad: %w", err)
	}

	slog.Info("demo content seeded",
		"users", len(demoUsers),
		"categories", len(categoryNames),
		"articles", len(demoArticles),
	)

	return nil
}

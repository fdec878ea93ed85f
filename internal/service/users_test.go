// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/model"
)

func TestCreateUserRequiresManageUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := UserInput{
		Email:    "new@test.local",
		Password: "a-long-password",
		Role:     model.RoleContributor,
		Name:     "New Writer",
	}

	for _, actor := range []*model.User{&f.editor, &f.contributor} {
		_, err := f.users.Create(ctx, actor, input)
		assert.ErrorIs(t, err, ErrForbidden, "role %s must not create users", actor.Role)
	}

	user, err := f.users.Create(ctx, &f.admin, input)
	require.NoError(t, err)
	assert.Equal(t, "new@test.local", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestUserCannotPromoteSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Update(ctx, &f.contributor, f.contributor.ID, UserInput{
		Email: f.contributor.Email,
		Role:  model.RoleAdmin,
		Name:  f.contributor.Name,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	// Same fields without the role change are a legal self-edit.
	updated, err := f.users.Update(ctx, &f.contributor, f.contributor.ID, UserInput{
		Email: f.contributor.Email,
		Role:  f.contributor.Role,
		Name:  "Cora W. Writer",
	})
	require.NoError(t, err)
	assert.Equal(t, "Cora W. Writer", updated.Name)
}

func TestEditAnyProfileIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Update(ctx, &f.editor, f.contributor.ID, UserInput{
		Email: f.contributor.Email,
		Role:  f.contributor.Role,
		Name:  "Hijacked",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := f.users.Update(ctx, &f.admin, f.contributor.ID, UserInput{
		Email: f.contributor.Email,
		Role:  f.contributor.Role,
		Name:  "Renamed By Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed By Admin", updated.Name)
}

func TestDeleteUserGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Self-deletion refused.
	err := f.users.Delete(ctx, &f.admin, f.admin.ID)
	var ve ValidationError
	require.ErrorAs(t, err, &ve)

	// Last admin cannot be removed by a second hypothetical path: create a
	// second admin, delete the first, then the survivor is protected.
	second, err := f.users.Create(ctx, &f.admin, UserInput{
		Email:    "admin2@test.local",
		Password: "a-long-password",
		Role:     model.RoleAdmin,
		Name:     "Backup Admin",
	})
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, &second, f.admin.ID))

	err = f.users.Delete(ctx, &f.editor, second.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// second is now the last admin; no admin may remove them (self-delete
	// is already refused, and there is no other admin left).
	_, err = f.users.Get(ctx, second.ID)
	assert.NoError(t, err)
}

func TestDeleteUserWithArticlesRefused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	article := f.createArticle(t, ctx, &f.contributor, "Bylined Piece", f.politics.ID, "")

	err := f.users.Delete(ctx, &f.admin, f.contributor.ID)
	assert.ErrorIs(t, err, ErrHasDependents)

	// Author and article both survive the refused delete.
	_, err = f.users.Get(ctx, f.contributor.ID)
	assert.NoError(t, err)
	_, err = f.articles.Get(ctx, article.ID)
	assert.NoError(t, err)

	// Once the article is gone the account can be removed.
	require.NoError(t, f.articles.Delete(ctx, &f.admin, article.ID))
	require.NoError(t, f.users.Delete(ctx, &f.admin, f.contributor.ID))
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Authenticate(ctx, "writer@test.local", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, f.contributor.ID, user.ID)

	_, err = f.users.Authenticate(ctx, "writer@test.local", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.users.Authenticate(ctx, "ghost@test.local", "whatever-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Email comparison is case-insensitive.
	_, err = f.users.Authenticate(ctx, "WRITER@test.local", "correct-horse-battery")
	assert.NoError(t, err)
}

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ve ValidationError

	_, err := f.users.Create(ctx, &f.admin, UserInput{
		Email: "not-an-email", Password: "a-long-password", Role: model.RoleEditor, Name: "X",
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "email")

	_, err = f.users.Create(ctx, &f.admin, UserInput{
		Email: "ok@test.local", Password: "short", Role: model.RoleEditor, Name: "X",
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "password")

	_, err = f.users.Create(ctx, &f.admin, UserInput{
		Email: "ok@test.local", Password: "a-long-password", Role: "owner", Name: "X",
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "role")

	// Duplicate email.
	_, err = f.users.Create(ctx, &f.admin, UserInput{
		Email: f.editor.Email, Password: "a-long-password", Role: model.RoleEditor, Name: "Dup",
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "email")
}

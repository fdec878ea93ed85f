// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"newsdesk/internal/auth"
	"newsdesk/internal/model"
	"newsdesk/internal/rbac"
	"newsdesk/internal/store"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ErrInvalidCredentials is returned by Authenticate for a bad email or
// password. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService manages accounts and authentication.
type UserService struct {
	queries *store.Queries
	events  *EventService
}

// NewUserService creates a UserService.
func NewUserService(db *sql.DB, events *EventService) *UserService {
	return &UserService{queries: store.New(db), events: events}
}

// UserInput holds the writable fields of a user account.
type UserInput struct {
	Email     string
	Password  string // empty on update keeps the current password
	Role      string
	Name      string
	AvatarURL string
}

func validateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *UserService) validateInput(ctx context.Context, in *UserInput, excludeID int64, passwordRequired bool) error {
	ve := ValidationError{}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if !validateEmail(in.Email) {
		ve["email"] = "a valid email address is required"
	}
	if strings.TrimSpace(in.Name) == "" {
		ve["name"] = "name is required"
	}
	if !model.IsValidRole(in.Role) {
		ve["role"] = "unknown role"
	}
	if in.Password == "" {
		if passwordRequired {
			ve["password"] = "password is required"
		}
	} else if len(in.Password) < MinPasswordLength {
		ve["password"] = fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
	}
	if len(ve) > 0 {
		return ve
	}

	taken, err := s.queries.UserEmailExistsExcluding(ctx, in.Email, excludeID)
	if err != nil {
		return fmt.Errorf("checking email uniqueness: %w", err)
	}
	if taken {
		return ValidationError{"email": "a user with this email already exists"}
	}
	return nil
}

// Create adds a user account.
func (s *UserService) Create(ctx context.Context, actor *model.User, in UserInput) (model.User, error) {
	if !rbac.Can(actor.Role, rbac.CapManageUsers) {
		return model.User{}, ErrForbidden
	}
	if err := s.validateInput(ctx, &in, 0, true); err != nil {
		return model.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Name:         strings.TrimSpace(in.Name),
		AvatarURL:    in.AvatarURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}

	s.events.LogInfo(ctx, model.EventCategoryUser,
		fmt.Sprintf("user created: %s", user.Email),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"user_id": user.ID, "role": user.Role})

	return user, nil
}

// Update modifies a user account. Editing someone else's profile requires
// the edit-any-profile capability; changing a role additionally requires
// user management rights, so a user cannot promote themselves.
func (s *UserService) Update(ctx context.Context, actor *model.User, id int64, in UserInput) (model.User, error) {
	if actor.ID != id && !rbac.Can(actor.Role, rbac.CapEditAnyProfile) {
		return model.User{}, ErrForbidden
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if in.Role != user.Role && !rbac.Can(actor.Role, rbac.CapManageUsers) {
		return model.User{}, ErrForbidden
	}
	if err := s.validateInput(ctx, &in, id, false); err != nil {
		return model.User{}, err
	}

	hash := user.PasswordHash
	if in.Password != "" {
		hash, err = auth.HashPassword(in.Password)
		if err != nil {
			return model.User{}, fmt.Errorf("hashing password: %w", err)
		}
	}

	updated, err := s.queries.UpdateUser(ctx, store.UpdateUserParams{
		ID:           user.ID,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Name:         strings.TrimSpace(in.Name),
		AvatarURL:    in.AvatarURL,
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		return model.User{}, fmt.Errorf("updating user %d: %w", user.ID, err)
	}

	s.events.LogInfo(ctx, model.EventCategoryUser,
		fmt.Sprintf("user updated: %s", updated.Email),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"user_id": updated.ID, "role": updated.Role})

	return updated, nil
}

// Delete removes a user account. Self-deletion, removing the last admin,
// and removing an account that still has authored articles are refused.
func (s *UserService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if !rbac.Can(actor.Role, rbac.CapManageUsers) {
		return ErrForbidden
	}
	if actor.ID == id {
		return ValidationError{"id": "cannot delete your own account"}
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	authored, err := s.queries.CountArticlesByAuthorID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("counting authored articles: %w", err)
	}
	if authored > 0 {
		return fmt.Errorf("user %q has %d articles: %w", user.Email, authored, ErrHasDependents)
	}

	if user.IsAdmin() {
		admins, err := s.queries.CountUsersByRole(ctx, model.RoleAdmin)
		if err != nil {
			return fmt.Errorf("counting admins: %w", err)
		}
		if admins <= 1 {
			return ValidationError{"id": "cannot delete the last admin"}
		}
	}

	if err := s.queries.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("deleting user %d: %w", user.ID, err)
	}

	s.events.LogWarning(ctx, model.EventCategoryUser,
		fmt.Sprintf("user deleted: %s", user.Email),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"user_id": user.ID})

	return nil
}

// Authenticate verifies credentials and records the login time. The error
// for an unknown email and a wrong password is identical.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn comparable time so a missing account is not
			// detectable by response latency.
			_, _ = auth.CheckPassword(password, auth.DummyHash)
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("loading user by email: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		s.events.LogAuthEvent(ctx, model.EventLevelWarning,
			fmt.Sprintf("failed login for %s", email),
			sql.NullInt64{Int64: user.ID, Valid: true}, nil)
		return model.User{}, ErrInvalidCredentials
	}

	if err := s.queries.UpdateUserLastLogin(ctx, user.ID, time.Now()); err != nil {
		return model.User{}, fmt.Errorf("recording login time: %w", err)
	}

	s.events.LogAuthEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("login: %s", email),
		sql.NullInt64{Int64: user.ID, Valid: true}, nil)

	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("loading user %d: %w", id, err)
	}
	return user, nil
}

// List returns all users. Only user managers may enumerate accounts.
func (s *UserService) List(ctx context.Context, actor *model.User) ([]model.User, error) {
	if !rbac.Can(actor.Role, rbac.CapManageUsers) {
		return nil, ErrForbidden
	}
	users, err := s.queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

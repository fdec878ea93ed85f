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
)

// AdService manages ad placements.
type AdService struct {
	queries *store.Queries
	events  *EventService
}

// NewAdService creates an AdService.
func NewAdService(db *sql.DB, events *EventService) *AdService {
	return &AdService{queries: store.New(db), events: events}
}

// AdInput holds the writable fields of an ad.
type AdInput struct {
	Title    string
	Location string
	Type     string
	Content  string
	LinkURL  string
	Active   bool
}

func validateAdInput(in *AdInput) error {
	ve := ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		ve["title"] = "title is required"
	}
	if !model.IsValidAdLocation(in.Location) {
		ve["location"] = "unknown ad location"
	}
	if !model.IsValidAdType(in.Type) {
		ve["type"] = "unknown ad type"
	}
	if strings.TrimSpace(in.Content) == "" {
		ve["content"] = "content is required"
	}
	if len(ve) > 0 {
		return ve
	}
	return nil
}

// Create adds an ad.
func (s *AdService) Create(ctx context.Context, actor *model.User, in AdInput) (model.Ad, error) {
	if !rbac.Can(actor.Role, rbac.CapManageAds) {
		return model.Ad{}, ErrForbidden
	}
	if err := validateAdInput(&in); err != nil {
		return model.Ad{}, err
	}

	now := time.Now()
	ad, err := s.queries.CreateAd(ctx, store.CreateAdParams{
		Title:     strings.TrimSpace(in.Title),
		Location:  in.Location,
		Type:      in.Type,
		Content:   in.Content,
		LinkURL:   nullString(in.LinkURL),
		Active:    in.Active,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Ad{}, fmt.Errorf("creating ad: %w", err)
	}

	s.events.LogInfo(ctx, model.EventCategoryAd,
		fmt.Sprintf("ad created: %s", ad.Title),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"ad_id": ad.ID, "location": ad.Location})

	return ad, nil
}

// Update modifies an ad.
func (s *AdService) Update(ctx context.Context, actor *model.User, id int64, in AdInput) (model.Ad, error) {
	if !rbac.Can(actor.Role, rbac.CapManageAds) {
		return model.Ad{}, ErrForbidden
	}
	ad, err := s.Get(ctx, id)
	if err != nil {
		return model.Ad{}, err
	}
	if err := validateAdInput(&in); err != nil {
		return model.Ad{}, err
	}

	updated, err := s.queries.UpdateAd(ctx, store.UpdateAdParams{
		ID:        ad.ID,
		Title:     strings.TrimSpace(in.Title),
		Location:  in.Location,
		Type:      in.Type,
		Content:   in.Content,
		LinkURL:   nullString(in.LinkURL),
		Active:    in.Active,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return model.Ad{}, fmt.Errorf("updating ad %d: %w", ad.ID, err)
	}

	s.events.LogInfo(ctx, model.EventCategoryAd,
		fmt.Sprintf("ad updated: %s", updated.Title),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"ad_id": updated.ID, "active": updated.Active})

	return updated, nil
}

// Delete removes an ad.
func (s *AdService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if !rbac.Can(actor.Role, rbac.CapManageAds) {
		return ErrForbidden
	}
	ad, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.queries.DeleteAd(ctx, ad.ID); err != nil {
		return fmt.Errorf("deleting ad %d: %w", ad.ID, err)
	}

	s.events.LogWarning(ctx, model.EventCategoryAd,
		fmt.Sprintf("ad deleted: %s", ad.Title),
		sql.NullInt64{Int64: actor.ID, Valid: true},
		map[string]any{"ad_id": ad.ID})

	return nil
}

// Get returns an ad by id.
func (s *AdService) Get(ctx context.Context, id int64) (model.Ad, error) {
	ad, err := s.queries.GetAdByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Ad{}, ErrNotFound
		}
		return model.Ad{}, fmt.Errorf("loading ad %d: %w", id, err)
	}
	return ad, nil
}

// List returns all ads for the admin backend.
func (s *AdService) List(ctx context.Context, actor *model.User) ([]model.Ad, error) {
	if !rbac.Can(actor.Role, rbac.CapManageAds) {
		return nil, ErrForbidden
	}
	ads, err := s.queries.ListAds(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing ads: %w", err)
	}
	return ads, nil
}

// ListActiveByLocation returns active ads for a public display slot.
func (s *AdService) ListActiveByLocation(ctx context.Context, location string) ([]model.Ad, error) {
	if !model.IsValidAdLocation(location) {
		return nil, ValidationError{"location": "unknown ad location"}
	}
	ads, err := s.queries.ListActiveAdsByLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("listing active ads: %w", err)
	}
	return ads, nil
}

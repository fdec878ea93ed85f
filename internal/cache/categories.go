// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"time"

	"newsdesk/internal/model"
)

const categoriesKey = "categories:all"

// CategoryCache caches the public category list. The list is small, read
// on every public page, and invalidated on any taxonomy change.
type CategoryCache struct {
	typed *TypedCache[[]model.Category]
}

// NewCategoryCache creates a CategoryCache over the manager's backend.
func NewCategoryCache(m *Manager, ttl time.Duration) *CategoryCache {
	return &CategoryCache{typed: NewTypedCache[[]model.Category](m.Backend(), ttl)}
}

// GetOrLoad returns the cached category list, loading it on a miss.
func (c *CategoryCache) GetOrLoad(ctx context.Context, load func() ([]model.Category, error)) ([]model.Category, error) {
	value, err := c.typed.GetOrSet(ctx, categoriesKey, func() (*[]model.Category, error) {
		categories, err := load()
		if err != nil {
			return nil, err
		}
		return &categories, nil
	})
	if err != nil {
		return nil, err
	}
	return *value, nil
}

// Invalidate drops the cached list after a create, rename, or delete.
func (c *CategoryCache) Invalidate(ctx context.Context) {
	_ = c.typed.Delete(ctx, categoriesKey)
}

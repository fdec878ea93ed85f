// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"newsdesk/internal/cache"
	"newsdesk/internal/middleware"
	"newsdesk/internal/model"
	"newsdesk/internal/service"
)

// CategoryHandler serves the taxonomy endpoints. Mutations invalidate the
// public category cache.
type CategoryHandler struct {
	categories *service.CategoryService
	cache      *cache.CategoryCache
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(categories *service.CategoryService, categoryCache *cache.CategoryCache) *CategoryHandler {
	return &CategoryHandler{categories: categories, cache: categoryCache}
}

type categoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCategoryResponse(c model.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func toCategoryResponses(categories []model.Category) []categoryResponse {
	out := make([]categoryResponse, len(categories))
	for i, c := range categories {
		out[i] = toCategoryResponse(c)
	}
	return out
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toCategoryResponses(categories), nil)
}

// Get handles GET /api/categories/{id}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid category id")
		return
	}
	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toCategoryResponse(category), nil)
}

type categoryRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	category, err := h.categories.Create(r.Context(), middleware.GetUser(r), req.Name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	h.cache.Invalidate(r.Context())
	WriteCreated(w, toCategoryResponse(category))
}

// renameResponse reports the rename plus how many articles followed it.
type renameResponse struct {
	Category        categoryResponse `json:"category"`
	ArticlesUpdated int64            `json:"articles_updated"`
}

// Rename handles PUT /api/categories/{id}. The new name cascades into
// every article referencing the category.
func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid category id")
		return
	}
	var req categoryRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	category, updated, err := h.categories.Rename(r.Context(), middleware.GetUser(r), id, req.Name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	h.cache.Invalidate(r.Context())
	WriteSuccess(w, renameResponse{Category: toCategoryResponse(category), ArticlesUpdated: updated}, nil)
}

type deleteCategoryRequest struct {
	TargetID int64 `json:"target_id"`
}

// Delete handles DELETE /api/categories/{id}. Without a target_id in the
// body the delete refuses when articles still reference the category; with
// one, the articles are reassigned first.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid category id")
		return
	}

	var req deleteCategoryRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := DecodeJSON(r, &req); err != nil {
			WriteBadRequest(w, "invalid request body")
			return
		}
	}

	actor := middleware.GetUser(r)
	if req.TargetID != 0 {
		moved, err := h.categories.ReassignAndDelete(r.Context(), actor, id, req.TargetID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		h.cache.Invalidate(r.Context())
		WriteSuccess(w, map[string]any{"articles_moved": moved}, nil)
		return
	}

	if err := h.categories.Delete(r.Context(), actor, id); err != nil {
		WriteServiceError(w, err)
		return
	}
	h.cache.Invalidate(r.Context())
	WriteNoContent(w)
}

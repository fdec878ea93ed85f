// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/cache"
	"newsdesk/internal/model"
	"newsdesk/internal/service"
)

// PublicHandler serves the unauthenticated read endpoints for the site
// frontend: published articles, the category list, and active ads.
type PublicHandler struct {
	articles      *service.ArticleService
	categories    *service.CategoryService
	ads           *service.AdService
	categoryCache *cache.CategoryCache
}

// NewPublicHandler creates a PublicHandler.
func NewPublicHandler(articles *service.ArticleService, categories *service.CategoryService,
	ads *service.AdService, categoryCache *cache.CategoryCache) *PublicHandler {
	return &PublicHandler{
		articles:      articles,
		categories:    categories,
		ads:           ads,
		categoryCache: categoryCache,
	}
}

// ListArticles handles GET /api/public/articles. Bodies arrive rendered
// and sanitized.
func (h *PublicHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	limit, offset, page, perPage := Pagination(r)
	articles, err := h.articles.ListPublished(r.Context(), limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toArticleResponses(articles), &Meta{Page: page, PerPage: perPage})
}

// GetArticle handles GET /api/public/articles/{slug}.
func (h *PublicHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	article, err := h.articles.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toArticleResponse(article), nil)
}

// ListCategories handles GET /api/public/categories, served from cache.
func (h *PublicHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryCache.GetOrLoad(r.Context(), func() ([]model.Category, error) {
		return h.categories.List(r.Context())
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toCategoryResponses(categories), nil)
}

// ListAds handles GET /api/public/ads/{location}.
func (h *PublicHandler) ListAds(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")
	ads, err := h.ads.ListActiveByLocation(r.Context(), location)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toAdResponses(ads), nil)
}

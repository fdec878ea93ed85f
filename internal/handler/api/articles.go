// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"time"

	"newsdesk/internal/middleware"
	"newsdesk/internal/model"
	"newsdesk/internal/service"
)

// ArticleHandler serves the editorial article endpoints.
type ArticleHandler struct {
	articles *service.ArticleService
}

// NewArticleHandler creates an ArticleHandler.
func NewArticleHandler(articles *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

// articleRequest is the write payload for create and update.
type articleRequest struct {
	Title      string `json:"title"`
	Excerpt    string `json:"excerpt"`
	Body       string `json:"body"`
	BodyFormat string `json:"body_format"`
	CategoryID int64  `json:"category_id"`
	ImageURL   string `json:"image_url"`
	VideoURL   string `json:"video_url"`
	Status     string `json:"status"`
}

func (r articleRequest) input() service.ArticleInput {
	return service.ArticleInput{
		Title:      r.Title,
		Excerpt:    r.Excerpt,
		Body:       r.Body,
		BodyFormat: r.BodyFormat,
		CategoryID: r.CategoryID,
		ImageURL:   r.ImageURL,
		VideoURL:   r.VideoURL,
		Status:     r.Status,
	}
}

// articleResponse is the wire shape of an article.
type articleResponse struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Excerpt      string     `json:"excerpt"`
	Body         string     `json:"body"`
	BodyFormat   string     `json:"body_format"`
	CategoryID   int64      `json:"category_id"`
	CategoryName string     `json:"category_name"`
	ImageURL     string     `json:"image_url,omitempty"`
	VideoURL     string     `json:"video_url,omitempty"`
	AuthorID     int64      `json:"author_id"`
	AuthorName   string     `json:"author_name"`
	AuthorAvatar string     `json:"author_avatar,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

func toArticleResponse(a model.Article) articleResponse {
	resp := articleResponse{
		ID:           a.ID,
		Title:        a.Title,
		Slug:         a.Slug,
		Excerpt:      a.Excerpt,
		Body:         a.Body,
		BodyFormat:   a.BodyFormat,
		CategoryID:   a.CategoryID,
		CategoryName: a.CategoryName,
		ImageURL:     a.ImageURL,
		AuthorID:     a.AuthorID,
		AuthorName:   a.AuthorName,
		AuthorAvatar: a.AuthorAvatar,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.VideoURL.Valid {
		resp.VideoURL = a.VideoURL.String
	}
	if a.PublishedAt.Valid {
		t := a.PublishedAt.Time
		resp.PublishedAt = &t
	}
	return resp
}

func toArticleResponses(articles []model.Article) []articleResponse {
	out := make([]articleResponse, len(articles))
	for i, a := range articles {
		out[i] = toArticleResponse(a)
	}
	return out
}

// List handles GET /api/articles.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, page, perPage := Pagination(r)
	articles, err := h.articles.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toArticleResponses(articles), &Meta{Page: page, PerPage: perPage})
}

// Get handles GET /api/articles/{id}.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid article id")
		return
	}
	article, err := h.articles.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toArticleResponse(article), nil)
}

// Create handles POST /api/articles.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	article, err := h.articles.Create(r.Context(), middleware.GetUser(r), req.input())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, toArticleResponse(article))
}

// Update handles PUT /api/articles/{id}.
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid article id")
		return
	}
	var req articleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	article, err := h.articles.Update(r.Context(), middleware.GetUser(r), id, req.input())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toArticleResponse(article), nil)
}

// Delete handles DELETE /api/articles/{id}.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid article id")
		return
	}
	if err := h.articles.Delete(r.Context(), middleware.GetUser(r), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteNoContent(w)
}

// Submit handles POST /api/articles/{id}/submit.
func (h *ArticleHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.articles.Submit)
}

// Publish handles POST /api/articles/{id}/publish.
func (h *ArticleHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.articles.Publish)
}

// Unpublish handles POST /api/articles/{id}/unpublish.
func (h *ArticleHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.articles.Unpublish)
}

func (h *ArticleHandler) transition(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, actor *model.User, id int64) (model.Article, error)) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid article id")
		return
	}
	article, err := fn(r.Context(), middleware.GetUser(r), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toArticleResponse(article), nil)
}

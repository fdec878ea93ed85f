// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"newsdesk/internal/middleware"
	"newsdesk/internal/model"
	"newsdesk/internal/service"
)

// AdHandler serves the ad management endpoints.
type AdHandler struct {
	ads *service.AdService
}

// NewAdHandler creates an AdHandler.
func NewAdHandler(ads *service.AdService) *AdHandler {
	return &AdHandler{ads: ads}
}

type adRequest struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	LinkURL  string `json:"link_url"`
	Active   bool   `json:"active"`
}

type adResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	LinkURL   string    `json:"link_url,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAdResponse(a model.Ad) adResponse {
	resp := adResponse{
		ID:        a.ID,
		Title:     a.Title,
		Location:  a.Location,
		Type:      a.Type,
		Content:   a.Content,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.LinkURL.Valid {
		resp.LinkURL = a.LinkURL.String
	}
	return resp
}

func toAdResponses(ads []model.Ad) []adResponse {
	out := make([]adResponse, len(ads))
	for i, a := range ads {
		out[i] = toAdResponse(a)
	}
	return out
}

// List handles GET /api/ads.
func (h *AdHandler) List(w http.ResponseWriter, r *http.Request) {
	ads, err := h.ads.List(r.Context(), middleware.GetUser(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toAdResponses(ads), nil)
}

// Get handles GET /api/ads/{id}.
func (h *AdHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid ad id")
		return
	}
	ad, err := h.ads.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toAdResponse(ad), nil)
}

// Create handles POST /api/ads.
func (h *AdHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req adRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	ad, err := h.ads.Create(r.Context(), middleware.GetUser(r), service.AdInput(req))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, toAdResponse(ad))
}

// Update handles PUT /api/ads/{id}.
func (h *AdHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid ad id")
		return
	}
	var req adRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	ad, err := h.ads.Update(r.Context(), middleware.GetUser(r), id, service.AdInput(req))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, toAdResponse(ad), nil)
}

// Delete handles DELETE /api/ads/{id}.
func (h *AdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r)
	if err != nil {
		WriteBadRequest(w, "invalid ad id")
		return
	}
	if err := h.ads.Delete(r.Context(), middleware.GetUser(r), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteNoContent(w)
}

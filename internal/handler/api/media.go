// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"newsdesk/internal/middleware"
	"newsdesk/internal/service"
)

// MediaHandler serves file uploads.
type MediaHandler struct {
	media *service.MediaService
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// Upload handles POST /api/media as a multipart form with a "file" field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		WriteBadRequest(w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.media.Upload(r.Context(), middleware.GetUser(r), header.Filename, file)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, result)
}

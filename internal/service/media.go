// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"

	"newsdesk/internal/imaging"
	"newsdesk/internal/model"
)

// MaxUploadSize caps a single upload at 20 MB.
const MaxUploadSize = 20 << 20

// AllowedUploadTypes maps accepted MIME types to the stored extension for
// uploads that bypass image processing.
var AllowedUploadTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
}

// MediaService stores uploaded files under the uploads directory. Images go
// through the processor for orientation fixup and thumbnailing; processing
// failures fall back to storing the original bytes so an odd encoder never
// blocks an upload.
type MediaService struct {
	processor *imaging.Processor
	events    *EventService
}

// NewMediaService creates a MediaService writing into uploadsDir.
func NewMediaService(uploadsDir string, events *EventService) *MediaService {
	return &MediaService{
		processor: imaging.NewProcessor(uploadsDir),
		events:    events,
	}
}

// UploadResult describes a stored upload.
type UploadResult struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
}

// Upload reads and stores one file. Any authenticated staff member may
// upload; the size and MIME type are validated before anything is written.
func (s *MediaService) Upload(ctx context.Context, actor *model.User, filename string, r io.Reader) (UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return UploadResult{}, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return UploadResult{}, ValidationError{"file": fmt.Sprintf("file exceeds the %d MB limit", MaxUploadSize>>20)}
	}
	if len(data) == 0 {
		return UploadResult{}, ValidationError{"file": "file is empty"}
	}

	mimeType := http.DetectContentType(data)
	ext, ok := AllowedUploadTypes[mimeType]
	if !ok {
		return UploadResult{}, ValidationError{"file": fmt.Sprintf("unsupported file type %s", mimeType)}
	}

	base := uuid.New().String()
	actorID := sql.NullInt64{Int64: actor.ID, Valid: true}

	if isImageType(mimeType) {
		result, err := s.processor.Process(data, base)
		if err == nil {
			s.events.LogInfo(ctx, model.EventCategoryMedia,
				fmt.Sprintf("media uploaded: %s", filename), actorID,
				map[string]any{"stored_as": result.Path, "mime_type": result.MimeType})
			return UploadResult{
				URL:          "/uploads/" + result.Path,
				ThumbnailURL: "/uploads/" + result.ThumbPath,
				Width:        result.Width,
				Height:       result.Height,
				Size:         int64(len(data)),
				MimeType:     result.MimeType,
			}, nil
		}
		// Keep the upload even when the decoder chokes on it.
		s.events.LogWarning(ctx, model.EventCategoryMedia,
			fmt.Sprintf("image processing failed, storing original: %s", filename), actorID,
			map[string]any{"error": err.Error()})
	}

	name := base + ext
	if err := s.processor.SaveRaw(data, name); err != nil {
		return UploadResult{}, err
	}

	s.events.LogInfo(ctx, model.EventCategoryMedia,
		fmt.Sprintf("media uploaded: %s", filename), actorID,
		map[string]any{"stored_as": name, "mime_type": mimeType})

	return UploadResult{
		URL:      path.Join("/uploads", name),
		Size:     int64(len(data)),
		MimeType: mimeType,
	}, nil
}

func isImageType(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

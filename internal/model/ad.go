// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Ad display locations.
const (
	AdLocationHeaderLeaderboard = "header_leaderboard"
	AdLocationSidebarSquare     = "sidebar_square"
	AdLocationSidebarSkyscraper = "sidebar_skyscraper"
)

// ValidAdLocations contains all valid ad locations.
var ValidAdLocations = []string{AdLocationHeaderLeaderboard, AdLocationSidebarSquare, AdLocationSidebarSkyscraper}

// Ad content types.
const (
	AdTypeImage  = "image"
	AdTypeVideo  = "video"
	AdTypeScript = "script"
)

// ValidAdTypes contains all valid ad content types.
var ValidAdTypes = []string{AdTypeImage, AdTypeVideo, AdTypeScript}

// IsValidAdLocation reports whether location is a known display slot.
func IsValidAdLocation(location string) bool {
	switch location {
	case AdLocationHeaderLeaderboard, AdLocationSidebarSquare, AdLocationSidebarSkyscraper:
		return true
	}
	return false
}

// IsValidAdType reports whether adType is a known content type.
func IsValidAdType(adType string) bool {
	switch adType {
	case AdTypeImage, AdTypeVideo, AdTypeScript:
		return true
	}
	return false
}

// Ad represents an advertisement slot filler. Content is a URL for image and
// video ads, raw markup for script ads.
type Ad struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Location  string         `json:"location"`
	Type      string         `json:"type"`
	Content   string         `json:"content"`
	LinkURL   sql.NullString `json:"link_url,omitempty"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

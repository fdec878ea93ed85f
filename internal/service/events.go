// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"newsdesk/internal/model"
	"newsdesk/internal/store"
)

// EventService writes audit entries to the events table.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates an EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// LogEvent records an event. Metadata is marshaled to JSON; a nil map is
// stored as an empty object. Logging failures are reported to slog but never
// propagated, an audit miss must not fail the operation being audited.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID sql.NullInt64, metadata map[string]any) {
	meta := "{}"
	if len(metadata) > 0 {
		b, err := json.Marshal(metadata)
		if err != nil {
			slog.Error("marshaling event metadata", "error", err, "category", category)
		} else {
			meta = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    userID,
		Metadata:  meta,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("writing event log entry", "error", err, "category", category, "message", message)
	}
}

// LogInfo records an informational event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, userID sql.NullInt64, metadata map[string]any) {
	s.LogEvent(ctx, model.EventLevelInfo, category, message, userID, metadata)
}

// LogWarning records a warning event.
func (s *EventService) LogWarning(ctx context.Context, category, message string, userID sql.NullInt64, metadata map[string]any) {
	s.LogEvent(ctx, model.EventLevelWarning, category, message, userID, metadata)
}

// LogError records an error event.
func (s *EventService) LogError(ctx context.Context, category, message string, userID sql.NullInt64, metadata map[string]any) {
	s.LogEvent(ctx, model.EventLevelError, category, message, userID, metadata)
}

// LogAuthEvent records an authentication event (login, logout, denial).
func (s *EventService) LogAuthEvent(ctx context.Context, level, message string, userID sql.NullInt64, metadata map[string]any) {
	s.LogEvent(ctx, level, model.EventCategoryAuth, message, userID, metadata)
}

// ListEvents returns event log entries, newest first.
func (s *EventService) ListEvents(ctx context.Context, limit, offset int64) ([]model.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	events, err := s.queries.ListEvents(ctx, store.ListEventsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// DeleteOldEvents removes event log entries older than the retention window.
// Returns the number of entries removed.
func (s *EventService) DeleteOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	n, err := s.queries.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting old events: %w", err)
	}
	return n, nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging wires slog into the event log: records at WARN and above
// are mirrored into the events table so operational problems are visible in
// the admin backend without shell access.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"newsdesk/internal/model"
	"newsdesk/internal/store"
)

// EventLogHandler forwards records to an inner handler and persists
// warnings and errors to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	attrs   []slog.Attr
}

// NewEventLogHandler wraps inner with event log persistence.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return &EventLogHandler{inner: inner, queries: store.New(db)}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler. The event log write uses a background
// context so a canceled request does not drop the record.
func (h *EventLogHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.inner.Handle(ctx, record)
	if record.Level >= slog.LevelWarn {
		h.writeEvent(record)
	}
	return err
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	combined := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	combined = append(combined, h.attrs...)
	combined = append(combined, attrs...)
	return &EventLogHandler{inner: h.inner.WithAttrs(attrs), queries: h.queries, attrs: combined}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithGroup(name), queries: h.queries, attrs: h.attrs}
}

func (h *EventLogHandler) writeEvent(record slog.Record) {
	level := model.EventLevelWarning
	if record.Level >= slog.LevelError {
		level = model.EventLevelError
	}

	meta := map[string]any{}
	for _, attr := range h.attrs {
		meta[attr.Key] = attr.Value.Any()
	}
	record.Attrs(func(attr slog.Attr) bool {
		meta[attr.Key] = attr.Value.Any()
		return true
	})
	metadata := "{}"
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			metadata = string(b)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _ = h.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  categorize(record.Message),
		Message:   record.Message,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	})
}

// categorize maps a log message onto an event category by keyword.
func categorize(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "auth") || strings.Contains(msg, "session"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "article"):
		return model.EventCategoryArticle
	case strings.Contains(msg, "category"):
		return model.EventCategoryCategory
	case strings.Contains(msg, "user"):
		return model.EventCategoryUser
	case strings.Contains(msg, "ad "):
		return model.EventCategoryAd
	case strings.Contains(msg, "upload") || strings.Contains(msg, "media") || strings.Contains(msg, "image"):
		return model.EventCategoryMedia
	default:
		return model.EventCategorySystem
	}
}

var _ slog.Handler = (*EventLogHandler)(nil)

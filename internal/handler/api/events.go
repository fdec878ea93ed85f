// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"newsdesk/internal/model"
	"newsdesk/internal/service"
)

// EventHandler exposes the audit log to administrators.
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

type eventResponse struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	UserID    *int64    `json:"user_id,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toEventResponse(e model.Event) eventResponse {
	resp := eventResponse{
		ID:        e.ID,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
		Metadata:  e.Metadata,
		CreatedAt: e.CreatedAt,
	}
	if e.UserID.Valid {
		id := e.UserID.Int64
		resp.UserID = &id
	}
	return resp
}

// List handles GET /api/events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, page, perPage := Pagination(r)
	events, err := h.events.ListEvents(r.Context(), limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	out := make([]eventResponse, len(events))
	for i, e := range events {
		out[i] = toEventResponse(e)
	}
	WriteSuccess(w, out, &Meta{Page: page, PerPage: perPage})
}

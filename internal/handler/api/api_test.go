// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"newsdesk/internal/service"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return resp
}

func TestWriteServiceErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"wrapped forbidden", fmt.Errorf("publishing: %w", service.ErrForbidden), http.StatusForbidden, "forbidden"},
		{"locked for editing", service.ErrLockedForEditing, http.StatusLocked, "locked_for_editing"},
		{"not found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"has dependents", fmt.Errorf("category %q has 3 articles: %w", "Sport", service.ErrHasDependents), http.StatusConflict, "has_dependents"},
		{"invalid transition", service.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{"validation", service.ValidationError{"title": "title is required"}, http.StatusUnprocessableEntity, "validation_error"},
		{"cascade failure", &service.CascadeError{CategoryID: 7, Err: errors.New("disk full")}, http.StatusInternalServerError, "storage_failure"},
		{"unknown error", errors.New("driver: bad connection"), http.StatusInternalServerError, "storage_failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeError(t, rec)
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestWriteServiceErrorValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, service.ValidationError{
		"title":       "title is required",
		"category_id": "category does not exist",
	})

	resp := decodeError(t, rec)
	if resp.Error.Details["title"] != "title is required" {
		t.Errorf("details missing title: %v", resp.Error.Details)
	}
	if resp.Error.Details["category_id"] != "category does not exist" {
		t.Errorf("details missing category_id: %v", resp.Error.Details)
	}
}

func TestWriteServiceErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, errors.New("SQLITE_IOERR: disk I/O error on /var/lib/newsdesk.db"))

	if strings.Contains(rec.Body.String(), "SQLITE_IOERR") {
		t.Error("internal error detail leaked to the client")
	}
}

func TestWriteNoContentHasNoBody(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteNoContent(rec)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("204 response carries a body: %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "" {
		t.Errorf("204 response sets Content-Type %q", ct)
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","bogus":true}`))
	if err := DecodeJSON(req, &dst); err == nil {
		t.Error("DecodeJSON accepted an unknown field")
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query       string
		wantLimit   int64
		wantOffset  int64
		wantPage    int
		wantPerPage int
	}{
		{"", 20, 0, 1, 20},
		{"?page=3", 20, 40, 3, 20},
		{"?page=2&per_page=50", 50, 50, 2, 50},
		{"?per_page=500", 20, 0, 1, 20},
		{"?page=-1&per_page=0", 20, 0, 1, 20},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
		limit, offset, page, perPage := Pagination(req)
		if limit != tt.wantLimit || offset != tt.wantOffset || page != tt.wantPage || perPage != tt.wantPerPage {
			t.Errorf("Pagination(%q) = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
				tt.query, limit, offset, page, perPage,
				tt.wantLimit, tt.wantOffset, tt.wantPage, tt.wantPerPage)
		}
	}
}

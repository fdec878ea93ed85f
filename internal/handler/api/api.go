// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers for the publishing backend and
// the public read endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/service"
)

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable error code.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteNoContent writes a bare 204. A 204 carries no body, so no
// Content-Type and no encoder.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}})
}

// WriteBadRequest writes a 400 response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, nil)
}

// WriteNotFound writes a 404 response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteServiceError maps a service-layer error onto the wire taxonomy.
// Anything outside the taxonomy is a storage failure: the details stay in
// the log, the client gets a generic 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	var ve service.ValidationError
	var ce *service.CascadeError

	switch {
	case errors.Is(err, service.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", "insufficient permissions", nil)
	case errors.Is(err, service.ErrLockedForEditing):
		WriteError(w, http.StatusLocked, "locked_for_editing", "article is locked for editing", nil)
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, "resource not found")
	case errors.Is(err, service.ErrHasDependents):
		WriteError(w, http.StatusConflict, "has_dependents",
			"resource still has dependent articles; reassign or remove them first", nil)
	case errors.Is(err, service.ErrInvalidTransition):
		WriteError(w, http.StatusConflict, "invalid_transition",
			"the article's current status does not allow this transition", nil)
	case errors.As(err, &ve):
		WriteError(w, http.StatusUnprocessableEntity, "validation_error", "validation failed", ve)
	case errors.As(err, &ce):
		slog.Error("category cascade failed", "error", err, "category_id", ce.CategoryID)
		WriteError(w, http.StatusInternalServerError, "storage_failure", "internal storage error", nil)
	default:
		slog.Error("unhandled service error", "error", err)
		WriteError(w, http.StatusInternalServerError, "storage_failure", "internal storage error", nil)
	}
}

// DecodeJSON parses the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// URLParamID parses the {id} chi route parameter.
func URLParamID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// Pagination extracts limit/offset from page and per_page query parameters.
func Pagination(r *http.Request) (limit, offset int64, page, perPage int) {
	page = 1
	perPage = 20
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 && v <= 100 {
		perPage = v
	}
	return int64(perPage), int64(page-1) * int64(perPage), page, perPage
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsdesk/internal/model"
	"newsdesk/internal/rbac"
	"newsdesk/internal/service"
	"newsdesk/internal/testutil"
)

func newTestMiddleware(t *testing.T) *Middleware {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	events := service.NewEventService(db)
	return New(nil, service.NewUserService(db, events), events)
}

func requestAs(user *model.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), UserContextKey, user))
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	m := newTestMiddleware(t)
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous request got %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(&model.User{ID: 1, Role: model.RoleContributor}))
	if rec.Code != http.StatusNoContent {
		t.Errorf("authenticated request got %d, want 204", rec.Code)
	}
}

func TestRequireCapability(t *testing.T) {
	m := newTestMiddleware(t)
	handler := m.RequireCapability(rbac.CapManageUsers)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name string
		user *model.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"contributor denied", &model.User{ID: 2, Role: model.RoleContributor}, http.StatusForbidden},
		{"editor denied", &model.User{ID: 3, Role: model.RoleEditor}, http.StatusForbidden},
		{"admin allowed", &model.User{ID: 1, Role: model.RoleAdmin}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestAs(tt.user))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	if GetUser(requestAs(nil)) != nil {
		t.Error("GetUser returned a user for an anonymous request")
	}

	want := &model.User{ID: 42, Role: model.RoleEditor}
	if got := GetUser(requestAs(want)); got != want {
		t.Errorf("GetUser = %+v, want %+v", got, want)
	}
}

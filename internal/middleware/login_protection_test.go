// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestProtection() *LoginProtection {
	cfg := DefaultLoginProtectionConfig()
	cfg.LockoutDuration = time.Minute
	return NewLoginProtection(cfg)
}

func TestAccountLocksAfterRepeatedFailures(t *testing.T) {
	lp := newTestProtection()
	const email = "victim@example.com"

	for i := 0; i < 4; i++ {
		locked, _ := lp.RecordFailedAttempt(email)
		if locked {
			t.Fatalf("locked after %d failures, threshold is 5", i+1)
		}
		if locked, _ := lp.IsAccountLocked(email); locked {
			t.Fatalf("IsAccountLocked true after %d failures", i+1)
		}
	}

	locked, dur := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("fifth failure did not lock the account")
	}
	if dur != time.Minute {
		t.Errorf("first lockout duration = %v, want %v", dur, time.Minute)
	}

	locked, remaining := lp.IsAccountLocked(email)
	if !locked {
		t.Fatal("IsAccountLocked false right after lockout")
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Errorf("remaining lockout = %v", remaining)
	}
}

func TestSuccessfulLoginClearsFailures(t *testing.T) {
	lp := newTestProtection()
	const email = "user@example.com"

	for i := 0; i < 4; i++ {
		lp.RecordFailedAttempt(email)
	}
	lp.RecordSuccessfulLogin(email)

	// The counter starts over; one more failure must not lock.
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("account locked after counters were cleared")
	}
}

func TestRepeatLockoutsDouble(t *testing.T) {
	lp := newTestProtection()
	const email = "repeat@example.com"

	var first, second time.Duration
	for i := 0; i < 5; i++ {
		_, first = lp.RecordFailedAttempt(email)
	}
	for i := 0; i < 5; i++ {
		_, second = lp.RecordFailedAttempt(email)
	}

	if second != 2*first {
		t.Errorf("second lockout = %v, want double the first (%v)", second, first)
	}
}

func TestLoginProtectionClose(t *testing.T) {
	lp := newTestProtection()

	lp.Close()
	// Second Close is a no-op, not a double-close panic.
	lp.Close()

	// Tracking still works after the cleanup loop stops.
	lp.RecordFailedAttempt("late@example.com")
	if locked, _ := lp.IsAccountLocked("late@example.com"); locked {
		t.Error("single failure reported as locked")
	}
}

func TestLoginRateLimitMiddleware(t *testing.T) {
	cfg := DefaultLoginProtectionConfig()
	cfg.IPRateLimit = 0.001 // effectively no refill during the test
	cfg.IPBurst = 3
	lp := NewLoginProtection(cfg)

	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		if code := post(); code != http.StatusNoContent {
			t.Fatalf("request %d within burst got %d", i+1, code)
		}
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Errorf("request over burst got %d, want 429", code)
	}

	// GET requests bypass the limiter.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	req.RemoteAddr = "203.0.113.7:51000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("GET was rate limited: %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr only", "192.0.2.1:4711", nil, "192.0.2.1"},
		{"x-real-ip wins", "192.0.2.1:4711", map[string]string{"X-Real-IP": "198.51.100.9"}, "198.51.100.9"},
		{"first forwarded-for", "192.0.2.1:4711", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "203.0.113.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"strings"
	"testing"
)

const testSecret = "Xk9#mP2$vL8@nQ4!wR7%tY3^uI6&oZ1*"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NEWSDESK_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want localhost:8080", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
	if cfg.UseRedisCache() {
		t.Error("Redis cache should be off without NEWSDESK_REDIS_URL")
	}
	if cfg.EventRetentionDays != 90 {
		t.Errorf("EventRetentionDays = %d, want 90", cfg.EventRetentionDays)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NEWSDESK_SESSION_SECRET", testSecret)
	t.Setenv("NEWSDESK_SERVER_HOST", "0.0.0.0")
	t.Setenv("NEWSDESK_SERVER_PORT", "9000")
	t.Setenv("NEWSDESK_ENV", "production")
	t.Setenv("NEWSDESK_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerAddr() != "0.0.0.0:9000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("production env reported as development")
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false with Redis URL set")
	}
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("NEWSDESK_SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("Load accepted an empty session secret")
	}
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("NEWSDESK_SESSION_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("Load accepted a short session secret")
	}
	if !strings.Contains(err.Error(), "at least") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadRejectsKnownWeakSecret(t *testing.T) {
	t.Setenv("NEWSDESK_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Error("Load accepted a known default secret")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	if hasMinimumEntropy("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") {
		t.Error("single-class secret passed the entropy check")
	}
	if !hasMinimumEntropy(testSecret) {
		t.Error("mixed-class secret failed the entropy check")
	}
}

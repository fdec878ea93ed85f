// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Manager owns the configured cache backend and the typed views over it.
type Manager struct {
	backend Cacher
}

// Options configures the Manager.
type Options struct {
	RedisURL   string // empty selects the in-memory backend
	Prefix     string
	DefaultTTL time.Duration
}

// NewManager selects the cache backend. When Redis is configured but
// unreachable it falls back to the in-memory backend rather than failing
// startup; the cache is an optimization, not a dependency.
func NewManager(opts Options) *Manager {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = 5 * time.Minute
	}
	if opts.RedisURL != "" {
		backend, err := NewRedisCache(opts.RedisURL, opts.Prefix, opts.DefaultTTL)
		if err == nil {
			slog.Info("cache backend: redis", "prefix", opts.Prefix)
			return &Manager{backend: backend}
		}
		slog.Warn("redis unavailable, falling back to memory cache", "error", err)
	}
	slog.Info("cache backend: memory")
	return &Manager{backend: NewMemoryCache(opts.DefaultTTL)}
}

// Backend exposes the raw byte cache.
func (m *Manager) Backend() Cacher { return m.backend }

// Close releases the backend.
func (m *Manager) Close() error { return m.backend.Close() }

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the caching layer: a byte-oriented Cacher
// interface with in-memory and Redis backends, plus typed helpers used for
// hot read paths like the public category list.
package cache

import (
	"context"
	"time"
)

// Cacher is the interface all cache backends implement. Implementations
// must be safe for concurrent use. Values are opaque bytes so the same
// interface serves both the memory and Redis backends.
type Cacher interface {
	// Get returns the value for key, or ErrCacheMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry this cache owns.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Error is a sentinel error type for cache operations.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrCacheMiss means the key was absent or expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed means the cache was already closed.
	ErrCacheClosed Error = "cache closed"
)

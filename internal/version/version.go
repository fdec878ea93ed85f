// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // semantic version from git tags
	GitCommit string // short git commit hash
	BuildTime string // build timestamp in RFC3339 format
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures server-side sessions backed by the sessions
// table, so logins survive process restarts.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Lifetime is how long a login session stays valid.
const Lifetime = 24 * time.Hour

// New creates the session manager. Cookies are HttpOnly and SameSite=Lax;
// the Secure flag is dropped only in development so plain-HTTP localhost
// works.
func New(db *sql.DB, isDevelopment bool) *scs.SessionManager {
	manager := scs.New()
	manager.Store = sqlite3store.New(db)
	manager.Lifetime = Lifetime
	manager.Cookie.HttpOnly = true
	manager.Cookie.SameSite = http.SameSiteLaxMode
	manager.Cookie.Secure = !isDevelopment
	return manager
}

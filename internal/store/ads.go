// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"newsdesk/internal/model"
)

const adColumns = "id, title, location, type, content, link_url, active, created_at, updated_at"

func scanAd(row *sql.Row) (model.Ad, error) {
	var a model.Ad
	err := row.Scan(&a.ID, &a.Title, &a.Location, &a.Type, &a.Content, &a.LinkURL,
		&a.Active, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// CreateAdParams holds the fields for creating an ad.
type CreateAdParams struct {
	Title     string
	Location  string
	Type      string
	Content   string
	LinkURL   sql.NullString
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateAd inserts a new ad and returns the stored row.
func (q *Queries) CreateAd(ctx context.Context, arg CreateAdParams) (model.Ad, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO ads (title, location, type, content, link_url, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+adColumns,
		arg.Title, arg.Location, arg.Type, arg.Content, arg.LinkURL, arg.Active,
		arg.CreatedAt, arg.UpdatedAt)
	return scanAd(row)
}

// GetAdByID returns the ad with the given id.
func (q *Queries) GetAdByID(ctx context.Context, id int64) (model.Ad, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+adColumns+` FROM ads WHERE id = ?`, id)
	return scanAd(row)
}

// ListAds returns all ads ordered by most recently updated.
func (q *Queries) ListAds(ctx context.Context) ([]model.Ad, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+adColumns+` FROM ads ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	return scanAds(rows)
}

// ListActiveAdsByLocation returns active ads for a display slot.
func (q *Queries) ListActiveAdsByLocation(ctx context.Context, location string) ([]model.Ad, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+adColumns+` FROM ads WHERE location = ? AND active = 1 ORDER BY updated_at DESC`,
		location)
	if err != nil {
		return nil, err
	}
	return scanAds(rows)
}

func scanAds(rows *sql.Rows) ([]model.Ad, error) {
	defer func() { _ = rows.Close() }()

	var ads []model.Ad
	for rows.Next() {
		var a model.Ad
		if err := rows.Scan(&a.ID, &a.Title, &a.Location, &a.Type, &a.Content, &a.LinkURL,
			&a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		ads = append(ads, a)
	}
	return ads, rows.Err()
}

// UpdateAdParams holds the fields for updating an ad.
type UpdateAdParams struct {
	ID        int64
	Title     string
	Location  string
	Type      string
	Content   string
	LinkURL   sql.NullString
	Active    bool
	UpdatedAt time.Time
}

// UpdateAd updates an ad row and returns the stored row.
func (q *Queries) UpdateAd(ctx context.Context, arg UpdateAdParams) (model.Ad, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE ads
		SET title = ?, location = ?, type = ?, content = ?, link_url = ?, active = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+adColumns,
		arg.Title, arg.Location, arg.Type, arg.Content, arg.LinkURL, arg.Active, arg.UpdatedAt, arg.ID)
	return scanAd(row)
}

// DeleteAd removes an ad row.
func (q *Queries) DeleteAd(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM ads WHERE id = ?`, id)
	return err
}

// CountAds returns the total number of ads.
func (q *Queries) CountAds(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ads`).Scan(&n)
	return n, err
}

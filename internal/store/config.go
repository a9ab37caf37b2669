// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/valforet/valforet-go/internal/model"
)

// GetConfig returns one configuration item by key.
func (q *Queries) GetConfig(ctx context.Context, key string) (model.Config, error) {
	var c model.Config
	err := q.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at, updated_by FROM config WHERE key = ?`, key).
		Scan(&c.Key, &c.Value, &c.UpdatedAt, &c.UpdatedBy)
	return c, err
}

// GetConfigValue returns a configuration value, or fallback when the key
// is absent.
func (q *Queries) GetConfigValue(ctx context.Context, key, fallback string) string {
	c, err := q.GetConfig(ctx, key)
	if err != nil {
		return fallback
	}
	return c.Value
}

// ListConfig returns all configuration items ordered by key.
func (q *Queries) ListConfig(ctx context.Context) ([]model.Config, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT key, value, updated_at, updated_by FROM config ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.Config
	for rows.Next() {
		var c model.Config
		if err := rows.Scan(&c.Key, &c.Value, &c.UpdatedAt, &c.UpdatedBy); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// SetConfigParams holds the fields of a configuration write.
type SetConfigParams struct {
	Key       string
	Value     string
	UpdatedAt time.Time
	UpdatedBy sql.NullInt64
}

// SetConfig inserts or replaces a configuration item.
func (q *Queries) SetConfig(ctx context.Context, arg SetConfigParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO config (key, value, updated_at, updated_by)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value,
			updated_at = excluded.updated_at, updated_by = excluded.updated_by`,
		arg.Key, arg.Value, arg.UpdatedAt, arg.UpdatedBy)
	return err
}

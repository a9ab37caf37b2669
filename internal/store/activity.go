// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/valforet/valforet-go/internal/model"
)

// The activity log is append-only: this file deliberately has no UPDATE
// or DELETE queries for activity_logs.

const activityColumns = `id, user_id, action, metadata, ip_address, created_at`

func scanActivityLog(row interface{ Scan(...any) error }) (model.ActivityLog, error) {
	var l model.ActivityLog
	err := row.Scan(&l.ID, &l.UserID, &l.Action, &l.Metadata, &l.IPAddress, &l.CreatedAt)
	return l, err
}

// CreateActivityLogParams holds the fields of one activity entry.
type CreateActivityLogParams struct {
	UserID    sql.NullInt64
	Action    model.ActivityAction
	Metadata  string
	IPAddress string
	CreatedAt time.Time
}

// CreateActivityLog appends one entry to the activity log.
func (q *Queries) CreateActivityLog(ctx context.Context, arg CreateActivityLogParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO activity_logs (user_id, action, metadata, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		arg.UserID, arg.Action, arg.Metadata, arg.IPAddress, arg.CreatedAt)
	return err
}

// ListActivityLogsParams holds activity listing parameters.
type ListActivityLogsParams struct {
	Limit  int64
	Offset int64
}

// ListActivityLogs returns activity entries, newest first.
func (q *Queries) ListActivityLogs(ctx context.Context, arg ListActivityLogsParams) ([]model.ActivityLog, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM activity_logs ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var logs []model.ActivityLog
	for rows.Next() {
		l, err := scanActivityLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ListUserActivityLogs returns one user's activity entries, newest first.
func (q *Queries) ListUserActivityLogs(ctx context.Context, userID int64, arg ListActivityLogsParams) ([]model.ActivityLog, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+activityColumns+` FROM activity_logs
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var logs []model.ActivityLog
	for rows.Next() {
		l, err := scanActivityLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ListActivityLogsByAction returns entries for one action, newest first.
func (q *Queries) ListActivityLogsByAction(ctx context.Context, action model.ActivityAction, arg ListActivityLogsParams) ([]model.ActivityLog, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+activityColumns+` FROM activity_logs
		WHERE action = ?
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		action, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var logs []model.ActivityLog
	for rows.Next() {
		l, err := scanActivityLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CountActivityLogsByAction returns the number of entries for one action.
func (q *Queries) CountActivityLogsByAction(ctx context.Context, action model.ActivityAction) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM activity_logs WHERE action = ?`, action).Scan(&n)
	return n, err
}

// CountActivityLogs returns the total number of activity entries.
func (q *Queries) CountActivityLogs(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_logs`).Scan(&n)
	return n, err
}

// CountUserActivityLogs returns the number of entries for one user.
func (q *Queries) CountUserActivityLogs(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM activity_logs WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

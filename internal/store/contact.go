// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/valforet/valforet-go/internal/model"
)

const contactColumns = `id, name, email, subject, body, read, created_at`

func scanContactMessage(row interface{ Scan(...any) error }) (model.ContactMessage, error) {
	var m model.ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Read, &m.CreatedAt)
	return m, err
}

// CreateContactMessageParams holds the fields of a contact form submission.
type CreateContactMessageParams struct {
	Name      string
	Email     string
	Subject   string
	Body      string
	CreatedAt time.Time
}

// CreateContactMessage stores a contact form submission.
func (q *Queries) CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (model.ContactMessage, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, subject, body, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+contactColumns,
		arg.Name, arg.Email, arg.Subject, arg.Body, arg.CreatedAt)
	return scanContactMessage(row)
}

// GetContactMessageByID returns one contact message.
func (q *Queries) GetContactMessageByID(ctx context.Context, id int64) (model.ContactMessage, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contact_messages WHERE id = ?`, id)
	return scanContactMessage(row)
}

// ListContactMessagesParams holds contact listing parameters.
type ListContactMessagesParams struct {
	Limit  int64
	Offset int64
}

// ListContactMessages returns contact messages, newest first.
func (q *Queries) ListContactMessages(ctx context.Context, arg ListContactMessagesParams) ([]model.ContactMessage, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contact_messages ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var messages []model.ContactMessage
	for rows.Next() {
		m, err := scanContactMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// CountContactMessages returns the total number of contact messages.
func (q *Queries) CountContactMessages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&n)
	return n, err
}

// CountUnreadContactMessages returns the number of unread messages, shown
// as a badge on the admin dashboard.
func (q *Queries) CountUnreadContactMessages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_messages WHERE read = 0`).Scan(&n)
	return n, err
}

// MarkContactMessageRead flags a message as read.
func (q *Queries) MarkContactMessageRead(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `UPDATE contact_messages SET read = 1 WHERE id = ?`, id)
	return err
}

// DeleteContactMessage removes a contact message.
func (q *Queries) DeleteContactMessage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	return err
}

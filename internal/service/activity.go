// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic: activity logging, search
// aggregation and project gallery management.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/store"
)

// recordTimeout bounds background activity writes.
const recordTimeout = 5 * time.Second

// Details is the metadata attached to an activity entry. The concrete type
// depends on the action; entries without extra context carry nil.
type Details interface {
	isDetails()
}

// ContentDetails names the content item an article/project/slide action
// touched.
type ContentDetails struct {
	Title string `json:"title"`
}

func (ContentDetails) isDetails() {}

// RoleChangeDetails describes a role assignment. NewRole is empty when the
// role was revoked.
type RoleChangeDetails struct {
	TargetUser string `json:"target_user"`
	NewRole    string `json:"new_role,omitempty"`
}

func (RoleChangeDetails) isDetails() {}

// LoginDetails enriches login/logout entries with best-effort client
// context. Every field may be empty; none is required for the entry.
type LoginDetails struct {
	Browser string `json:"browser,omitempty"`
	OS      string `json:"os,omitempty"`
	Country string `json:"country,omitempty"`
}

func (LoginDetails) isDetails() {}

// ActivityService appends entries to the admin activity trail. The trail
// is append-only; nothing in the application updates or removes entries.
type ActivityService struct {
	queries *store.Queries
	logger  *slog.Logger
	pending sync.WaitGroup
}

// NewActivityService creates a new ActivityService.
func NewActivityService(db *sql.DB, logger *slog.Logger) *ActivityService {
	return &ActivityService{
		queries: store.New(db),
		logger:  logger,
	}
}

// Record appends one entry. The action must belong to the closed action
// set; anything else is rejected before touching the database.
func (s *ActivityService) Record(ctx context.Context, userID int64, action model.ActivityAction, details Details, ipAddress string) error {
	if !action.IsValid() {
		return fmt.Errorf("unknown activity action %q", action)
	}

	metadata := "{}"
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("encoding activity details: %w", err)
		}
		metadata = string(data)
	}

	var nullUserID sql.NullInt64
	if userID != 0 {
		nullUserID = sql.NullInt64{Int64: userID, Valid: true}
	}

	return s.queries.CreateActivityLog(ctx, store.CreateActivityLogParams{
		UserID:    nullUserID,
		Action:    action,
		Metadata:  metadata,
		IPAddress: ipAddress,
		CreatedAt: time.Now().UTC(),
	})
}

// RecordAsync appends an entry without blocking the caller. The write runs
// in the background with its own deadline; a failure is logged and never
// surfaces to the admin operation that triggered it.
func (s *ActivityService) RecordAsync(userID int64, action model.ActivityAction, details Details, ipAddress string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := s.Record(ctx, userID, action, details, ipAddress); err != nil {
			s.logger.Error("recording activity failed",
				"action", action, "user_id", userID, "error", err)
		}
	}()
}

// Wait blocks until all in-flight background writes have finished. Called
// during shutdown so entries are not lost when the process exits.
func (s *ActivityService) Wait() {
	s.pending.Wait()
}

// List returns a page of activity entries, newest first, with the total
// count for pagination.
func (s *ActivityService) List(ctx context.Context, limit, offset int64) ([]model.ActivityLog, int64, error) {
	logs, err := s.queries.ListActivityLogs(ctx, store.ListActivityLogsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountActivityLogs(ctx)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// ListByAction returns a page of entries for one action, newest first.
// An empty action lists everything, same as List.
func (s *ActivityService) ListByAction(ctx context.Context, action model.ActivityAction, limit, offset int64) ([]model.ActivityLog, int64, error) {
	if action == "" {
		return s.List(ctx, limit, offset)
	}
	logs, err := s.queries.ListActivityLogsByAction(ctx, action, store.ListActivityLogsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountActivityLogsByAction(ctx, action)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// ListForUser returns one user's activity entries, newest first.
func (s *ActivityService) ListForUser(ctx context.Context, userID, limit, offset int64) ([]model.ActivityLog, int64, error) {
	logs, err := s.queries.ListUserActivityLogs(ctx, userID, store.ListActivityLogsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountUserActivityLogs(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

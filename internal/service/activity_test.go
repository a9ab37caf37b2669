// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valforet/valforet-go/internal/model"
	"github.com/valforet/valforet-go/internal/service"
	"github.com/valforet/valforet-go/internal/store"
	"github.com/valforet/valforet-go/internal/testutil"
)

func newActivityService(t *testing.T) (*service.ActivityService, *store.Queries) {
	t.Helper()
	db := testutil.TestDB(t)
	return service.NewActivityService(db, testutil.SilentLogger()), store.New(db)
}

func seedActor(t *testing.T, q *store.Queries) int64 {
	t.Helper()
	now := time.Now().UTC()
	u, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email: "actor@valforet.fr", PasswordHash: "x", Name: "Actor",
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	return u.ID
}

func TestRecord(t *testing.T) {
	svc, q := newActivityService(t)
	ctx := context.Background()
	userID := seedActor(t, q)

	err := svc.Record(ctx, userID, model.ActionArticleCreated,
		service.ContentDetails{Title: "Entretien des haies"}, "203.0.113.7")
	require.NoError(t, err)

	logs, total, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ActionArticleCreated, logs[0].Action)
	assert.JSONEq(t, `{"title":"Entretien des haies"}`, logs[0].Metadata)
	assert.Equal(t, "203.0.113.7", logs[0].IPAddress)
}

func TestRecord_RejectsUnknownAction(t *testing.T) {
	svc, q := newActivityService(t)
	userID := seedActor(t, q)

	err := svc.Record(context.Background(), userID, "service_created", nil, "")
	require.Error(t, err)

	// Nothing was written.
	_, total, err := svc.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRecord_NilDetails(t *testing.T) {
	svc, q := newActivityService(t)
	userID := seedActor(t, q)

	require.NoError(t, svc.Record(context.Background(), userID, model.ActionLogout, nil, ""))

	logs, _, err := svc.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "{}", logs[0].Metadata)
}

func TestRecord_RoleChangeDetails(t *testing.T) {
	svc, q := newActivityService(t)
	userID := seedActor(t, q)

	err := svc.Record(context.Background(), userID, model.ActionRoleChanged,
		service.RoleChangeDetails{TargetUser: "editor@valforet.fr", NewRole: model.RoleModerator}, "")
	require.NoError(t, err)

	logs, _, err := svc.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"target_user":"editor@valforet.fr","new_role":"moderator"}`, logs[0].Metadata)
}

func TestRecordAsync(t *testing.T) {
	svc, q := newActivityService(t)
	userID := seedActor(t, q)

	svc.RecordAsync(userID, model.ActionLogin, nil, "198.51.100.4")
	svc.Wait()

	logs, total, err := svc.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, model.ActionLogin, logs[0].Action)
}

func TestRecordAsync_FailureDoesNotPropagate(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewActivityService(db, testutil.SilentLogger())
	_ = db.Close() // close the database so the background write fails

	// Must not panic or block; the failure goes to the logger only.
	svc.RecordAsync(1, model.ActionLogin, nil, "")
	svc.Wait()
}

func TestListForUser(t *testing.T) {
	svc, q := newActivityService(t)
	ctx := context.Background()
	first := seedActor(t, q)

	now := time.Now().UTC()
	other, err := q.CreateUser(ctx, store.CreateUserParams{
		Email: "other@valforet.fr", PasswordHash: "x", Name: "Other",
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Record(ctx, first, model.ActionLogin, nil, ""))
	require.NoError(t, svc.Record(ctx, other.ID, model.ActionLogin, nil, ""))
	require.NoError(t, svc.Record(ctx, first, model.ActionLogout, nil, ""))

	logs, total, err := svc.ListForUser(ctx, first, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, first, l.UserID.Int64)
	}
}

// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the recurring background jobs: publishing
// scheduled articles, and reloading the GeoIP database.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/valforet/valforet-go/internal/cache"
	"github.com/valforet/valforet-go/internal/geoip"
	"github.com/valforet/valforet-go/internal/store"
)

// Scheduler owns the cron instance and the jobs registered on it.
type Scheduler struct {
	db      *sql.DB
	queries *store.Queries
	cron    *cron.Cron
	logger  *slog.Logger
	caches  *cache.Manager
	geo     *geoip.Lookup
}

// New creates a new scheduler instance. caches and geo may be nil; the
// corresponding jobs are then skipped.
func New(db *sql.DB, logger *slog.Logger, caches *cache.Manager, geo *geoip.Lookup) *Scheduler {
	return &Scheduler{
		db:      db,
		queries: store.New(db),
		cron:    cron.New(),
		logger:  logger,
		caches:  caches,
		geo:     geo,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	// Check every minute for articles whose publish time has passed.
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.publishDueArticles(); err != nil {
			s.logger.Error("publish due articles", "error", err)
		}
	})
	if err != nil {
		return err
	}

	if s.geo != nil && s.geo.IsEnabled() {
		// Reload the GeoIP database nightly to pick up updated files.
		_, err = s.cron.AddFunc("0 4 * * *", func() {
			if err := s.geo.Reload(); err != nil {
				s.logger.Warn("geoip reload", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// publishDueArticles publishes every article whose scheduled publish time
// has passed, and invalidates the content caches when anything changed.
func (s *Scheduler) publishDueArticles() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	published, err := s.queries.PublishDueArticles(ctx, time.Now())
	if err != nil {
		return err
	}
	if published == 0 {
		return nil
	}

	s.logger.Info("published scheduled articles", "count", published)
	if s.caches != nil {
		s.caches.InvalidateContent()
	}
	return nil
}

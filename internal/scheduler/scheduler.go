// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"newsdesk/internal/service"
)

// Scheduler owns the cron runner and its jobs.
type Scheduler struct {
	cron          *cron.Cron
	events        *service.EventService
	retentionDays int
}

// New creates a Scheduler purging event log entries older than
// retentionDays.
func New(events *service.EventService, retentionDays int) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		events:        events,
		retentionDays: retentionDays,
	}
}

// Start registers the jobs and runs the cron loop until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	// Daily at 03:30, well clear of peak traffic.
	_, err := s.cron.AddFunc("30 3 * * *", func() {
		removed, err := s.events.DeleteOldEvents(context.Background(), s.retentionDays)
		if err != nil {
			slog.Error("event log purge failed", "error", err)
			return
		}
		if removed > 0 {
			slog.Info("event log purged", "removed", removed, "retention_days", s.retentionDays)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler stopped")
}

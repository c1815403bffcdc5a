// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

// Package janitor runs the retention sweep that physically removes
// documents archived longer than the retention window.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/oops"
)

// Cleaner removes documents whose archival predates the retention
// window and reports how many were removed.
type Cleaner interface {
	Cleanup(ctx context.Context, retention time.Duration) (int, error)
}

// Config carries janitor settings.
type Config struct {
	// Retention is how long archived documents are kept before the
	// sweep removes them. Zero removes on the next sweep.
	Retention time.Duration
	// Schedule is a cron expression. Defaults to hourly.
	Schedule string
	Logger   *slog.Logger
}

// Janitor schedules periodic retention sweeps.
type Janitor struct {
	cleaner   Cleaner
	retention time.Duration
	schedule  string
	logger    *slog.Logger
	cron      *cron.Cron
}

// New creates a Janitor. It does not start sweeping until Start.
func New(cleaner Cleaner, cfg Config) *Janitor {
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = "@hourly"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		cleaner:   cleaner,
		retention: cfg.Retention,
		schedule:  schedule,
		logger:    logger,
	}
}

// Start registers the sweep on the configured schedule and starts the
// scheduler.
func (j *Janitor) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(j.schedule, func() { j.Sweep(ctx) }); err != nil {
		return oops.Code("JANITOR_SCHEDULE_INVALID").With("schedule", j.schedule).Wrap(err)
	}
	c.Start()
	j.cron = c
	j.logger.InfoContext(ctx, "janitor started",
		"schedule", j.schedule,
		"retention", j.retention.String())
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
	j.logger.Info("janitor stopped")
}

// Sweep runs one retention pass. Failures are logged, not returned,
// so a bad pass never stops the schedule.
func (j *Janitor) Sweep(ctx context.Context) {
	start := time.Now()
	removed, err := j.cleaner.Cleanup(ctx, j.retention)
	if err != nil {
		j.logger.ErrorContext(ctx, "retention sweep failed",
			"error", err,
			"removed", removed)
		return
	}
	j.logger.InfoContext(ctx, "retention sweep finished",
		"removed", removed,
		"duration", time.Since(start).String())
}

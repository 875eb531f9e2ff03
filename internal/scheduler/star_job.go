// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scheduler runs periodic background jobs as suture services.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"qaboard/internal/metrics"
	"qaboard/internal/models"
	"qaboard/internal/weekly"
)

// DefaultInterval is how often the star job runs when none is configured.
const DefaultInterval = time.Hour

// Selector runs weekly star selection for the current week.
type Selector interface {
	Select(ctx context.Context) (*models.WeeklyStar, error)
}

// StarJob selects the week's star on the last tick before the week ends,
// so questions posted late in the week still compete. Earlier ticks do
// nothing. An already selected week and a week without questions are
// normal outcomes, not failures.
type StarJob struct {
	selector Selector
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
	tick     func(time.Duration) (<-chan time.Time, func())
}

// NewStarJob creates the job. A non-positive interval uses DefaultInterval.
func NewStarJob(selector Selector, interval time.Duration, logger *slog.Logger) *StarJob {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StarJob{
		selector: selector,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		tick: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Serve implements suture.Service. It checks once at start and then once
// per interval until ctx is canceled, selecting only when Due.
func (j *StarJob) Serve(ctx context.Context) error {
	ticks, stop := j.tick(j.interval)
	defer stop()

	j.runIfDue(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticks:
			j.runIfDue(ctx)
		}
	}
}

// Due reports whether t is within one interval of the end of its week,
// so the following tick would fall into the next week.
func (j *StarJob) Due(t time.Time) bool {
	return !weekly.BucketFor(t).Contains(t.Add(j.interval))
}

func (j *StarJob) runIfDue(ctx context.Context) {
	now := j.now()
	if !j.Due(now) {
		j.logger.Debug("weekly star not due", "bucket", weekly.BucketFor(now).String())
		return
	}
	j.RunOnce(ctx)
}

// RunOnce performs a single selection attempt, logs its outcome and
// returns the error from Select.
func (j *StarJob) RunOnce(ctx context.Context) error {
	star, err := j.selector.Select(ctx)
	outcome := weekly.Outcome(err)
	metrics.RecordStarSelection("scheduler", outcome)

	switch {
	case err == nil:
		j.logger.Info("weekly star selected",
			"week", star.Week, "year", star.Year, "question_id", star.QuestionID)
	case errors.Is(err, weekly.ErrConflict):
		j.logger.Debug("weekly star already selected")
	case errors.Is(err, weekly.ErrNoCandidate):
		j.logger.Info("no questions this week, star not selected")
	case errors.Is(err, context.Canceled):
		// shutting down
	default:
		j.logger.Warn("weekly star selection failed", "outcome", outcome, "error", err)
	}
	return err
}

// String implements fmt.Stringer for suture logs.
func (j *StarJob) String() string {
	return "weekly-star-job"
}

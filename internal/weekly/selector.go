// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package weekly picks one "star" question per ISO week. A star is chosen
// either explicitly (Select, over the week's questions) or lazily on first
// read (Current, over all questions). The UNIQUE (week, year) constraint in
// storage is the only coordination between concurrent callers.
package weekly

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"qaboard/internal/engagement"
	"qaboard/internal/models"
	"qaboard/internal/store"
)

var (
	// ErrConflict means the bucket already has a star.
	ErrConflict = errors.New("weekly star already selected")

	// ErrNoCandidate means no question was created in the bucket's window.
	ErrNoCandidate = errors.New("no questions this week")

	// ErrNotFound means there is no question at all to show.
	ErrNotFound = errors.New("no star question yet")

	// ErrStorageUnavailable wraps any storage failure.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Store is the storage the selector needs. Lookups return (nil, nil) when
// nothing matches. CreateStar returns store.ErrDuplicate when a row for
// (week, year) already exists.
type Store interface {
	FindStar(ctx context.Context, week, year int) (*models.WeeklyStar, error)
	CreateStar(ctx context.Context, week, year int, questionID uuid.UUID) (*models.WeeklyStar, error)
	QuestionsCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Question, error)
	TopQuestion(ctx context.Context) (*models.Question, error)
	FindQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error)
	ListStars(ctx context.Context, limit int) ([]models.WeeklyStar, error)
}

// Selector implements weekly star selection on top of a Store.
type Selector struct {
	store Store
	now   func() time.Time
}

// NewSelector creates a Selector. A nil now uses time.Now.
func NewSelector(s Store, now func() time.Time) *Selector {
	if now == nil {
		now = time.Now
	}
	return &Selector{store: s, now: now}
}

// Bucket returns the bucket for the selector's current time.
func (s *Selector) Bucket() Bucket {
	return BucketFor(s.now())
}

// Select picks the best-scoring question created during the current week
// and records it as the week's star. It returns ErrConflict if the week
// already has a star and ErrNoCandidate if nothing was posted this week.
// Neither case writes anything.
func (s *Selector) Select(ctx context.Context) (*models.WeeklyStar, error) {
	b := s.Bucket()

	existing, err := s.store.FindStar(ctx, b.Week, b.Year)
	if err != nil {
		return nil, unavailable("find star", err)
	}
	if existing != nil {
		return nil, ErrConflict
	}

	candidates, err := s.store.QuestionsCreatedBetween(ctx, b.Start(), b.End())
	if err != nil {
		return nil, unavailable("list candidates", err)
	}
	top, ok := engagement.Top(candidates)
	if !ok {
		return nil, ErrNoCandidate
	}

	star, err := s.store.CreateStar(ctx, b.Week, b.Year, top.ID)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, unavailable("create star", err)
	}

	star.Question = &top
	slog.Info("weekly star selected",
		"bucket", b.String(),
		"question_id", top.ID,
		"score", engagement.NetScore(top),
		"candidates", len(candidates),
	)
	return star, nil
}

// Current returns the star question for the current week. If none has been
// chosen yet, the best-scoring question overall is recorded as the star
// and returned. When two readers race, both return the winner's question.
func (s *Selector) Current(ctx context.Context) (*models.Question, error) {
	b := s.Bucket()

	q, err := s.starQuestion(ctx, b)
	if err != nil || q != nil {
		return q, err
	}

	top, err := s.store.TopQuestion(ctx)
	if err != nil {
		return nil, unavailable("top question", err)
	}
	if top == nil {
		return nil, ErrNotFound
	}

	_, err = s.store.CreateStar(ctx, b.Week, b.Year, top.ID)
	if errors.Is(err, store.ErrDuplicate) {
		q, err := s.starQuestion(ctx, b)
		if err != nil {
			return nil, err
		}
		if q == nil {
			return nil, unavailable("reread star", fmt.Errorf("star for %s vanished", b))
		}
		return q, nil
	}
	if err != nil {
		return nil, unavailable("create star", err)
	}

	slog.Info("weekly star chosen on read", "bucket", b.String(), "question_id", top.ID)
	return top, nil
}

// History returns past stars with their questions, newest first.
func (s *Selector) History(ctx context.Context, limit int) ([]models.WeeklyStar, error) {
	stars, err := s.store.ListStars(ctx, limit)
	if err != nil {
		return nil, unavailable("list stars", err)
	}
	return stars, nil
}

// starQuestion loads the question recorded for b. Returns (nil, nil) if the
// bucket has no star.
func (s *Selector) starQuestion(ctx context.Context, b Bucket) (*models.Question, error) {
	star, err := s.store.FindStar(ctx, b.Week, b.Year)
	if err != nil {
		return nil, unavailable("find star", err)
	}
	if star == nil {
		return nil, nil
	}
	q, err := s.store.FindQuestion(ctx, star.QuestionID)
	if err != nil {
		return nil, unavailable("find star question", err)
	}
	if q == nil {
		return nil, ErrNotFound
	}
	return q, nil
}

func unavailable(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}

// Outcome names the result of a Select call for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "selected"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNoCandidate):
		return "no_candidate"
	case errors.Is(err, ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "error"
	}
}

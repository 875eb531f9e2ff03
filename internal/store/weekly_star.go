// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"qaboard/internal/models"
)

// StarStore persists weekly stars and answers the question queries the
// weekly selector needs.
type StarStore struct {
	db        *sql.DB
	questions *QuestionStore
}

// NewStarStore creates a new StarStore.
func NewStarStore(db *sql.DB) *StarStore {
	return &StarStore{db: db, questions: NewQuestionStore(db)}
}

// FindStar returns the star for (week, year). Returns nil if none exists.
func (s *StarStore) FindStar(ctx context.Context, week, year int) (*models.WeeklyStar, error) {
	ws := &models.WeeklyStar{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, week, year, question_id, created_at
		FROM weekly_stars WHERE week = $1 AND year = $2
	`, week, year).Scan(&ws.ID, &ws.Week, &ws.Year, &ws.QuestionID, &ws.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find weekly star: %w", err)
	}
	return ws, nil
}

// CreateStar records questionID as the star of (week, year). Returns
// ErrDuplicate if the week already has one.
func (s *StarStore) CreateStar(ctx context.Context, week, year int, questionID uuid.UUID) (*models.WeeklyStar, error) {
	ws := &models.WeeklyStar{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO weekly_stars (week, year, question_id)
		VALUES ($1, $2, $3)
		RETURNING id, week, year, question_id, created_at
	`, week, year, questionID).Scan(&ws.ID, &ws.Week, &ws.Year, &ws.QuestionID, &ws.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("create weekly star: %w", err)
	}
	return ws, nil
}

// ListStars returns recorded stars newest week first, with questions.
func (s *StarStore) ListStars(ctx context.Context, limit int) ([]models.WeeklyStar, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, week, year, question_id, created_at
		FROM weekly_stars
		ORDER BY year DESC, week DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list weekly stars: %w", err)
	}
	defer rows.Close()

	var stars []models.WeeklyStar
	for rows.Next() {
		var ws models.WeeklyStar
		if err := rows.Scan(&ws.ID, &ws.Week, &ws.Year, &ws.QuestionID, &ws.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan weekly star: %w", err)
		}
		stars = append(stars, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly stars: %w", err)
	}

	for i := range stars {
		q, err := s.questions.FindByID(ctx, stars[i].QuestionID)
		if err != nil {
			return nil, err
		}
		stars[i].Question = q
	}
	return stars, nil
}

// QuestionsCreatedBetween delegates to QuestionStore.CreatedBetween.
func (s *StarStore) QuestionsCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Question, error) {
	return s.questions.CreatedBetween(ctx, from, to)
}

// TopQuestion delegates to QuestionStore.Top.
func (s *StarStore) TopQuestion(ctx context.Context) (*models.Question, error) {
	return s.questions.Top(ctx)
}

// FindQuestion delegates to QuestionStore.FindByID.
func (s *StarStore) FindQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	return s.questions.FindByID(ctx, id)
}

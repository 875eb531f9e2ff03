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

// questionSelect joins the author so list views need no second query.
const questionSelect = `
	SELECT q.id, q.content, q.categories, q.user_id, q.show_name, q.country,
		q.likes, q.dislikes, q.liked_by, q.disliked_by, q.created_at, q.updated_at,
		u.username, u.image
	FROM questions q
	JOIN users u ON u.id = q.user_id`

// QuestionStore handles question persistence and voting.
type QuestionStore struct {
	db *sql.DB
}

// NewQuestionStore creates a new QuestionStore.
func NewQuestionStore(db *sql.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

func scanQuestion(row scanner) (*models.Question, error) {
	q := &models.Question{}
	err := row.Scan(
		&q.ID, &q.Content, textArray(&q.Categories), &q.UserID, &q.ShowName, &q.Country,
		&q.Likes, &q.Dislikes, textArray(&q.LikedBy), textArray(&q.DislikedBy),
		&q.CreatedAt, &q.UpdatedAt, &q.AuthorName, &q.AuthorImage,
	)
	if err != nil {
		return nil, err
	}
	q.Project()
	return q, nil
}

func collectQuestions(rows *sql.Rows) ([]models.Question, error) {
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

// NewQuestion holds the fields for posting a question.
type NewQuestion struct {
	UserID     uuid.UUID
	Content    string
	Categories []string
	ShowName   bool
	Country    string
}

// Create inserts a question and returns it with author fields joined.
func (s *QuestionStore) Create(ctx context.Context, in NewQuestion) (*models.Question, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO questions (content, categories, user_id, show_name, country)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id
	`, in.Content, nonNil(in.Categories), in.UserID, in.ShowName, in.Country).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return s.FindByID(ctx, id)
}

// FindByID retrieves a question. Returns nil if not found.
func (s *QuestionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx, questionSelect+` WHERE q.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find question: %w", err)
	}
	return q, nil
}

// List returns questions newest first. A non-empty category restricts the
// result to questions tagged with it.
func (s *QuestionStore) List(ctx context.Context, category string, limit int) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, questionSelect+`
		WHERE $1 = '' OR $1 = ANY(q.categories)
		ORDER BY q.created_at DESC, q.id DESC
		LIMIT $2
	`, category, limit)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return collectQuestions(rows)
}

// ListByUser returns a user's questions newest first.
func (s *QuestionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, questionSelect+`
		WHERE q.user_id = $1
		ORDER BY q.created_at DESC, q.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list questions by user: %w", err)
	}
	return collectQuestions(rows)
}

// CreatedBetween returns questions created in [from, to), oldest first.
// Ties on created_at are broken by id so the order is stable.
func (s *QuestionStore) CreatedBetween(ctx context.Context, from, to time.Time) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, questionSelect+`
		WHERE q.created_at >= $1 AND q.created_at < $2
		ORDER BY q.created_at ASC, q.id ASC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("questions created between: %w", err)
	}
	return collectQuestions(rows)
}

// Top returns the question with the highest net score overall, preferring
// the earliest created on ties. Returns nil if there are no questions.
func (s *QuestionStore) Top(ctx context.Context) (*models.Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx, questionSelect+`
		ORDER BY (q.likes - q.dislikes) DESC, q.created_at ASC, q.id ASC
		LIMIT 1
	`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("top question: %w", err)
	}
	return q, nil
}

// Vote toggles userID's vote on a question. Returns the updated counters
// and the user's resulting vote, or (nil, "", nil) if the question does
// not exist.
func (s *QuestionStore) Vote(ctx context.Context, id uuid.UUID, userID string, kind models.VoteKind) (*models.Votes, models.VoteKind, error) {
	return toggleVote(ctx, s.db, "questions", id, userID, kind)
}

// toggleVote locks the row, applies models.Votes.Toggle and writes the sets
// and counters back in one transaction. table is always a constant.
func toggleVote(ctx context.Context, db *sql.DB, table string, id uuid.UUID, userID string, kind models.VoteKind) (*models.Votes, models.VoteKind, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("begin vote: %w", err)
	}
	defer tx.Rollback()

	var v models.Votes
	err = tx.QueryRowContext(ctx, `
		SELECT likes, dislikes, liked_by, disliked_by FROM `+table+` WHERE id = $1 FOR UPDATE
	`, id).Scan(&v.Likes, &v.Dislikes, textArray(&v.LikedBy), textArray(&v.DislikedBy))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("lock %s vote: %w", table, err)
	}

	result := v.Toggle(userID, kind)

	_, err = tx.ExecContext(ctx, `
		UPDATE `+table+`
		SET likes = $1, dislikes = $2, liked_by = $3, disliked_by = $4, updated_at = NOW()
		WHERE id = $5
	`, v.Likes, v.Dislikes, nonNil(v.LikedBy), nonNil(v.DislikedBy), id)
	if err != nil {
		return nil, "", fmt.Errorf("update %s vote: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("commit vote: %w", err)
	}
	return &v, result, nil
}

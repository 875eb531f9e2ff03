// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"qaboard/internal/models"
)

const replySelect = `
	SELECT r.id, r.question_id, r.user_id, r.content, r.content_type, r.video_url,
		r.likes, r.dislikes, r.liked_by, r.disliked_by, r.created_at, r.updated_at,
		u.username, u.image, q.content
	FROM replies r
	JOIN users u ON u.id = r.user_id
	JOIN questions q ON q.id = r.question_id`

// ReplyStore handles replies to questions.
type ReplyStore struct {
	db *sql.DB
}

// NewReplyStore creates a new ReplyStore.
func NewReplyStore(db *sql.DB) *ReplyStore {
	return &ReplyStore{db: db}
}

func scanReply(row scanner) (*models.Reply, error) {
	r := &models.Reply{}
	err := row.Scan(
		&r.ID, &r.QuestionID, &r.UserID, &r.Content, &r.ContentType, &r.VideoURL,
		&r.Likes, &r.Dislikes, textArray(&r.LikedBy), textArray(&r.DislikedBy),
		&r.CreatedAt, &r.UpdatedAt, &r.AuthorName, &r.AuthorImage, &r.QuestionContent,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func collectReplies(rows *sql.Rows) ([]models.Reply, error) {
	defer rows.Close()

	var out []models.Reply
	for rows.Next() {
		r, err := scanReply(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// NewReply holds the fields for answering a question.
type NewReply struct {
	QuestionID  uuid.UUID
	UserID      uuid.UUID
	Content     string
	ContentType models.ReplyType
	VideoURL    *string
}

// Create inserts a reply. Returns nil if the question does not exist.
func (s *ReplyStore) Create(ctx context.Context, in NewReply) (*models.Reply, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO replies (question_id, user_id, content, content_type, video_url)
		SELECT $1::uuid, $2::uuid, $3::text, $4::text, $5::text
		WHERE EXISTS (SELECT 1 FROM questions WHERE id = $1::uuid)
		RETURNING id
	`, in.QuestionID, in.UserID, in.Content, in.ContentType, in.VideoURL).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	return s.FindByID(ctx, id)
}

// FindByID retrieves a reply. Returns nil if not found.
func (s *ReplyStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Reply, error) {
	r, err := scanReply(s.db.QueryRowContext(ctx, replySelect+` WHERE r.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find reply: %w", err)
	}
	return r, nil
}

// ListForQuestions returns the replies of the given questions grouped by
// question ID, oldest first within each group.
func (s *ReplyStore) ListForQuestions(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID][]models.Reply, error) {
	grouped := make(map[uuid.UUID][]models.Reply, len(questionIDs))
	if len(questionIDs) == 0 {
		return grouped, nil
	}

	ids := make([]string, len(questionIDs))
	for i, id := range questionIDs {
		ids[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx, replySelect+`
		WHERE r.question_id::text = ANY($1)
		ORDER BY r.created_at ASC, r.id ASC
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	replies, err := collectReplies(rows)
	if err != nil {
		return nil, err
	}
	for _, r := range replies {
		grouped[r.QuestionID] = append(grouped[r.QuestionID], r)
	}
	return grouped, nil
}

// ListByUser returns a user's replies newest first, each carrying the
// content of the question it answers.
func (s *ReplyStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Reply, error) {
	rows, err := s.db.QueryContext(ctx, replySelect+`
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list replies by user: %w", err)
	}
	return collectReplies(rows)
}

// Vote toggles userID's vote on a reply. Semantics match QuestionStore.Vote.
func (s *ReplyStore) Vote(ctx context.Context, id uuid.UUID, userID string, kind models.VoteKind) (*models.Votes, models.VoteKind, error) {
	return toggleVote(ctx, s.db, "replies", id, userID, kind)
}

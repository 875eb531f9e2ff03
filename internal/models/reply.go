// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ReplyType distinguishes text answers from video answers.
type ReplyType string

const (
	ReplyText  ReplyType = "text"
	ReplyVideo ReplyType = "video"
)

// Reply is an answer to a question.
type Reply struct {
	ID          uuid.UUID `json:"id"`
	QuestionID  uuid.UUID `json:"question_id"`
	UserID      uuid.UUID `json:"user_id"`
	Content     string    `json:"content"`
	ContentType ReplyType `json:"content_type"`
	VideoURL    *string   `json:"video_url,omitempty"`
	Votes
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AuthorName  string  `json:"author_name,omitempty"`
	AuthorImage *string `json:"author_image,omitempty"`

	// QuestionContent is set when replies are listed outside their question.
	QuestionContent string `json:"question_content,omitempty"`
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a rated write-up of a product or experience, optionally with
// an image or video. Other users "agree" with it rather than vote.
type Review struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Rating      int       `json:"rating"`
	VideoURL    *string   `json:"video_url,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Agreements  int       `json:"agreements"`
	Views       int       `json:"views"`
	CreatedAt   time.Time `json:"created_at"`

	AuthorName  string  `json:"author_name,omitempty"`
	AuthorImage *string `json:"author_image,omitempty"`

	// DescriptionHTML is the rendered Markdown description.
	DescriptionHTML string `json:"description_html,omitempty"`
}

// Engagement treats agreements as likes; reviews cannot be disliked.
func (r Review) Engagement() (likes, dislikes int) {
	return r.Agreements, 0
}

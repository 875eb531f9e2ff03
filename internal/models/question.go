// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is a post on the board. Author fields are joined from users on
// read and are empty on freshly inserted rows.
type Question struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	Categories []string  `json:"categories"`
	UserID     uuid.UUID `json:"user_id"`
	ShowName   bool      `json:"show_name"`
	Country    *string   `json:"country,omitempty"`
	Votes
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AuthorName  string  `json:"-"`
	AuthorImage *string `json:"-"`

	Replies  []Reply  `json:"replies,omitempty"`
	Identity Identity `json:"identity"`
}

// Identity is the public projection of a question's author. Name is only
// filled when the author chose to show it.
type Identity struct {
	ShowName bool    `json:"show_name"`
	Country  *string `json:"country,omitempty"`
	Name     string  `json:"name,omitempty"`
	Image    *string `json:"image,omitempty"`
}

// Project fills q.Identity from the author fields.
func (q *Question) Project() {
	id := Identity{ShowName: q.ShowName, Country: q.Country}
	if q.ShowName {
		id.Name = q.AuthorName
		id.Image = q.AuthorImage
	}
	q.Identity = id
}

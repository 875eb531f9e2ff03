// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyStar records the question chosen for one ISO week. At most one
// row exists per (week, year).
type WeeklyStar struct {
	ID         uuid.UUID `json:"id"`
	Week       int       `json:"week"`
	Year       int       `json:"year"`
	QuestionID uuid.UUID `json:"question_id"`
	CreatedAt  time.Time `json:"created_at"`

	Question *Question `json:"question,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion is a message left through the contact form.
type Suggestion struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"qaboard/internal/models"
)

// SuggestionStore keeps contact form submissions.
type SuggestionStore struct {
	db *sql.DB
}

// NewSuggestionStore creates a new SuggestionStore.
func NewSuggestionStore(db *sql.DB) *SuggestionStore {
	return &SuggestionStore{db: db}
}

// Create stores a suggestion.
func (s *SuggestionStore) Create(ctx context.Context, name, email, message string) (*models.Suggestion, error) {
	sg := &models.Suggestion{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO suggestions (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, message, created_at
	`, name, email, message).Scan(&sg.ID, &sg.Name, &sg.Email, &sg.Message, &sg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create suggestion: %w", err)
	}
	return sg, nil
}

// List returns suggestions newest first.
func (s *SuggestionStore) List(ctx context.Context, limit int) ([]models.Suggestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, message, created_at
		FROM suggestions ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var out []models.Suggestion
	for rows.Next() {
		var sg models.Suggestion
		if err := rows.Scan(&sg.ID, &sg.Name, &sg.Email, &sg.Message, &sg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		out = append(out, sg)
	}
	return out, rows.Err()
}

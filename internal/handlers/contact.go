package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"qaboard/internal/store"
)

// Contact stores messages from the contact form.
type Contact struct {
	suggestions *store.SuggestionStore
}

// NewContact creates the contact handler.
func NewContact(suggestions *store.SuggestionStore) *Contact {
	return &Contact{suggestions: suggestions}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Submit stores a suggestion.
func (h *Contact) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sg, err := h.suggestions.Create(r.Context(),
		strings.TrimSpace(req.Name),
		strings.ToLower(strings.TrimSpace(req.Email)),
		strings.TrimSpace(req.Message),
	)
	if err != nil {
		serverError(w, r, "store suggestion failed", err)
		return
	}
	slog.Info("suggestion received", "id", sg.ID)
	writeJSON(w, http.StatusCreated, sg)
}

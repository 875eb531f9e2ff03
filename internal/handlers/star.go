// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"qaboard/internal/metrics"
	"qaboard/internal/models"
	"qaboard/internal/weekly"
)

// StarService is the weekly star selection the handlers need.
type StarService interface {
	Select(ctx context.Context) (*models.WeeklyStar, error)
	Current(ctx context.Context) (*models.Question, error)
	History(ctx context.Context, limit int) ([]models.WeeklyStar, error)
}

// Star serves the weekly star question.
type Star struct {
	svc StarService
}

// NewStar creates the star handlers.
func NewStar(svc StarService) *Star {
	return &Star{svc: svc}
}

// Current returns the star question of this week, or the best question
// overall while this week has no star yet.
func (h *Star) Current(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Current(r.Context())
	switch {
	case errors.Is(err, weekly.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no star question yet"})
	case err != nil:
		h.unavailable(w, r, err)
	default:
		writeJSON(w, http.StatusOK, q)
	}
}

// Select runs selection for the current week.
func (h *Star) Select(w http.ResponseWriter, r *http.Request) {
	star, err := h.svc.Select(r.Context())
	metrics.RecordStarSelection("admin", weekly.Outcome(err))

	switch {
	case err == nil:
		slog.Info("weekly star selected",
			"week", star.Week, "year", star.Year, "question_id", star.QuestionID)
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "weekly star selected",
			"data":    star,
		})
	case errors.Is(err, weekly.ErrConflict):
		writeError(w, http.StatusConflict, "weekly star already selected")
	case errors.Is(err, weekly.ErrNoCandidate):
		writeError(w, http.StatusNotFound, "no questions this week")
	default:
		h.unavailable(w, r, err)
	}
}

// History lists past stars newest first.
func (h *Star) History(w http.ResponseWriter, r *http.Request) {
	stars, err := h.svc.History(r.Context(), queryLimit(r, 10, 52))
	if err != nil {
		h.unavailable(w, r, err)
		return
	}
	if stars == nil {
		stars = []models.WeeklyStar{}
	}
	writeJSON(w, http.StatusOK, stars)
}

func (h *Star) unavailable(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, weekly.ErrStorageUnavailable) {
		slog.Error("weekly star storage unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	serverError(w, r, "weekly star failed", err)
}

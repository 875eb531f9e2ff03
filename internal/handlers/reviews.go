// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"qaboard/internal/cache"
	"qaboard/internal/markdown"
	"qaboard/internal/middleware"
	"qaboard/internal/models"
	"qaboard/internal/store"
)

// Reviews serves product reviews and their counters.
type Reviews struct {
	reviews *store.ReviewStore
	feed    *cache.FeedCache
}

// NewReviews creates the review handler group. feed may be nil.
func NewReviews(reviews *store.ReviewStore, feed *cache.FeedCache) *Reviews {
	return &Reviews{reviews: reviews, feed: feed}
}

// List returns reviews with rendered descriptions, newest first or, with
// ?sort=top, by agreements.
func (h *Reviews) List(w http.ResponseWriter, r *http.Request) {
	top, ok := feedOrder(w, r)
	if !ok {
		return
	}
	key := cache.ReviewsKey()
	var out []models.Review
	if h.feed.Get(r.Context(), key, &out) {
		writeJSON(w, http.StatusOK, ordered(out, top))
		return
	}

	out, err := h.reviews.List(r.Context(), feedLimit)
	if err != nil {
		serverError(w, r, "list reviews failed", err)
		return
	}
	for i := range out {
		renderDescription(&out[i])
	}
	if out == nil {
		out = []models.Review{}
	}

	h.feed.Set(r.Context(), key, out)
	writeJSON(w, http.StatusOK, ordered(out, top))
}

func renderDescription(rv *models.Review) {
	html, err := markdown.ToHTML(rv.Description)
	if err != nil {
		slog.Warn("render review description", "review_id", rv.ID, "error", err)
		return
	}
	rv.DescriptionHTML = html
}

type createReviewRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=10000"`
	Rating      int    `json:"rating" validate:"required,gte=1,lte=5"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

// Create submits a review for the signed-in user.
func (h *Reviews) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rv, err := h.reviews.Create(r.Context(), store.NewReview{
		UserID:      middleware.SessionFromCtx(r.Context()).UserID,
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		Rating:      req.Rating,
		VideoURL:    optional(req.VideoURL),
		ImageURL:    optional(req.ImageURL),
	})
	if err != nil {
		serverError(w, r, "create review failed", err)
		return
	}
	renderDescription(rv)

	h.feed.Invalidate(r.Context(), cache.ReviewsKey())
	writeJSON(w, http.StatusCreated, rv)
}

type agreementRequest struct {
	ReviewID string `json:"review_id"`
}

// Agreements records one more "agree" on a review.
func (h *Reviews) Agreements(w http.ResponseWriter, r *http.Request) {
	var req agreementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ReviewID == "" {
		writeError(w, http.StatusBadRequest, "review_id is required")
		return
	}
	id, err := uuid.Parse(req.ReviewID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid review_id")
		return
	}

	n, ok, err := h.reviews.AddAgreement(r.Context(), id)
	if err != nil {
		serverError(w, r, "add agreement failed", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "review not found")
		return
	}

	h.feed.Invalidate(r.Context(), cache.ReviewsKey())
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "agreements": n})
}

// View counts a view of a review.
func (h *Reviews) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, found, err := h.reviews.AddView(r.Context(), id)
	if err != nil {
		serverError(w, r, "add view failed", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "review not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"views": n})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"qaboard/internal/cache"
	"qaboard/internal/engagement"
	"qaboard/internal/metrics"
	"qaboard/internal/middleware"
	"qaboard/internal/models"
	"qaboard/internal/store"
)

const feedLimit = 100

// Questions serves the question feed, replies and votes.
type Questions struct {
	questions *store.QuestionStore
	replies   *store.ReplyStore
	feed      *cache.FeedCache
}

// NewQuestions creates the question handler group. feed may be nil.
func NewQuestions(questions *store.QuestionStore, replies *store.ReplyStore, feed *cache.FeedCache) *Questions {
	return &Questions{questions: questions, replies: replies, feed: feed}
}

// Categories lists the fixed category set.
func (h *Questions) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Categories())
}

// List returns questions with their replies, optionally filtered by
// ?category=<slug>. Newest first by default; ?sort=top ranks by net score.
func (h *Questions) List(w http.ResponseWriter, r *http.Request) {
	top, ok := feedOrder(w, r)
	if !ok {
		return
	}
	slug := strings.TrimSpace(r.URL.Query().Get("category"))
	var category string
	if slug != "" {
		name, ok := models.CategoryBySlug(slug)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		category = name
	}

	key := cache.QuestionsKey(slug)
	var out []models.Question
	if h.feed.Get(r.Context(), key, &out) {
		writeJSON(w, http.StatusOK, ordered(out, top))
		return
	}

	out, err := h.questions.List(r.Context(), category, feedLimit)
	if err != nil {
		serverError(w, r, "list questions failed", err)
		return
	}
	if err := attachReplies(r.Context(), h.replies, out); err != nil {
		serverError(w, r, "list replies failed", err)
		return
	}
	if out == nil {
		out = []models.Question{}
	}

	h.feed.Set(r.Context(), key, out)
	writeJSON(w, http.StatusOK, ordered(out, top))
}

// feedOrder reads ?sort. It answers 400 for anything but "", "new" and "top".
func feedOrder(w http.ResponseWriter, r *http.Request) (top bool, ok bool) {
	switch r.URL.Query().Get("sort") {
	case "", "new":
		return false, true
	case "top":
		return true, true
	default:
		writeError(w, http.StatusBadRequest, "sort must be new or top")
		return false, false
	}
}

// ordered ranks a newest-first feed by engagement when top is set. Equal
// scores stay newest first.
func ordered[T engagement.Scoreable](items []T, top bool) []T {
	if !top {
		return items
	}
	return engagement.Rank(items)
}

// attachReplies fills Replies on each question in place.
func attachReplies(ctx context.Context, replies *store.ReplyStore, qs []models.Question) error {
	ids := make([]uuid.UUID, len(qs))
	for i := range qs {
		ids[i] = qs[i].ID
	}
	grouped, err := replies.ListForQuestions(ctx, ids)
	if err != nil {
		return err
	}
	for i := range qs {
		qs[i].Replies = grouped[qs[i].ID]
	}
	return nil
}

type createQuestionRequest struct {
	Content    string   `json:"content" validate:"required,min=3,max=5000"`
	Categories []string `json:"categories" validate:"required,min=1,max=5,dive,category"`
	ShowName   bool     `json:"show_name"`
	Country    string   `json:"country" validate:"max=100"`
}

// Create posts a question for the signed-in user.
func (h *Questions) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	q, err := h.questions.Create(r.Context(), store.NewQuestion{
		UserID:     sess.UserID,
		Content:    strings.TrimSpace(req.Content),
		Categories: req.Categories,
		ShowName:   req.ShowName,
		Country:    strings.TrimSpace(req.Country),
	})
	if err != nil {
		serverError(w, r, "create question failed", err)
		return
	}

	h.feed.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, q)
}

// Get returns one question with its replies.
func (h *Questions) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, err := h.questions.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find question failed", err)
		return
	}
	if q == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	one := []models.Question{*q}
	if err := attachReplies(r.Context(), h.replies, one); err != nil {
		serverError(w, r, "list replies failed", err)
		return
	}
	writeJSON(w, http.StatusOK, one[0])
}

// Like toggles the caller's like on a question.
func (h *Questions) Like(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, "question", h.questions.Vote, models.VoteLike)
}

// Dislike toggles the caller's dislike on a question.
func (h *Questions) Dislike(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, "question", h.questions.Vote, models.VoteDislike)
}

// LikeReply toggles the caller's like on a reply.
func (h *Questions) LikeReply(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, "reply", h.replies.Vote, models.VoteLike)
}

// DislikeReply toggles the caller's dislike on a reply.
func (h *Questions) DislikeReply(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, "reply", h.replies.Vote, models.VoteDislike)
}

type voteFunc func(ctx context.Context, id uuid.UUID, userID string, kind models.VoteKind) (*models.Votes, models.VoteKind, error)

type voteResponse struct {
	Likes    int             `json:"likes"`
	Dislikes int             `json:"dislikes"`
	Vote     models.VoteKind `json:"vote"`
}

func (h *Questions) vote(w http.ResponseWriter, r *http.Request, target string, apply voteFunc, kind models.VoteKind) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	votes, result, err := apply(r.Context(), id, sess.UserID.String(), kind)
	if err != nil {
		serverError(w, r, "vote failed", err)
		return
	}
	if votes == nil {
		writeError(w, http.StatusNotFound, target+" not found")
		return
	}

	metrics.RecordVote(target, string(result))
	h.feed.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, voteResponse{
		Likes:    votes.Likes,
		Dislikes: votes.Dislikes,
		Vote:     result,
	})
}

type createReplyRequest struct {
	Content     string `json:"content" validate:"max=5000"`
	ContentType string `json:"content_type" validate:"omitempty,oneof=text video"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
}

// CreateReply answers a question. Text replies need content; video
// replies need a video_url.
func (h *Questions) CreateReply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req createReplyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in := store.NewReply{
		QuestionID:  id,
		UserID:      middleware.SessionFromCtx(r.Context()).UserID,
		Content:     strings.TrimSpace(req.Content),
		ContentType: models.ReplyText,
	}
	if req.ContentType == string(models.ReplyVideo) {
		if req.VideoURL == "" {
			writeError(w, http.StatusBadRequest, "video_url is required for video replies")
			return
		}
		in.ContentType = models.ReplyVideo
		in.VideoURL = &req.VideoURL
	} else if in.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	reply, err := h.replies.Create(r.Context(), in)
	if err != nil {
		serverError(w, r, "create reply failed", err)
		return
	}
	if reply == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}

	h.feed.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, reply)
}

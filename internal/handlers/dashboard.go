package handlers

import (
	"net/http"

	"qaboard/internal/middleware"
	"qaboard/internal/models"
	"qaboard/internal/store"
)

// Dashboard shows a member their own activity.
type Dashboard struct {
	users     *store.UserStore
	questions *store.QuestionStore
	replies   *store.ReplyStore
}

// NewDashboard creates the dashboard handler.
func NewDashboard(users *store.UserStore, questions *store.QuestionStore, replies *store.ReplyStore) *Dashboard {
	return &Dashboard{users: users, questions: questions, replies: replies}
}

type dashboardResponse struct {
	User      *models.User      `json:"user"`
	Questions []models.Question `json:"questions"`
	Replies   []models.Reply    `json:"replies"`
}

// Show returns the user, their questions with replies, and the replies
// they wrote elsewhere with the question content attached.
func (h *Dashboard) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	user, err := h.users.FindByID(ctx, sess.UserID)
	if err != nil {
		serverError(w, r, "dashboard user failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	questions, err := h.questions.ListByUser(ctx, user.ID)
	if err != nil {
		serverError(w, r, "dashboard questions failed", err)
		return
	}
	if err := attachReplies(ctx, h.replies, questions); err != nil {
		serverError(w, r, "dashboard question replies failed", err)
		return
	}

	replies, err := h.replies.ListByUser(ctx, user.ID)
	if err != nil {
		serverError(w, r, "dashboard replies failed", err)
		return
	}

	resp := dashboardResponse{User: user, Questions: questions, Replies: replies}
	if resp.Questions == nil {
		resp.Questions = []models.Question{}
	}
	if resp.Replies == nil {
		resp.Replies = []models.Reply{}
	}
	writeJSON(w, http.StatusOK, resp)
}

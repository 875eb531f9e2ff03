// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"qaboard/internal/cache"
	"qaboard/internal/metrics"
	"qaboard/internal/models"
)

func TestCategories(t *testing.T) {
	rec := httptest.NewRecorder()
	NewQuestions(nil, nil, nil).Categories(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	var got []models.Category
	decodeBody(t, rec, &got)
	if len(got) != len(models.Categories()) || len(got) == 0 {
		t.Fatalf("categories = %v", got)
	}
	if got[0].Slug == "" || got[0].Name == "" {
		t.Errorf("first category = %+v", got[0])
	}
}

func TestListUnknownCategory(t *testing.T) {
	rec := httptest.NewRecorder()
	NewQuestions(nil, nil, nil).List(rec, httptest.NewRequest(http.MethodGet, "/api/questions?category=no-such-thing", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestListUnknownSort(t *testing.T) {
	for _, path := range []string{"/api/questions?sort=votes", "/api/questions?sort=TOP"} {
		rec := httptest.NewRecorder()
		NewQuestions(nil, nil, nil).List(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", path, rec.Code)
		}
	}
	rec := httptest.NewRecorder()
	NewReviews(nil, nil).List(rec, httptest.NewRequest(http.MethodGet, "/api/reviews?sort=best", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("reviews: got %d, want 400", rec.Code)
	}
}

func TestOrdered(t *testing.T) {
	question := func(content string, likes, dislikes int) models.Question {
		return models.Question{Content: content, Votes: models.Votes{Likes: likes, Dislikes: dislikes}}
	}
	// Newest first, as the store returns them.
	feed := []models.Question{
		question("newest", 1, 0),
		question("popular", 6, 1),
		question("tied", 1, 0),
		question("disliked", 0, 3),
	}
	contents := func(qs []models.Question) []string {
		out := make([]string, len(qs))
		for i, q := range qs {
			out[i] = q.Content
		}
		return out
	}

	if got := contents(ordered(feed, false)); !slices.Equal(got, []string{"newest", "popular", "tied", "disliked"}) {
		t.Errorf("new order = %v", got)
	}
	if got := contents(ordered(feed, true)); !slices.Equal(got, []string{"popular", "newest", "tied", "disliked"}) {
		t.Errorf("top order = %v", got)
	}
	if feed[0].Content != "newest" {
		t.Error("ordered must not reorder its input")
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	h := NewQuestions(nil, nil, nil)
	sess := testSession(uuid.New(), "m@test.local", "member", true)

	tests := []struct {
		name string
		body string
	}{
		{"no categories", `{"content":"What now?","categories":[]}`},
		{"unknown category", `{"content":"What now?","categories":["Astrology"]}`},
		{"no content", `{"categories":["` + models.Categories()[0].Name + `"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Create(rec, withSession(jsonRequest(t, http.MethodPost, "/api/questions", tt.body), sess))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateReplyValidation(t *testing.T) {
	h := NewQuestions(nil, nil, nil)
	sess := testSession(uuid.New(), "m@test.local", "member", true)

	tests := []struct {
		name string
		body string
	}{
		{"empty text", `{"content":"  "}`},
		{"video without url", `{"content_type":"video"}`},
		{"unknown type", `{"content":"hi","content_type":"audio"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withChiURLParam(jsonRequest(t, http.MethodPost, "/api/questions/x/replies", tt.body), "id", uuid.NewString())
			rec := httptest.NewRecorder()
			h.CreateReply(rec, withSession(req, sess))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestQuestionFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := env.testMember(t)
	voter := env.testMember(t)
	category := models.Categories()[0]

	rec := httptest.NewRecorder()
	env.Questions.Create(rec, withSession(jsonRequest(t, http.MethodPost, "/api/questions", map[string]any{
		"content":    "Where is the best coffee downtown?",
		"categories": []string{category.Name},
		"show_name":  false,
		"country":    "RO",
	}), member))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body.String())
	}
	var q models.Question
	decodeBody(t, rec, &q)
	if q.Identity.Name != "" {
		t.Errorf("hidden author leaked name %q", q.Identity.Name)
	}

	// Listing fills the cache.
	rec = httptest.NewRecorder()
	env.Questions.List(rec, httptest.NewRequest(http.MethodGet, "/api/questions?category="+category.Slug, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d", rec.Code)
	}
	var listed []models.Question
	if !env.Feed.Get(ctx, cache.QuestionsKey(category.Slug), &listed) {
		t.Error("list should populate the feed cache")
	}

	like := func() voteResponse {
		t.Helper()
		req := withChiURLParam(httptest.NewRequest(http.MethodPost, "/api/questions/"+q.ID.String()+"/like", nil), "id", q.ID.String())
		rec := httptest.NewRecorder()
		env.Questions.Like(rec, withSession(req, voter))
		if rec.Code != http.StatusOK {
			t.Fatalf("like: got %d, body %s", rec.Code, rec.Body.String())
		}
		var v voteResponse
		decodeBody(t, rec, &v)
		return v
	}

	withdrawn := metrics.Votes.WithLabelValues("question", "withdrawn")
	before := testutil.ToFloat64(withdrawn)

	if v := like(); v.Likes != 1 || v.Vote != models.VoteLike {
		t.Errorf("first like = %+v", v)
	}
	if env.Feed.Get(ctx, cache.QuestionsKey(category.Slug), &listed) {
		t.Error("vote should invalidate the feed cache")
	}
	if v := like(); v.Likes != 0 || v.Vote != "" {
		t.Errorf("second like should withdraw, got %+v", v)
	}
	if got := testutil.ToFloat64(withdrawn) - before; got != 1 {
		t.Errorf("withdrawn votes grew by %v, want 1", got)
	}

	// Reply, then fetch with replies attached.
	req := withChiURLParam(jsonRequest(t, http.MethodPost, "/api/questions/x/replies", map[string]string{
		"content": "Try the place on the corner.",
	}), "id", q.ID.String())
	rec = httptest.NewRecorder()
	env.Questions.CreateReply(rec, withSession(req, voter))
	if rec.Code != http.StatusCreated {
		t.Fatalf("reply: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	env.Questions.Get(rec, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", q.ID.String()))
	var got models.Question
	decodeBody(t, rec, &got)
	if len(got.Replies) != 1 {
		t.Errorf("replies = %d, want 1", len(got.Replies))
	}

	// Missing targets.
	missing := uuid.NewString()
	rec = httptest.NewRecorder()
	env.Questions.Get(rec, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", missing))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get missing: got %d, want 404", rec.Code)
	}
	rec = httptest.NewRecorder()
	req = withChiURLParam(jsonRequest(t, http.MethodPost, "/", map[string]string{"content": "hello"}), "id", missing)
	env.Questions.CreateReply(rec, withSession(req, voter))
	if rec.Code != http.StatusNotFound {
		t.Errorf("reply to missing: got %d, want 404", rec.Code)
	}
	rec = httptest.NewRecorder()
	env.Questions.DislikeReply(rec, withSession(withChiURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "id", missing), voter))
	if rec.Code != http.StatusNotFound {
		t.Errorf("vote on missing reply: got %d, want 404", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	member := env.testMember(t)

	rec := httptest.NewRecorder()
	env.Dashboard.Show(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/dashboard", nil), member))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var body dashboardResponse
	decodeBody(t, rec, &body)
	if body.User == nil || body.User.ID != member.UserID {
		t.Errorf("user = %+v", body.User)
	}
	if body.Questions == nil || body.Replies == nil {
		t.Error("empty lists should be [] not null")
	}
}

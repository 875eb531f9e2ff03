// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"qaboard/internal/models"
)

func TestQuestionStoreCreateAndList(t *testing.T) {
	db := testDB(t)
	s := NewQuestionStore(db)
	ctx := context.Background()
	userID := testUser(t, db)

	q, err := s.Create(ctx, NewQuestion{
		UserID:     userID,
		Content:    "store test question " + uuid.NewString(),
		Categories: []string{"AI", "Career"},
		ShowName:   true,
		Country:    "RO",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if q.AuthorName != "storetest" || q.Identity.Name != "storetest" {
		t.Errorf("author not joined: %+v", q.Identity)
	}
	if len(q.Categories) != 2 || !slices.Contains(q.Categories, "AI") {
		t.Errorf("categories: got %v", q.Categories)
	}
	if q.LikedBy == nil || q.DislikedBy == nil {
		t.Error("vote sets should scan as empty, not nil")
	}

	list, err := s.List(ctx, "AI", 50)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !containsQuestion(list, q.ID) {
		t.Error("question missing from category list")
	}

	other, err := s.List(ctx, "Politics", 50)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if containsQuestion(other, q.ID) {
		t.Error("question listed under a category it does not have")
	}

	mine, err := s.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("ListByUser: got %d, want 1", len(mine))
	}
}

func TestQuestionStoreVote(t *testing.T) {
	db := testDB(t)
	s := NewQuestionStore(db)
	ctx := context.Background()
	userID := testUser(t, db)

	q, err := s.Create(ctx, NewQuestion{UserID: userID, Content: "vote me"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	voter := uuid.NewString()

	v, kind, err := s.Vote(ctx, q.ID, voter, models.VoteLike)
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if kind != models.VoteLike || v.Likes != 1 || v.Dislikes != 0 {
		t.Errorf("after like: %v %+v", kind, v)
	}

	v, kind, _ = s.Vote(ctx, q.ID, voter, models.VoteDislike)
	if kind != models.VoteDislike || v.Likes != 0 || v.Dislikes != 1 {
		t.Errorf("after dislike: %v %+v", kind, v)
	}

	v, kind, _ = s.Vote(ctx, q.ID, voter, models.VoteDislike)
	if kind != "" || v.Likes != 0 || v.Dislikes != 0 {
		t.Errorf("after withdraw: %v %+v", kind, v)
	}

	missing, _, err := s.Vote(ctx, uuid.New(), voter, models.VoteLike)
	if err != nil || missing != nil {
		t.Errorf("vote on missing question: %+v, %v", missing, err)
	}
}

func TestQuestionStoreConcurrentVotes(t *testing.T) {
	db := testDB(t)
	s := NewQuestionStore(db)
	ctx := context.Background()
	userID := testUser(t, db)

	q, err := s.Create(ctx, NewQuestion{UserID: userID, Content: "popular"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const voters = 10
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := s.Vote(ctx, q.ID, uuid.NewString(), models.VoteLike); err != nil {
				t.Errorf("Vote: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.FindByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Likes != voters || len(got.LikedBy) != voters {
		t.Errorf("likes = %d (%d ids), want %d", got.Likes, len(got.LikedBy), voters)
	}
}

func TestQuestionStoreCreatedBetween(t *testing.T) {
	db := testDB(t)
	s := NewQuestionStore(db)
	ctx := context.Background()
	userID := testUser(t, db)

	from := time.Date(2031, 3, 3, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	insertAt := func(content string, at time.Time) uuid.UUID {
		var id uuid.UUID
		err := db.QueryRow(`
			INSERT INTO questions (content, user_id, created_at) VALUES ($1, $2, $3) RETURNING id
		`, content, userID, at).Scan(&id)
		if err != nil {
			t.Fatalf("insert %s: %v", content, err)
		}
		return id
	}

	first := insertAt("inside first", from)
	second := insertAt("inside second", from.Add(48*time.Hour))
	insertAt("before", from.Add(-time.Second))
	insertAt("at end", to)

	got, err := s.CreatedBetween(ctx, from, to)
	if err != nil {
		t.Fatalf("CreatedBetween: %v", err)
	}
	if len(got) != 2 || got[0].ID != first || got[1].ID != second {
		t.Errorf("CreatedBetween returned %d rows in wrong order: %+v", len(got), got)
	}
}

func containsQuestion(list []models.Question, id uuid.UUID) bool {
	for _, q := range list {
		if q.ID == id {
			return true
		}
	}
	return false
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"qaboard/internal/cache"
	"qaboard/internal/database"
	"qaboard/internal/middleware"
	"qaboard/internal/session"
	"qaboard/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "qaboard")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "qaboard")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "feed:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB          *sql.DB
	Valkey      *redis.Client
	Sessions    *session.Store
	Users       *store.UserStore
	QuestionDB  *store.QuestionStore
	ReplyDB     *store.ReplyStore
	ReviewDB    *store.ReviewStore
	Feed        *cache.FeedCache
	Auth        *Auth
	Questions   *Questions
	Reviews     *Reviews
	Dashboard   *Dashboard
	Contact     *Contact
	Suggestions *store.SuggestionStore
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	users := store.NewUserStore(db)
	questions := store.NewQuestionStore(db)
	replies := store.NewReplyStore(db)
	reviews := store.NewReviewStore(db)
	suggestions := store.NewSuggestionStore(db)
	feed := cache.NewFeedCache(vk, time.Minute)

	return &testEnv{
		DB:          db,
		Valkey:      vk,
		Sessions:    sessions,
		Users:       users,
		QuestionDB:  questions,
		ReplyDB:     replies,
		ReviewDB:    reviews,
		Feed:        feed,
		Auth:        NewAuth(sessions, users),
		Questions:   NewQuestions(questions, replies, feed),
		Reviews:     NewReviews(reviews, feed),
		Dashboard:   NewDashboard(users, questions, replies),
		Contact:     NewContact(suggestions),
		Suggestions: suggestions,
	}
}

// testMember registers a throwaway member, removed with everything it
// posted when the test ends.
func (e *testEnv) testMember(t *testing.T) *session.Data {
	t.Helper()

	email := "handler-" + uuid.NewString()[:8] + "@handler-test.local"
	u, err := e.Users.Create(context.Background(), store.NewUser{
		Username: "handlertest",
		Email:    &email,
		Password: "testpass123",
	})
	if err != nil {
		t.Fatalf("create test member: %v", err)
	}
	t.Cleanup(func() { e.DB.Exec("DELETE FROM users WHERE id = $1", u.ID) })

	return testSession(u.ID, email, "member", true)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, contact, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:    userID,
		Username:  "Test User",
		Contact:   contact,
		Role:      role,
		TwoFADone: twoFADone,
	}
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var payload string
	switch b := body.(type) {
	case nil:
	case string:
		payload = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = string(raw)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withSession adds session data to the request context.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), sess))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody unmarshals a recorded JSON response.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

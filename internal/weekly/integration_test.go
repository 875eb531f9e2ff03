//go:build integration

package weekly_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"qaboard/internal/database"
	"qaboard/internal/store"
	"qaboard/internal/weekly"
)

// setupTestDB starts a throwaway PostgreSQL container with the schema applied.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("qaboard"),
		postgres.WithUsername("qaboard"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Connect(ctx, dsn, database.PoolConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	goose.SetBaseFS(nil)
	return db
}

func seedQuestion(t *testing.T, db *sql.DB, userID string, content string, likes, dislikes int, at time.Time) string {
	t.Helper()
	var id string
	err := db.QueryRow(`
		INSERT INTO questions (content, user_id, likes, dislikes, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, content, userID, likes, dislikes, at).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestSelectorAgainstPostgres(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	var userID string
	require.NoError(t, db.QueryRow(`
		INSERT INTO users (username, email, password_hash) VALUES ('it', 'it@qaboard.test', 'x') RETURNING id
	`).Scan(&userID))

	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	monday := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	seedQuestion(t, db, userID, "qA", 4, 1, monday)
	qb := seedQuestion(t, db, userID, "qB", 7, 0, monday.Add(time.Hour))
	seedQuestion(t, db, userID, "old favourite", 50, 0, monday.AddDate(0, 0, -3))

	sel := weekly.NewSelector(store.NewStarStore(db), func() time.Time { return now })

	t.Run("select picks best of the week", func(t *testing.T) {
		star, err := sel.Select(ctx)
		require.NoError(t, err)
		assert.Equal(t, 10, star.Week)
		assert.Equal(t, 2024, star.Year)
		assert.Equal(t, qb, star.QuestionID.String())
	})

	t.Run("second select conflicts", func(t *testing.T) {
		_, err := sel.Select(ctx)
		assert.ErrorIs(t, err, weekly.ErrConflict)
	})

	t.Run("current returns the selected star", func(t *testing.T) {
		q, err := sel.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, qb, q.ID.String())
	})

	t.Run("concurrent current on a fresh week agrees", func(t *testing.T) {
		next := weekly.NewSelector(store.NewStarStore(db), func() time.Time { return now.AddDate(0, 0, 7) })

		const readers = 8
		ids := make([]string, readers)
		var wg sync.WaitGroup
		for i := 0; i < readers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				q, err := next.Current(ctx)
				if assert.NoError(t, err) {
					ids[i] = q.ID.String()
				}
			}(i)
		}
		wg.Wait()

		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}

		var rows int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM weekly_stars WHERE week = 11 AND year = 2024`).Scan(&rows))
		assert.Equal(t, 1, rows)
	})

	t.Run("history lists both weeks newest first", func(t *testing.T) {
		stars, err := sel.History(ctx, 10)
		require.NoError(t, err)
		require.Len(t, stars, 2)
		assert.Equal(t, 11, stars[0].Week)
		assert.NotNil(t, stars[0].Question)
	})
}

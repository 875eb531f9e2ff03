// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

const (
	seedAdminEmail  = "admin@qaboard.local"
	seedMemberEmail = "member@qaboard.local"
)

// sampleQuestions are posted by the seeded member on an empty board.
var sampleQuestions = []struct {
	content    string
	categories []string
}{
	{"What is one habit that changed your career?", []string{"Career", "Life"}},
	{"Which note-taking app do you actually stick with?", []string{"Technology", "Reviews"}},
	{"How do you stay consistent with workouts during exams?", []string{"Fitness", "College Life"}},
}

// Seed populates the database with initial development data: an admin
// (who must set up 2FA on first login), a member and a few questions. It
// does nothing if any user already exists.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := insertSeedUser(ctx, tx, "admin", seedAdminEmail, "admin", "admin"); err != nil {
		return err
	}
	memberID, err := insertSeedUser(ctx, tx, "member", seedMemberEmail, "member", "member")
	if err != nil {
		return err
	}

	for _, q := range sampleQuestions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO questions (content, categories, user_id, show_name)
			VALUES ($1, $2, $3, TRUE)
		`, q.content, q.categories, memberID); err != nil {
			return fmt.Errorf("seed insert question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development users",
		"admin", seedAdminEmail,
		"member", seedMemberEmail,
		"questions", len(sampleQuestions),
	)
	return nil
}

func insertSeedUser(ctx context.Context, tx *sql.Tx, username, email, password, role string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("seed bcrypt: %w", err)
	}

	var id string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, role, totp_enabled)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id
	`, username, email, string(hash), role).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("seed insert %s: %w", role, err)
	}
	return id, nil
}

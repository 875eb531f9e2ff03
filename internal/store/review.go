package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"qaboard/internal/models"
)

const reviewSelect = `
	SELECT rv.id, rv.user_id, rv.title, rv.category, rv.description, rv.rating,
		rv.video_url, rv.image_url, rv.agreements, rv.views, rv.created_at,
		u.username, u.image
	FROM reviews rv
	JOIN users u ON u.id = rv.user_id`

// ReviewStore handles reviews and their agreement/view counters.
type ReviewStore struct {
	db *sql.DB
}

// NewReviewStore creates a new ReviewStore.
func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

func scanReview(row scanner) (*models.Review, error) {
	r := &models.Review{}
	err := row.Scan(
		&r.ID, &r.UserID, &r.Title, &r.Category, &r.Description, &r.Rating,
		&r.VideoURL, &r.ImageURL, &r.Agreements, &r.Views, &r.CreatedAt,
		&r.AuthorName, &r.AuthorImage,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// NewReview holds the fields for submitting a review.
type NewReview struct {
	UserID      uuid.UUID
	Title       string
	Category    string
	Description string
	Rating      int
	VideoURL    *string
	ImageURL    *string
}

// Create inserts a review.
func (s *ReviewStore) Create(ctx context.Context, in NewReview) (*models.Review, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reviews (user_id, title, category, description, rating, video_url, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, in.UserID, in.Title, in.Category, in.Description, in.Rating, in.VideoURL, in.ImageURL).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return s.FindByID(ctx, id)
}

// FindByID retrieves a review. Returns nil if not found.
func (s *ReviewStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	r, err := scanReview(s.db.QueryRowContext(ctx, reviewSelect+` WHERE rv.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	return r, nil
}

// List returns reviews newest first.
func (s *ReviewStore) List(ctx context.Context, limit int) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx, reviewSelect+`
		ORDER BY rv.created_at DESC, rv.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// AddAgreement increments a review's agreement count and returns the new
// value. ok is false if the review does not exist.
func (s *ReviewStore) AddAgreement(ctx context.Context, id uuid.UUID) (count int, ok bool, err error) {
	return s.increment(ctx, id, "agreements")
}

// AddView increments a review's view count.
func (s *ReviewStore) AddView(ctx context.Context, id uuid.UUID) (count int, ok bool, err error) {
	return s.increment(ctx, id, "views")
}

// increment bumps a counter column. column is always a constant.
func (s *ReviewStore) increment(ctx context.Context, id uuid.UUID, column string) (int, bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		UPDATE reviews SET `+column+` = `+column+` + 1 WHERE id = $1 RETURNING `+column,
		id).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("increment review %s: %w", column, err)
	}
	return n, true, nil
}

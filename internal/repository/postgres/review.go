package postgres

import (
	"context"
	"database/sql"

	"travel/internal/domain"
	"travel/internal/repository"
)

// ReviewRepository is a PostgreSQL implementation of repository.ReviewRepository.
type ReviewRepository struct {
	q Querier
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{q: db}
}

// Create persists a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (listing_id, "user", rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		review.ListingID,
		review.User,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if isPQError(err, pqForeignKeyViolation) {
		return repository.ErrListingMissing
	}
	return err
}

// GetAll retrieves all reviews, newest first.
func (r *ReviewRepository) GetAll(ctx context.Context) ([]*domain.Review, error) {
	query := `
		SELECT id, listing_id, "user", rating, comment, created_at
		FROM reviews ORDER BY created_at DESC, id DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.ListingID,
			&review.User,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, &review)
	}

	return reviews, rows.Err()
}

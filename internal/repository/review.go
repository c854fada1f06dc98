package repository

import (
	"context"

	"travel/internal/domain"
)

// ReviewRepository defines the persistence operations for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetAll(ctx context.Context) ([]*domain.Review, error)
}

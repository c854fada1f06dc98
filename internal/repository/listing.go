package repository

import (
	"context"

	"travel/internal/domain"
)

// ListingRepository defines the persistence operations for listings.
type ListingRepository interface {
	// Create persists a new listing and fills in its ID and CreatedAt.
	Create(ctx context.Context, listing *domain.Listing) error

	// GetByID retrieves a listing by ID.
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)

	// GetAll retrieves all listings, newest first.
	GetAll(ctx context.Context) ([]*domain.Listing, error)
}

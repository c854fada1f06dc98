package repository

import (
	"context"

	"travel/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking and fills in its ID and CreatedAt.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID with its listing resolved.
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)

	// GetAll retrieves all bookings, newest first.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// UpdateStatus updates the status of a booking.
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

package repository

import (
	"context"

	"travel/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment and fills in its ID and timestamps.
	// Returns ErrDuplicateTxRef if the tx_ref is already taken.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByTxRef retrieves a payment by its transaction reference.
	GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error)

	// GetSuccessfulByBookingID retrieves the successful payment of a booking.
	// Returns nil if the booking has not been paid.
	GetSuccessfulByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)

	// Update writes the mutable fields of a payment and bumps UpdatedAt.
	Update(ctx context.Context, payment *domain.Payment) error
}

// Transactor runs fn with repositories bound to a single database transaction.
// The transaction is committed if fn returns nil and rolled back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(payments PaymentRepository, bookings BookingRepository) error) error
}

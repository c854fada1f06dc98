package postgres

import (
	"context"
	"database/sql"

	"travel/internal/repository"
)

// Querier is satisfied by *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Transactor is a PostgreSQL implementation of repository.Transactor.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a new Transactor.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn with transaction-scoped payment and booking repositories.
func (t *Transactor) WithinTx(ctx context.Context, fn func(payments repository.PaymentRepository, bookings repository.BookingRepository) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(NewPaymentRepositoryWithTx(tx), NewBookingRepositoryWithTx(tx)); err != nil {
		return err
	}

	return tx.Commit()
}

var _ repository.Transactor = (*Transactor)(nil)

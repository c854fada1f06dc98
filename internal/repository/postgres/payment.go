package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"travel/internal/domain"
	"travel/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `
	id, booking_id, tx_ref, chapa_reference, amount, currency, customer_email, customer_name,
	status, checkout_url, raw_initialize_response, raw_verify_response, created_at, updated_at
`

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			booking_id, tx_ref, chapa_reference, amount, currency, customer_email, customer_name,
			status, checkout_url, raw_initialize_response, raw_verify_response
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRowContext(ctx, query,
		payment.BookingID,
		payment.TxRef,
		payment.ChapaReference,
		payment.Amount,
		payment.Currency,
		payment.CustomerEmail,
		payment.CustomerName,
		payment.Status,
		payment.CheckoutURL,
		jsonArg(payment.RawInitializeResponse),
		jsonArg(payment.RawVerifyResponse),
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if isPQError(err, pqUniqueViolation) {
		return repository.ErrDuplicateTxRef
	}
	return err
}

// GetByTxRef retrieves a payment by its transaction reference.
func (r *PaymentRepository) GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tx_ref = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, txRef))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

// GetSuccessfulByBookingID retrieves the successful payment of a booking.
// Returns nil if the booking has not been paid.
func (r *PaymentRepository) GetSuccessfulByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments WHERE booking_id = $1 AND status = $2
		ORDER BY updated_at DESC LIMIT 1
	`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, bookingID, domain.PaymentStatusSuccess))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return payment, nil
}

// Update writes the mutable fields of a payment and bumps updated_at.
func (r *PaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET chapa_reference = $1, status = $2, checkout_url = $3,
		    raw_initialize_response = $4, raw_verify_response = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.q.QueryRowContext(ctx, query,
		payment.ChapaReference,
		payment.Status,
		payment.CheckoutURL,
		jsonArg(payment.RawInitializeResponse),
		jsonArg(payment.RawVerifyResponse),
		payment.ID,
	).Scan(&payment.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if isPQError(err, pqUniqueViolation) {
			return repository.ErrBookingAlreadyPaid
		}
		return err
	}

	return nil
}

func scanPayment(row *sql.Row) (*domain.Payment, error) {
	var payment domain.Payment
	var rawInit, rawVerify []byte

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.TxRef,
		&payment.ChapaReference,
		&payment.Amount,
		&payment.Currency,
		&payment.CustomerEmail,
		&payment.CustomerName,
		&payment.Status,
		&payment.CheckoutURL,
		&rawInit,
		&rawVerify,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(rawInit) > 0 {
		payment.RawInitializeResponse = json.RawMessage(rawInit)
	}
	if len(rawVerify) > 0 {
		payment.RawVerifyResponse = json.RawMessage(rawVerify)
	}

	return &payment, nil
}

// jsonArg converts a raw payload into a JSONB argument. lib/pq sends []byte
// as bytea, so the payload goes over the wire as text.
func jsonArg(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

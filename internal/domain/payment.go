package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = "ETB"

// Payment represents a hosted-checkout payment attempt for a booking.
type Payment struct {
	ID             int64
	BookingID      int64
	TxRef          string
	ChapaReference string
	Amount         decimal.Decimal
	Currency       string
	CustomerEmail  string
	CustomerName   string
	Status         PaymentStatus
	CheckoutURL    string

	// Raw gateway payloads kept for audit.
	RawInitializeResponse json.RawMessage
	RawVerifyResponse     json.RawMessage

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal reports whether the payment can no longer change status.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusSuccess || p.Status == PaymentStatusFailed
}

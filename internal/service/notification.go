package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"travel/internal/domain"
)

// NotificationType represents the type of notification. It doubles as the
// routing key on the message broker.
type NotificationType string

const (
	NotificationPaymentConfirmed NotificationType = "payment.confirmed"
)

// Publisher sends a message to the broker. Delivery is best-effort.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// PaymentConfirmation is the message consumed by the mailer.
type PaymentConfirmation struct {
	ID           string           `json:"id"`
	Type         NotificationType `json:"type"`
	BookingID    int64            `json:"booking_id"`
	TxRef        string           `json:"tx_ref"`
	Email        string           `json:"email"`
	CustomerName string           `json:"customer_name"`
	ListingTitle string           `json:"listing_title"`
	Amount       string           `json:"amount"`
	Currency     string           `json:"currency"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NotificationService enqueues customer notifications.
type NotificationService struct {
	publisher Publisher
}

// NewNotificationService creates a new NotificationService. With a nil
// publisher notifications are only logged.
func NewNotificationService(publisher Publisher) *NotificationService {
	return &NotificationService{publisher: publisher}
}

// NotifyPaymentConfirmed enqueues the confirmation email for a successful payment.
// booking may be nil when it could not be loaded.
func (s *NotificationService) NotifyPaymentConfirmed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	msg := PaymentConfirmation{
		ID:           uuid.New().String(),
		Type:         NotificationPaymentConfirmed,
		BookingID:    payment.BookingID,
		TxRef:        payment.TxRef,
		Email:        payment.CustomerEmail,
		CustomerName: payment.CustomerName,
		Amount:       payment.Amount.StringFixed(2),
		Currency:     payment.Currency,
		CreatedAt:    time.Now().UTC(),
	}
	if booking != nil && booking.Listing != nil {
		msg.ListingTitle = booking.Listing.Title
	}

	return s.send(ctx, string(msg.Type), msg)
}

func (s *NotificationService) send(ctx context.Context, routingKey string, msg PaymentConfirmation) error {
	log.Printf("[NOTIFICATION] Type=%s, Booking=%d, TxRef=%s", msg.Type, msg.BookingID, msg.TxRef)

	if s.publisher == nil {
		return nil
	}
	return s.publisher.Publish(ctx, routingKey, msg)
}

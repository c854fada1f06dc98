package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"travel/internal/service"
)

const paymentConfirmedSubject = "Your booking payment was successful"

// Worker turns payment confirmation messages into emails.
type Worker struct {
	sender Sender
	from   string
}

// NewWorker creates a new Worker.
func NewWorker(sender Sender, from string) *Worker {
	return &Worker{sender: sender, from: from}
}

// Run handles deliveries until msgs is closed or ctx is done.
func (w *Worker) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("[MAILER] delivery channel closed, stopping worker")
				return
			}
			w.handleMessage(ctx, msg)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var confirmation service.PaymentConfirmation
	if err := json.Unmarshal(msg.Body, &confirmation); err != nil {
		log.Printf("[MAILER] failed to unmarshal: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	if strings.TrimSpace(confirmation.Email) == "" {
		_ = msg.Ack(false)
		return
	}

	if err := w.sender.Send(ctx, RenderPaymentConfirmation(w.from, confirmation)); err != nil {
		// Retry once; a redelivered message that fails again is dropped.
		requeue := !msg.Redelivered
		log.Printf("[MAILER] sending confirmation for %s failed (requeue=%t): %v", confirmation.TxRef, requeue, err)
		_ = msg.Nack(false, requeue)
		return
	}

	log.Printf("[MAILER] sent confirmation for booking %d to %s", confirmation.BookingID, confirmation.Email)
	_ = msg.Ack(false)
}

// RenderPaymentConfirmation builds the confirmation email.
func RenderPaymentConfirmation(from string, c service.PaymentConfirmation) Message {
	var body strings.Builder
	body.WriteString("Thank you for your payment.\n\n")
	fmt.Fprintf(&body, "Booking ID: %d\n", c.BookingID)
	if c.ListingTitle != "" {
		fmt.Fprintf(&body, "Listing: %s\n", c.ListingTitle)
	}
	fmt.Fprintf(&body, "Transaction reference: %s\n", c.TxRef)
	fmt.Fprintf(&body, "Amount: %s %s\n", c.Amount, c.Currency)

	return Message{
		From:    from,
		To:      c.Email,
		Subject: paymentConfirmedSubject,
		Body:    body.String(),
	}
}

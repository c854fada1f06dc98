package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcknowledger struct {
	acked    int
	nacked   int
	requeued bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked++
	a.requeued = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func delivery(ack *fakeAcknowledger, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, Body: []byte(body)}
}

func TestWorker_SendsConfirmation(t *testing.T) {
	sender := &recordingSender{}
	worker := NewWorker(sender, "no-reply@example.com")
	ack := &fakeAcknowledger{}

	worker.handleMessage(context.Background(), delivery(ack,
		`{"booking_id":7,"tx_ref":"booking-7-abc","email":"guest@example.com","listing_title":"Lake House","amount":"300.00","currency":"ETB"}`))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "guest@example.com", msg.To)
	assert.Equal(t, "no-reply@example.com", msg.From)
	assert.Equal(t, "Your booking payment was successful", msg.Subject)
	assert.Contains(t, msg.Body, "Booking ID: 7")
	assert.Contains(t, msg.Body, "Listing: Lake House")
	assert.Contains(t, msg.Body, "Transaction reference: booking-7-abc")
	assert.Contains(t, msg.Body, "Amount: 300.00 ETB")
	assert.Equal(t, 1, ack.acked)
}

func TestWorker_MissingRecipientIsSilentlyAcked(t *testing.T) {
	sender := &recordingSender{}
	worker := NewWorker(sender, "no-reply@example.com")
	ack := &fakeAcknowledger{}

	worker.handleMessage(context.Background(), delivery(ack, `{"booking_id":7,"tx_ref":"booking-7-abc","email":""}`))

	assert.Empty(t, sender.sent)
	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, 0, ack.nacked)
}

func TestWorker_MalformedMessageIsDropped(t *testing.T) {
	worker := NewWorker(&recordingSender{}, "no-reply@example.com")
	ack := &fakeAcknowledger{}

	worker.handleMessage(context.Background(), delivery(ack, `not json`))

	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeued)
}

func TestWorker_SendFailureRequeues(t *testing.T) {
	worker := NewWorker(&recordingSender{err: errors.New("relay down")}, "no-reply@example.com")
	ack := &fakeAcknowledger{}

	worker.handleMessage(context.Background(), delivery(ack, `{"booking_id":1,"tx_ref":"booking-1-x","email":"a@b.c"}`))

	assert.Equal(t, 1, ack.nacked)
	assert.True(t, ack.requeued)
}

func TestWorker_RedeliveredSendFailureIsDropped(t *testing.T) {
	worker := NewWorker(&recordingSender{err: errors.New("relay down")}, "no-reply@example.com")
	ack := &fakeAcknowledger{}

	msg := delivery(ack, `{"booking_id":1,"tx_ref":"booking-1-x","email":"a@b.c"}`)
	msg.Redelivered = true
	worker.handleMessage(context.Background(), msg)

	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeued)
}

func TestWorker_RunStopsWhenChannelCloses(t *testing.T) {
	sender := &recordingSender{}
	worker := NewWorker(sender, "no-reply@example.com")
	ack := &fakeAcknowledger{}

	msgs := make(chan amqp.Delivery, 2)
	msgs <- delivery(ack, `{"booking_id":1,"tx_ref":"booking-1-x","email":"a@b.c"}`)
	msgs <- delivery(ack, `{"booking_id":2,"tx_ref":"booking-2-y","email":"d@e.f"}`)
	close(msgs)

	worker.Run(context.Background(), msgs)

	assert.Len(t, sender.sent, 2)
	assert.Equal(t, 2, ack.acked)
}

func TestFormatMessage_UsesCRLF(t *testing.T) {
	raw := string(formatMessage(Message{From: "a@b.c", To: "d@e.f", Subject: "Hi", Body: "line1\nline2"}))

	assert.Contains(t, raw, "Subject: Hi\r\n")
	assert.Contains(t, raw, "line1\r\nline2")
}

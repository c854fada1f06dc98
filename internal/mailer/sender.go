package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Message is an outgoing plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ConsoleSender writes emails to the log instead of sending them.
type ConsoleSender struct{}

// Send logs the message.
func (ConsoleSender) Send(ctx context.Context, msg Message) error {
	log.Printf("[MAILER] To=%s Subject=%q\n%s", msg.To, msg.Subject, msg.Body)
	return nil
}

// SMTPSender sends email through an SMTP relay.
type SMTPSender struct {
	Addr     string
	Username string
	Password string
}

// Send delivers the message with PLAIN auth when credentials are set.
func (s SMTPSender) Send(ctx context.Context, msg Message) error {
	var auth smtp.Auth
	if s.Username != "" {
		host := s.Addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", s.Username, s.Password, host)
	}

	if err := smtp.SendMail(s.Addr, auth, msg.From, []string{msg.To}, formatMessage(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

func formatMessage(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

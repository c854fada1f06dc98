package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"travel/internal/config"
	"travel/internal/mailer"
	"travel/internal/queue"
	"travel/internal/service"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer, err := queue.NewConsumer(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.Queue,
		string(service.NotificationPaymentConfirmed),
	)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	worker := mailer.NewWorker(newSender(cfg.Mail), cfg.Mail.From)

	log.Printf("[MAILER] consuming %s (backend=%s)", cfg.RabbitMQ.Queue, cfg.Mail.Backend)
	worker.Run(ctx, msgs)
	log.Println("[MAILER] stopped")
}

func newSender(cfg config.MailConfig) mailer.Sender {
	if cfg.Backend == "smtp" {
		return mailer.SMTPSender{
			Addr:     cfg.SMTPAddr,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}
	}
	return mailer.ConsoleSender{}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AnshRaj112/inkwell-backend/internal/config"
	"github.com/AnshRaj112/inkwell-backend/internal/logger"
	"github.com/AnshRaj112/inkwell-backend/internal/mail"
)

// The mailer consumes the mail queue filled by the server when
// MAIL_TRANSPORT=queue and delivers every message over SMTP.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.SetupDefault(os.Stdout, cfg.Environment)

	if err := run(cfg); err != nil {
		slog.Error("mailer stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return fmt.Errorf("connect amqp: %w", err)
	}
	defer conn.Close()

	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := mail.NewWorker(conn, sender, cfg.MailQueue)
	if err := worker.Start(ctx); err != nil {
		return err
	}
	slog.Info("✅ Mailer consuming", slog.String("queue", cfg.MailQueue), slog.String("smtp_host", cfg.SMTPHost))

	<-ctx.Done()
	slog.Info("shutting down mailer...")
	worker.Close()
	return nil
}

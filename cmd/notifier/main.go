package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Skotchmaster/dairy_shop/internal/config"
	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/notify"
)

func main() {
	cfg := config.Load(".env")
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName+"-notifier")

	if err := cfg.ValidateNotifier(); err != nil {
		logger.Error("config_error", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	sender := notify.NewSMTPSender(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     from,
	})
	if len(cfg.AdminEmails) == 0 {
		logger.Warn("admin_emails_empty", "reason", "order_placed mail will be skipped")
	}

	consumer := notify.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.OrderEventsTopic, &notify.Dispatcher{
		Sender:      sender,
		AdminEmails: cfg.AdminEmails,
		Log:         logger,
	}, logger)
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Error("consumer_close_error", "error", err)
		}
	}()

	logger.Info("notifier_start", "topic", cfg.OrderEventsTopic, "group", cfg.KafkaGroupID)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("notifier_exit", "error", err)
		os.Exit(1)
	}
	logger.Info("notifier_stopped")
}

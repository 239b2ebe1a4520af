// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command mailworker drains the mail queue filled by the API when
// MAIL_DRIVER=queue and delivers each job through Mailgun behind a circuit
// breaker. Deliveries are consumed one at a time.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/mailer"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With(slog.String("app", constants.AppName), slog.String("process", "mailworker"))
	slog.SetDefault(log)

	cfg, err := config.LoadMailWorker()
	must(log, err, "load configuration")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	connection, err := amqp.Dial(cfg.RabbitMQURL)
	must(log, err, "connect to rabbitmq")
	defer connection.Close()

	channel, err := connection.Channel()
	must(log, err, "open channel")
	defer channel.Close()

	must(log, mailer.DeclareQueue(channel, cfg.MailQueue), "declare queue")
	must(log, channel.Qos(1, 0, false), "set prefetch")

	deliveries, err := channel.Consume(cfg.MailQueue, "yamdb-mailworker", false, false, false, false, nil)
	must(log, err, "start consuming")

	driver := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunBaseURL, cfg.MailFrom)
	worker := mailer.NewWorker(mailer.NewBreaker(driver, mailer.DefaultBreakerSettings, log), log)

	log.Info("mailworker_started", slog.String("queue", cfg.MailQueue))

	if err := worker.Run(ctx, deliveries); err != nil {
		log.Error("mailworker_stopped", slog.Any("error", err))
		cancel()
		os.Exit(1)
	}

	log.Info("mailworker_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup failure", slog.String("context", step), slog.Any("error", err))
		os.Exit(1)
	}
}

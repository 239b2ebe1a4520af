// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer delivers outgoing mail: confirmation codes sent at sign-up.

# Drivers

  - [LogMailer]: writes the message to the structured log (development).
  - [Mailgun]: sends through the Mailgun HTTP API.
  - [Breaker]: wraps another Mailer in a circuit breaker.
  - [QueuePublisher]: enqueues an [EmailJob] on RabbitMQ; cmd/mailworker
    consumes the queue with a [Worker] delivering through Breaker(Mailgun).

Callers treat delivery as best-effort: a failed send is logged, never
surfaced to the API client.
*/
package mailer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/metrics"
)

// Message is a plain-text mail addressed to one recipient.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Mailer sends a single message.
type Mailer interface {
	Send(ctx context.Context, message Message) error
}

// # Log Driver

// LogMailer writes messages to the logger instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer returns a [LogMailer] writing to logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements [Mailer].
func (mailer *LogMailer) Send(ctx context.Context, message Message) error {
	mailer.logger.InfoContext(ctx, "mail_logged",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("text", message.Text),
	)
	metrics.MailDeliveriesTotal.WithLabelValues("log", "sent").Inc()
	return nil
}

// # Templates

// ConfirmationSubject is the subject line of the sign-up mail.
const ConfirmationSubject = "YaMDb registration confirmation"

// ConfirmationMessage builds the mail carrying a confirmation code.
func ConfirmationMessage(to, username, code string) Message {
	var text strings.Builder
	text.WriteString("Hello, ")
	text.WriteString(username)
	text.WriteString("!\n\nYour confirmation_code: ")
	text.WriteString(code)
	text.WriteString("\n\nExchange it for an access token at POST /api/v1/auth/token.\n")

	return Message{To: to, Subject: ConfirmationSubject, Text: text.String()}
}

// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/taibuivan/yamdb/internal/platform/metrics"
)

// Worker delivers queued [EmailJob]s through a [Mailer].
type Worker struct {
	next   Mailer
	logger *slog.Logger
}

// NewWorker returns a worker sending through next.
func NewWorker(next Mailer, logger *slog.Logger) *Worker {
	return &Worker{next: next, logger: logger}
}

/*
Handle processes one delivery.

  - Sent: acked.
  - Malformed body: nacked without requeue; retrying cannot fix it.
  - Send failure: nacked with requeue so another attempt follows.
*/
func (worker *Worker) Handle(ctx context.Context, delivery amqp.Delivery) error {
	job, err := DecodeJob(delivery.Body)
	if err != nil {
		worker.logger.Error("mail_job_rejected",
			slog.String("message_id", delivery.MessageId),
			slog.Any("error", err),
		)
		metrics.MailDeliveriesTotal.WithLabelValues("worker", "rejected").Inc()
		return delivery.Nack(false, false)
	}

	if err := worker.next.Send(ctx, job.Message()); err != nil {
		worker.logger.Warn("mail_job_failed",
			slog.String("job_id", job.ID),
			slog.Bool("circuit_open", errors.Is(err, ErrCircuitOpen)),
			slog.Any("error", err),
		)
		metrics.MailDeliveriesTotal.WithLabelValues("worker", "retried").Inc()
		return delivery.Nack(false, true)
	}

	worker.logger.Info("mail_job_delivered", slog.String("job_id", job.ID))
	return delivery.Ack(false)
}

// Run consumes deliveries until ctx is cancelled or the channel closes.
func (worker *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("mailer: delivery channel closed")
			}
			if err := worker.Handle(ctx, delivery); err != nil {
				return fmt.Errorf("mailer_ack_failed: %w", err)
			}
		}
	}
}

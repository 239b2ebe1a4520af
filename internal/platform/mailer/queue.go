// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// EmailJob is the queued form of a [Message].
type EmailJob struct {
	ID       string    `json:"id"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Text     string    `json:"text"`
	QueuedAt time.Time `json:"queued_at"`
}

// Message converts the job back into a deliverable message.
func (job EmailJob) Message() Message {
	return Message{To: job.To, Subject: job.Subject, Text: job.Text}
}

// DecodeJob parses a queued job body. A job without a recipient is rejected.
func DecodeJob(body []byte) (EmailJob, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return EmailJob{}, fmt.Errorf("mailer_decode_job_failed: %w", err)
	}
	if job.To == "" {
		return EmailJob{}, fmt.Errorf("mailer_decode_job_failed: job %q has no recipient", job.ID)
	}
	return job, nil
}

// Publisher is the part of [*amqp.Channel] the queue driver uses.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueuePublisher enqueues mail on a durable RabbitMQ queue.
type QueuePublisher struct {
	conn    *amqp.Connection
	channel Publisher
	queue   string
}

// DeclareQueue declares the durable mail queue on channel. Both the API and
// the worker call it so either may start first.
func DeclareQueue(channel *amqp.Channel, queue string) error {
	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("mailer_queue_declare_failed: %w", err)
	}
	return nil
}

// NewQueuePublisher dials url and declares queue.
func NewQueuePublisher(url, queue string) (*QueuePublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("mailer_amqp_dial_failed: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("mailer_amqp_channel_failed: %w", err)
	}

	if err := DeclareQueue(channel, queue); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, err
	}

	return &QueuePublisher{conn: conn, channel: channel, queue: queue}, nil
}

// NewQueuePublisherOn publishes on an already opened channel. The caller
// owns the channel's lifecycle.
func NewQueuePublisherOn(channel Publisher, queue string) *QueuePublisher {
	return &QueuePublisher{channel: channel, queue: queue}
}

// Send implements [Mailer] by publishing a persistent [EmailJob].
func (driver *QueuePublisher) Send(ctx context.Context, message Message) error {
	job := EmailJob{
		ID:       uuid.New(),
		To:       message.To,
		Subject:  message.Subject,
		Text:     message.Text,
		QueuedAt: time.Now().UTC(),
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("mailer_encode_job_failed: %w", err)
	}

	err = driver.channel.PublishWithContext(ctx,
		"",           // default exchange
		driver.queue, // routing key = queue
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    job.ID,
			Timestamp:    job.QueuedAt,
			Body:         body,
		},
	)
	if err != nil {
		metrics.MailDeliveriesTotal.WithLabelValues("queue", "failed").Inc()
		return fmt.Errorf("mailer_publish_failed: %w", err)
	}

	metrics.MailDeliveriesTotal.WithLabelValues("queue", "queued").Inc()
	return nil
}

// Close releases the channel and connection.
func (driver *QueuePublisher) Close() error {
	if driver == nil || driver.conn == nil {
		return nil
	}
	if channel, ok := driver.channel.(*amqp.Channel); ok {
		_ = channel.Close()
	}
	return driver.conn.Close()
}

// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/taibuivan/yamdb/internal/platform/metrics"
)

// sendTimeout bounds one Mailgun API call.
const sendTimeout = 10 * time.Second

// mailgunClient is the part of the Mailgun SDK this driver uses.
type mailgunClient interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, message *mailgun.Message) (string, string, error)
}

// Mailgun sends mail through the Mailgun HTTP API.
type Mailgun struct {
	client mailgunClient
	sender string
}

// NewMailgun configures a Mailgun driver. baseURL is optional and selects a
// regional endpoint such as [mailgun.APIBaseEU].
func NewMailgun(domain, apiKey, baseURL, sender string) *Mailgun {
	client := mailgun.NewMailgun(domain, apiKey)
	if baseURL != "" {
		client.SetAPIBase(baseURL)
	}
	return &Mailgun{client: client, sender: sender}
}

// Send implements [Mailer].
func (driver *Mailgun) Send(ctx context.Context, message Message) error {
	payload := driver.client.NewMessage(driver.sender, message.Subject, message.Text, message.To)

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, _, err := driver.client.Send(sendCtx, payload); err != nil {
		metrics.MailDeliveriesTotal.WithLabelValues("mailgun", "failed").Inc()
		return fmt.Errorf("mailer_mailgun_send_failed: %w", err)
	}

	metrics.MailDeliveriesTotal.WithLabelValues("mailgun", "sent").Inc()
	return nil
}

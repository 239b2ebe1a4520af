// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/taibuivan/yamdb/internal/platform/metrics"
)

// ErrCircuitOpen is returned while the breaker rejects sends.
var ErrCircuitOpen = errors.New("mailer: circuit open")

// BreakerSettings tunes [Breaker].
type BreakerSettings struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// OpenTimeout is how long the circuit stays open before a probe is let through.
	OpenTimeout time.Duration
	// ProbeRequests is the number of requests allowed while half-open.
	ProbeRequests uint32
}

// DefaultBreakerSettings keeps a flapping provider from stalling sign-ups.
var DefaultBreakerSettings = BreakerSettings{
	FailureThreshold: 5,
	OpenTimeout:      30 * time.Second,
	ProbeRequests:    1,
}

// Breaker wraps a [Mailer] in a circuit breaker. While open, Send fails fast
// with [ErrCircuitOpen] instead of waiting on the provider.
type Breaker struct {
	next    Mailer
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewBreaker wraps next.
func NewBreaker(next Mailer, settings BreakerSettings, logger *slog.Logger) *Breaker {
	cbSettings := gobreaker.Settings{
		Name:        "mailer",
		MaxRequests: settings.ProbeRequests,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("mailer_circuit_state_changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &Breaker{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](cbSettings),
	}
}

// Send implements [Mailer].
func (b *Breaker) Send(ctx context.Context, message Message) error {
	_, err := b.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Send(ctx, message)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.MailDeliveriesTotal.WithLabelValues("breaker", "rejected").Inc()
		return fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}
	return err
}

// State reports the current breaker state ("closed", "half-open", "open").
func (b *Breaker) State() string {
	return b.breaker.State().String()
}

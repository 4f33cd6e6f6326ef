package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/events"
	pkgkafka "github.com/loanspur/loanspur-nexus-finance-sub006/pkg/kafka"
)

// Publisher is satisfied by *pkgkafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// OutboxRelay forwards committed outbox rows to Kafka. Delivery is
// at-least-once: a crash between publish and mark republishes the batch.
type OutboxRelay struct {
	repo      events.OutboxRepository
	publisher Publisher
	topic     string
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewOutboxRelay(
	repo events.OutboxRepository,
	publisher Publisher,
	topic string,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *OutboxRelay {
	return &OutboxRelay{
		repo:      repo,
		publisher: publisher,
		topic:     topic,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run polls until ctx is cancelled. Failed polls are logged and retried on
// the next tick.
func (r *OutboxRelay) Run(ctx context.Context) error {
	r.logger.Info("outbox relay starting", "topic", r.topic, "interval", r.interval.String())
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		// Drain full batches before waiting for the next tick.
		for {
			n, err := r.RelayOnce(ctx)
			if err != nil {
				if ctx.Err() == nil {
					r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
				}
				break
			}
			if n < r.batchSize {
				break
			}
		}

		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopping")
			return nil
		case <-ticker.C:
		}
	}
}

// RelayOnce publishes one batch and returns how many entries it sent.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	entries, err := r.repo.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch unpublished: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	messages := make([]pkgkafka.Message, 0, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		r.logger.DebugContext(ctx, "relaying domain event",
			"event_type", e.EventType,
			"aggregate_id", e.AggregateID,
			"tenant_id", e.TenantID,
			"topic", r.topic,
			"payload_size", len(e.Payload),
		)
		messages = append(messages, pkgkafka.Message{
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Headers: map[string]string{
				"event_type": e.EventType,
				"event_id":   e.ID,
				"tenant_id":  e.TenantID,
			},
		})
		ids = append(ids, e.ID)
	}

	if err := r.publisher.Publish(ctx, r.topic, messages...); err != nil {
		return 0, fmt.Errorf("publish %d events to topic %s: %w", len(messages), r.topic, err)
	}
	if err := r.repo.MarkPublished(ctx, ids); err != nil {
		return 0, fmt.Errorf("mark published: %w", err)
	}
	return len(entries), nil
}

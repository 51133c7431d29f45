// Package outboxrelay drains PENDING outbox rows to a Kafka topic. Delivery
// is at-least-once: a crash between publish and mark re-publishes the event.
package outboxrelay

import (
	"context"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/hts-platform/order-intake/metrics"
	"github.com/hts-platform/order-intake/models"
	"github.com/hts-platform/order-intake/repository"
)

// Publisher is satisfied by *kafka.Writer.
type Publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// EventSource is satisfied by *repository.OutboxRepository.
type EventSource interface {
	FetchPending(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	MarkPublished(ctx context.Context, id int64) error
}

var _ EventSource = (*repository.OutboxRepository)(nil)

type Relay struct {
	Repo      EventSource
	Writer    Publisher
	Logger    *zap.Logger
	Interval  time.Duration
	BatchSize int
}

func New(repo EventSource, writer Publisher, logger *zap.Logger) *Relay {
	return &Relay{
		Repo:      repo,
		Writer:    writer,
		Logger:    logger,
		Interval:  500 * time.Millisecond,
		BatchSize: 100,
	}
}

// Run polls until the context is canceled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.DrainOnce(ctx); err != nil {
				r.Logger.Error("outbox drain failed", zap.Error(err))
			}
		}
	}
}

// DrainOnce publishes one batch and returns how many events were delivered.
// Events are marked PUBLISHED one by one so a mid-batch failure never loses
// an event, only re-delivers it.
func (r *Relay) DrainOnce(ctx context.Context) (int, error) {
	events, err := r.Repo.FetchPending(ctx, r.BatchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, e := range events {
		if err := r.publish(ctx, e); err != nil {
			metrics.OutboxPublished.WithLabelValues("failed").Inc()
			r.Logger.Error("publish outbox event failed",
				zap.Int64("eventId", e.ID),
				zap.Int64("aggregateId", e.AggregateID),
				zap.Error(err))
			return published, err
		}
		if err := r.Repo.MarkPublished(ctx, e.ID); err != nil {
			return published, err
		}
		metrics.OutboxPublished.WithLabelValues("published").Inc()
		published++
	}
	return published, nil
}

func (r *Relay) publish(ctx context.Context, e models.OutboxEvent) error {
	return r.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(e.AggregateID, 10)),
		Value: e.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.EventType)},
		},
	})
}

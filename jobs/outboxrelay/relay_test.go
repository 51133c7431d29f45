package outboxrelay

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hts-platform/order-intake/models"
)

type fakeSource struct {
	pending   []models.OutboxEvent
	published []int64
}

func (f *fakeSource) FetchPending(_ context.Context, limit int) ([]models.OutboxEvent, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeSource) MarkPublished(_ context.Context, id int64) error {
	f.published = append(f.published, id)
	var rest []models.OutboxEvent
	for _, e := range f.pending {
		if e.ID != id {
			rest = append(rest, e)
		}
	}
	f.pending = rest
	return nil
}

type fakeWriter struct {
	messages []kafka.Message
	failOn   int // 1-based message index that errors, 0 = never
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		if f.failOn != 0 && len(f.messages)+1 == f.failOn {
			return errors.New("broker unreachable")
		}
		f.messages = append(f.messages, m)
	}
	return nil
}

func event(id, aggregateID int64) models.OutboxEvent {
	return models.OutboxEvent{
		ID:          id,
		EventType:   models.EventOrderPlaced,
		AggregateID: aggregateID,
		Payload:     []byte(`{"orderId":1}`),
		Status:      models.OutboxPending,
	}
}

func TestDrainOncePublishesInOrder(t *testing.T) {
	source := &fakeSource{pending: []models.OutboxEvent{event(1, 100), event(2, 200)}}
	writer := &fakeWriter{}
	relay := New(source, writer, zap.NewNop())

	n, err := relay.DrainOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int64{1, 2}, source.published)
	require.Len(t, writer.messages, 2)
	assert.Equal(t, "100", string(writer.messages[0].Key))
	require.Len(t, writer.messages[0].Headers, 1)
	assert.Equal(t, models.EventOrderPlaced, string(writer.messages[0].Headers[0].Value))
}

func TestDrainOnceStopsAtPublishFailure(t *testing.T) {
	source := &fakeSource{pending: []models.OutboxEvent{event(1, 100), event(2, 200), event(3, 300)}}
	writer := &fakeWriter{failOn: 2}
	relay := New(source, writer, zap.NewNop())

	n, err := relay.DrainOnce(context.Background())

	require.Error(t, err)
	assert.Equal(t, 1, n)
	// Event 2 stays PENDING and is retried on the next tick.
	assert.Equal(t, []int64{1}, source.published)
	assert.Len(t, source.pending, 2)
}

func TestDrainOnceEmpty(t *testing.T) {
	relay := New(&fakeSource{}, &fakeWriter{}, zap.NewNop())

	n, err := relay.DrainOnce(context.Background())

	require.NoError(t, err)
	assert.Zero(t, n)
}

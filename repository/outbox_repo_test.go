package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hts-platform/order-intake/models"
)

func TestOutboxFetchAndPublish(t *testing.T) {
	db := testDB(t)
	orders := NewOrderWriteRepository(db)
	outbox := NewOutboxRepository(db)
	ctx := context.Background()

	order := testOrder(900006, 42)
	cleanupOrder(t, db, order.OrderID)
	require.NoError(t, orders.PersistOrder(ctx, order))

	events, err := outbox.FetchPending(ctx, 1000)
	require.NoError(t, err)

	var found *models.OutboxEvent
	for i := range events {
		if events[i].AggregateID == order.OrderID {
			found = &events[i]
		}
	}
	require.NotNil(t, found, "persisted order must surface a pending event")
	assert.Equal(t, models.EventOrderPlaced, found.EventType)
	assert.NotEmpty(t, found.Payload)

	require.NoError(t, outbox.MarkPublished(ctx, found.ID))
	// Not pending anymore: a second mark is an error.
	assert.Error(t, outbox.MarkPublished(ctx, found.ID))
}

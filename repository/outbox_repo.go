package repository

import (
	"context"
	"fmt"

	"github.com/hts-platform/order-intake/db/postgres/providers"
	"github.com/hts-platform/order-intake/models"
)

type OutboxRepository struct {
	DBHelper *providers.DBHelper
}

func NewOutboxRepository(db *providers.DBHelper) *OutboxRepository {
	return &OutboxRepository{DBHelper: db}
}

// FetchPending returns up to limit undelivered events in insertion order.
func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	query := `
		SELECT id, event_type, aggregate_id, payload, status
		FROM outbox
		WHERE status = 'PENDING'
		ORDER BY id ASC
		LIMIT $1`
	rows, err := r.DBHelper.PostgresClient.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.OutboxEvent
	for rows.Next() {
		var e models.OutboxEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.AggregateID, &e.Payload, &e.Status); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// MarkPublished moves one event out of the PENDING set.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id int64) error {
	query := `UPDATE outbox SET status = 'PUBLISHED' WHERE id = $1 AND status = 'PENDING'`
	res, err := r.DBHelper.PostgresClient.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("outbox event %d not pending", id)
	}
	return nil
}

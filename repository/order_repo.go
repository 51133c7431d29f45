package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hts-platform/order-intake/db/postgres/providers"
	"github.com/hts-platform/order-intake/models"
)

var (
	// ErrNotEligible means the guarded cancel matched no row: unknown order,
	// wrong owner, or a status already past RECEIVED/ACCEPTED.
	ErrNotEligible = errors.New("order not eligible for cancel")

	// ErrPersistFailed means the order+outbox transaction did not take effect.
	ErrPersistFailed = errors.New("failed to persist order")
)

type OrderWriteRepository struct {
	DBHelper *providers.DBHelper
}

func NewOrderWriteRepository(db *providers.DBHelper) *OrderWriteRepository {
	return &OrderWriteRepository{DBHelper: db}
}

// PersistOrder inserts the order row and its ORDER_PLACED outbox row in one
// transaction. Anything other than exactly one row per insert rolls back.
func (r *OrderWriteRepository) PersistOrder(ctx context.Context, order *models.Order) error {
	payload, err := order.OutboxPayload()
	if err != nil {
		return fmt.Errorf("serialize outbox payload for order %d: %w", order.OrderID, err)
	}

	tx, err := r.DBHelper.PostgresClient.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	orderRows, err := r.insertOrder(ctx, tx, order)
	if err != nil {
		return fmt.Errorf("insert order %d: %w", order.OrderID, err)
	}

	outboxRows, err := r.insertOutbox(ctx, tx, order, models.EventOrderPlaced, payload)
	if err != nil {
		return fmt.Errorf("insert outbox for order %d: %w", order.OrderID, err)
	}

	if orderRows != 1 || outboxRows != 1 {
		err = fmt.Errorf("%w: orderRows=%d, outboxRows=%d", ErrPersistFailed, orderRows, outboxRows)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit order %d: %w", order.OrderID, err)
	}
	return nil
}

func (r *OrderWriteRepository) insertOrder(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error) {
	query := `
		INSERT INTO orders (order_id, account_id, symbol, side, order_type, quantity, price, time_in_force, status, reserve_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	res, err := tx.ExecContext(ctx, query,
		order.OrderID, order.AccountID, order.Symbol, order.Side, order.OrderType,
		order.Quantity, order.Price, order.TimeInForce, order.Status, order.ReserveID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *OrderWriteRepository) insertOutbox(ctx context.Context, tx *sql.Tx, order *models.Order, eventType string, payload []byte) (int64, error) {
	query := `
		INSERT INTO outbox (event_type, aggregate_id, payload, status)
		VALUES ($1, $2, $3, 'PENDING')`
	res, err := tx.ExecContext(ctx, query, eventType, order.OrderID, payload)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CancelInfo is what the guarded transition reads back: enough to pick the
// matching release operation.
type CancelInfo struct {
	Side      models.Side
	ReserveID string
}

// MarkCancelRequested flips an owned RECEIVED/ACCEPTED order to
// CANCEL_REQUESTED and returns its side and reserve id from the same
// statement. A concurrent cancel loses the race by matching zero rows.
func (r *OrderWriteRepository) MarkCancelRequested(ctx context.Context, orderID, accountID int64) (*CancelInfo, error) {
	query := `
		UPDATE orders SET status = 'CANCEL_REQUESTED'
		WHERE order_id = $1 AND account_id = $2 AND status IN ('RECEIVED', 'ACCEPTED')
		RETURNING side, reserve_id`

	var info CancelInfo
	err := r.DBHelper.PostgresClient.QueryRowContext(ctx, query, orderID, accountID).
		Scan(&info.Side, &info.ReserveID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotEligible
		}
		return nil, fmt.Errorf("cancel update for order %d: %w", orderID, err)
	}
	return &info, nil
}

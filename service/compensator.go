package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hts-platform/order-intake/accountclient"
	"github.com/hts-platform/order-intake/metrics"
)

// CompensationExecutor undoes a previously successful reservation. It is a
// standalone capability for a supervising process (e.g. a reconciliation job
// reading stuck reservations); the placement saga never calls it inline.
// One shot: a failed release is logged and reported, not queued for retry.
type CompensationExecutor struct {
	Accounts accountclient.Gateway
	Logger   *zap.Logger
}

func NewCompensationExecutor(accounts accountclient.Gateway, logger *zap.Logger) *CompensationExecutor {
	return &CompensationExecutor{Accounts: accounts, Logger: logger}
}

func (c *CompensationExecutor) CompensateCashReserve(ctx context.Context, accountID int64, reserveID string) error {
	c.Logger.Warn("compensating cash reserve",
		zap.Int64("accountId", accountID),
		zap.String("reserveId", reserveID))

	if _, err := c.Accounts.ReleaseCash(ctx, accountID, reserveID); err != nil {
		c.Logger.Error("compensation failed for cash reserve",
			zap.Int64("accountId", accountID),
			zap.String("reserveId", reserveID),
			zap.Error(err))
		metrics.Compensations.WithLabelValues("cash", "failed").Inc()
		return err
	}
	metrics.Compensations.WithLabelValues("cash", "released").Inc()
	return nil
}

func (c *CompensationExecutor) CompensatePositionReserve(ctx context.Context, accountID int64, reserveID string) error {
	c.Logger.Warn("compensating position reserve",
		zap.Int64("accountId", accountID),
		zap.String("reserveId", reserveID))

	if _, err := c.Accounts.ReleasePosition(ctx, accountID, reserveID); err != nil {
		c.Logger.Error("compensation failed for position reserve",
			zap.Int64("accountId", accountID),
			zap.String("reserveId", reserveID),
			zap.Error(err))
		metrics.Compensations.WithLabelValues("position", "failed").Inc()
		return err
	}
	metrics.Compensations.WithLabelValues("position", "released").Inc()
	return nil
}

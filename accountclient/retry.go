package accountclient

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/hts-platform/order-intake/metrics"
)

// ErrUnavailable marks a call that failed after exhausting retries. The
// orchestrator must treat it differently from a business rejection: the
// remote reservation state is unknown.
var ErrUnavailable = errors.New("account service unavailable")

const (
	callTimeout = 100 * time.Millisecond
	maxRetries  = 3
	retryDelay  = 10 * time.Millisecond
	retryJitter = 5 * time.Millisecond
)

// Client is the fault-tolerant wrapper around a Gateway transport. Repeating
// an attempt is safe because reserve ids are caller-stable and the account
// service deduplicates by them.
type Client struct {
	gateway Gateway
	logger  *zap.Logger
}

func NewClient(gateway Gateway, logger *zap.Logger) *Client {
	return &Client{gateway: gateway, logger: logger}
}

func (c *Client) call(ctx context.Context, op string, fn func(ctx context.Context) (*Reply, error)) (*Reply, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			metrics.AccountCallRetries.WithLabelValues(op).Inc()
			select {
			case <-time.After(retryDelay + time.Duration(rand.Int63n(int64(retryJitter)))):
			case <-ctx.Done():
				metrics.AccountCallFailures.WithLabelValues(op).Inc()
				return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, op, ctx.Err())
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, callTimeout)
		reply, err := fn(attemptCtx)
		cancel()
		if err == nil {
			return reply, nil
		}

		lastErr = err
		c.logger.Warn("account service call failed",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	metrics.AccountCallFailures.WithLabelValues(op).Inc()
	return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, op, lastErr)
}

func (c *Client) ReserveCash(ctx context.Context, accountID, amountMicroUnits int64, currency, reserveID, orderID string) (*Reply, error) {
	return c.call(ctx, "ReserveCash", func(ctx context.Context) (*Reply, error) {
		return c.gateway.ReserveCash(ctx, accountID, amountMicroUnits, currency, reserveID, orderID)
	})
}

func (c *Client) ReleaseCash(ctx context.Context, accountID int64, reserveID string) (*Reply, error) {
	return c.call(ctx, "ReleaseCash", func(ctx context.Context) (*Reply, error) {
		return c.gateway.ReleaseCash(ctx, accountID, reserveID)
	})
}

func (c *Client) ReservePosition(ctx context.Context, accountID int64, symbol string, quantity int64, reserveID, orderID string) (*Reply, error) {
	return c.call(ctx, "ReservePosition", func(ctx context.Context) (*Reply, error) {
		return c.gateway.ReservePosition(ctx, accountID, symbol, quantity, reserveID, orderID)
	})
}

func (c *Client) ReleasePosition(ctx context.Context, accountID int64, reserveID string) (*Reply, error) {
	return c.call(ctx, "ReleasePosition", func(ctx context.Context) (*Reply, error) {
		return c.gateway.ReleasePosition(ctx, accountID, reserveID)
	})
}

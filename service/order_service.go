package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/hts-platform/order-intake/accountclient"
	"github.com/hts-platform/order-intake/metrics"
	"github.com/hts-platform/order-intake/models"
	"github.com/hts-platform/order-intake/repository"
)

const reserveCurrency = "USD"

// OrderStore is what the orchestrator needs from the durable store.
type OrderStore interface {
	PersistOrder(ctx context.Context, order *models.Order) error
	MarkCancelRequested(ctx context.Context, orderID, accountID int64) (*repository.CancelInfo, error)
}

// OrderCommandService drives the placement and cancellation sagas. Steps
// within one request run strictly in sequence: reserve, then persist, then
// respond. Racing cancels are arbitrated by the store's guarded update, not
// by any in-process lock.
type OrderCommandService struct {
	Accounts accountclient.Gateway
	Store    OrderStore
	IDs      *IDGenerator
	Logger   *zap.Logger
}

func NewOrderCommandService(accounts accountclient.Gateway, store OrderStore, logger *zap.Logger) *OrderCommandService {
	return &OrderCommandService{
		Accounts: accounts,
		Store:    store,
		IDs:      NewIDGenerator(),
		Logger:   logger,
	}
}

// HandlePlace validates the request, reserves funds or position with the
// account service, and persists the order with its outbox event. Every path
// returns a ServiceResult; no error escapes.
func (s *OrderCommandService) HandlePlace(ctx context.Context, req *models.PlaceOrderRequest) *models.ServiceResult {
	accountID := s.extractAccountID(req.SessionID)
	if accountID <= 0 {
		metrics.OrdersPlaced.WithLabelValues(string(models.StatusRejected), "invalid_session").Inc()
		return models.Failure(models.StatusRejected, "Invalid session")
	}

	side := models.Side(req.Side)
	if side != models.SideBuy && side != models.SideSell {
		metrics.OrdersPlaced.WithLabelValues(string(models.StatusRejected), "invalid_side").Inc()
		return models.Failure(models.StatusRejected, "Invalid side")
	}

	orderID := s.IDs.NextOrderID()
	reserveID := s.IDs.NextReserveID()

	order := models.NewOrder(orderID, accountID, req.Symbol, side,
		models.OrderType(req.OrderType), req.Quantity, req.Price.Int64(),
		req.TimeInForce, reserveID)

	if side == models.SideBuy {
		return s.placeBuy(ctx, order)
	}
	return s.placeSell(ctx, order)
}

func (s *OrderCommandService) placeBuy(ctx context.Context, order *models.Order) *models.ServiceResult {
	reply, err := s.Accounts.ReserveCash(ctx, order.AccountID, order.NotionalMicroUnits(),
		reserveCurrency, order.ReserveID, strconv.FormatInt(order.OrderID, 10))
	if err != nil {
		// Remote state is unknown here; no compensation is attempted.
		s.Logger.Error("reserve cash call failed",
			zap.Int64("accountId", order.AccountID),
			zap.Int64("orderId", order.OrderID),
			zap.String("reserveId", order.ReserveID),
			zap.Error(err))
		metrics.OrdersPlaced.WithLabelValues(string(models.StatusRejected), "account_unavailable").Inc()
		return models.Failure(models.StatusRejected, "Account service unavailable")
	}

	if !reply.IsSuccess() {
		s.Logger.Warn("cash reserve rejected",
			zap.Int64("accountId", order.AccountID),
			zap.Int64("orderId", order.OrderID),
			zap.String("code", string(reply.Code)))
		metrics.OrdersPlaced.WithLabelValues(string(models.StatusRejected), "insufficient_funds").Inc()
		return models.Failure(models.StatusRejected, "Insufficient funds")
	}

	return s.persist(ctx, order)
}

func (s *OrderCommandService) placeSell(ctx context.Context, order *models.Order) *models.ServiceResult {
	reply, err := s.Accounts.ReservePosition(ctx, order.AccountID, order.Symbol,
		order.Quantity, order.ReserveID, strconv.FormatInt(order.OrderID, 10))
	if err != nil {
		s.Logger.Error("reserve position call failed",
			zap.Int64("accountId", order.AccountID),
			zap.Int64("orderId", order.OrderID),
			zap.String("reserveId", order.ReserveID),
			zap.Error(err))
		metrics.OrdersPlaced.WithLabelValues(string(models.StatusRejected), "account_unavailable").Inc()
		return models.Failure(models.StatusRejected, "Account service unavailable")
	}

	if !reply.IsSuccess() {
		s.Logger.Warn("position reserve rejected",
			zap.Int64("accountId", order.AccountID),
			zap.Int64("orderId", order.OrderID),
			zap.String("symbol", order.Symbol),
			zap.String("code", string(reply.Code)))
		metrics.OrdersPlaced.WithLabelValues(string(models.StatusRejected), "insufficient_position").Inc()
		return models.Failure(models.StatusRejected, "Insufficient position")
	}

	return s.persist(ctx, order)
}

func (s *OrderCommandService) persist(ctx context.Context, order *models.Order) *models.ServiceResult {
	if err := s.Store.PersistOrder(ctx, order); err != nil {
		// The reservation made just before this is left held; reconciliation
		// by reserve id is the supervising process's job.
		s.Logger.Error("persist order failed",
			zap.Int64("accountId", order.AccountID),
			zap.Int64("orderId", order.OrderID),
			zap.String("reserveId", order.ReserveID),
			zap.Error(err))
		metrics.OrdersPlaced.WithLabelValues(string(models.StatusRejected), "db_error").Inc()
		return models.Failure(models.StatusRejected, "Database error")
	}

	metrics.OrdersPlaced.WithLabelValues(string(models.StatusAccepted), "").Inc()
	return models.Success(order.OrderID)
}

// HandleCancel runs the guarded transition and then releases the reservation
// recorded on the order. A failed release never downgrades the outcome.
func (s *OrderCommandService) HandleCancel(ctx context.Context, req *models.CancelOrderRequest) *models.ServiceResult {
	accountID := s.extractAccountID(req.SessionID)
	if accountID <= 0 {
		metrics.CancelRequests.WithLabelValues(string(models.StatusRejected)).Inc()
		return models.Failure(models.StatusRejected, "Invalid session")
	}

	info, err := s.Store.MarkCancelRequested(ctx, req.OrderID, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotEligible) {
			s.Logger.Warn("order not eligible for cancel",
				zap.Int64("orderId", req.OrderID),
				zap.Int64("accountId", accountID))
		} else {
			s.Logger.Error("cancel update failed",
				zap.Int64("orderId", req.OrderID),
				zap.Int64("accountId", accountID),
				zap.Error(err))
		}
		metrics.CancelRequests.WithLabelValues(string(models.StatusRejected)).Inc()
		return models.Failure(models.StatusRejected, "Order not found or database error")
	}

	return s.releaseReserve(ctx, accountID, req.OrderID, info)
}

func (s *OrderCommandService) releaseReserve(ctx context.Context, accountID, orderID int64, info *repository.CancelInfo) *models.ServiceResult {
	var err error
	if info.Side == models.SideBuy {
		_, err = s.Accounts.ReleaseCash(ctx, accountID, info.ReserveID)
	} else {
		_, err = s.Accounts.ReleasePosition(ctx, accountID, info.ReserveID)
	}

	metrics.CancelRequests.WithLabelValues(string(models.StatusCancelRequested)).Inc()
	if err != nil {
		s.Logger.Error("failed to release reserve",
			zap.Int64("accountId", accountID),
			zap.Int64("orderId", orderID),
			zap.String("reserveId", info.ReserveID),
			zap.String("side", string(info.Side)),
			zap.Error(err))
		return models.ResultOf(models.StatusCancelRequested, orderID, "Cancel requested (release failed)")
	}
	return models.ResultOf(models.StatusCancelRequested, orderID, "Cancel requested")
}

func (s *OrderCommandService) extractAccountID(sessionID string) int64 {
	if sessionID == "" {
		s.Logger.Warn("empty sessionId provided")
		return 0
	}
	id, err := strconv.ParseInt(sessionID, 10, 64)
	if err != nil {
		s.Logger.Warn("failed to parse accountId from sessionId",
			zap.String("sessionId", sessionID),
			zap.Error(err))
		return 0
	}
	return id
}

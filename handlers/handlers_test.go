package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hts-platform/order-intake/accountclient"
	"github.com/hts-platform/order-intake/models"
	"github.com/hts-platform/order-intake/repository"
	"github.com/hts-platform/order-intake/service"
)

type stubGateway struct{}

func (stubGateway) ReserveCash(context.Context, int64, int64, string, string, string) (*accountclient.Reply, error) {
	return &accountclient.Reply{Code: accountclient.CodeSuccess}, nil
}

func (stubGateway) ReleaseCash(context.Context, int64, string) (*accountclient.Reply, error) {
	return &accountclient.Reply{Code: accountclient.CodeSuccess}, nil
}

func (stubGateway) ReservePosition(context.Context, int64, string, int64, string, string) (*accountclient.Reply, error) {
	return &accountclient.Reply{Code: accountclient.CodeSuccess}, nil
}

func (stubGateway) ReleasePosition(context.Context, int64, string) (*accountclient.Reply, error) {
	return &accountclient.Reply{Code: accountclient.CodeSuccess}, nil
}

type stubStore struct {
	cancelInfo *repository.CancelInfo
	cancelErr  error
}

func (s *stubStore) PersistOrder(context.Context, *models.Order) error { return nil }

func (s *stubStore) MarkCancelRequested(context.Context, int64, int64) (*repository.CancelInfo, error) {
	return s.cancelInfo, s.cancelErr
}

func newTestRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	svc := service.NewOrderCommandService(stubGateway{}, store, logger)
	h := NewOrderHandler(svc, logger)

	router := gin.New()
	router.POST("/api/orders", h.PlaceOrder)
	router.DELETE("/api/orders/:id", h.CancelOrder)
	return router
}

func TestPlaceOrderEndpoint(t *testing.T) {
	router := newTestRouter(&stubStore{})

	body := `{
		"symbol": "AAPL",
		"side": "BUY",
		"order_type": "LIMIT",
		"quantity": 10,
		"price": "1.50",
		"time_in_force": "DAY",
		"session_id": "42"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusAccepted, resp.Status)
	assert.Positive(t, resp.OrderID)
	assert.Positive(t, resp.Timestamp)
}

func TestPlaceOrderSessionFromHeader(t *testing.T) {
	router := newTestRouter(&stubStore{})

	body := `{"symbol":"AAPL","side":"BUY","order_type":"LIMIT","quantity":1,"price":100,"time_in_force":"DAY"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("X-Session-Id", "42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusAccepted, resp.Status)
}

func TestPlaceOrderRejectionPassesThrough(t *testing.T) {
	router := newTestRouter(&stubStore{})

	// Bad session is a business rejection, still HTTP 200.
	body := `{"symbol":"AAPL","side":"BUY","order_type":"LIMIT","quantity":1,"price":100,"time_in_force":"DAY","session_id":"nope"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusRejected, resp.Status)
	assert.Equal(t, "Invalid session", resp.Message)
	assert.Zero(t, resp.OrderID)
}

func TestPlaceOrderValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"symbol":`},
		{"missing quantity", `{"symbol":"AAPL","side":"BUY","order_type":"LIMIT","price":100,"time_in_force":"DAY","session_id":"42"}`},
		{"bad order type", `{"symbol":"AAPL","side":"BUY","order_type":"WEIRD","quantity":1,"price":100,"time_in_force":"DAY","session_id":"42"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubStore{})
			req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCancelOrderEndpoint(t *testing.T) {
	router := newTestRouter(&stubStore{
		cancelInfo: &repository.CancelInfo{Side: models.SideBuy, ReserveID: "rsv-1"},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/orders/777", nil)
	req.Header.Set("X-Session-Id", "42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusCancelRequested, resp.Status)
	assert.Equal(t, int64(777), resp.OrderID)
}

func TestCancelOrderBadID(t *testing.T) {
	router := newTestRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodDelete, "/api/orders/xyz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelOrderNotFound(t *testing.T) {
	router := newTestRouter(&stubStore{cancelErr: repository.ErrNotEligible})

	req := httptest.NewRequest(http.MethodDelete, "/api/orders/777", nil)
	req.Header.Set("X-Session-Id", "42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusRejected, resp.Status)
	assert.Equal(t, "Order not found or database error", resp.Message)
}

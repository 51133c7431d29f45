package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hts-platform/order-intake/models"
	"github.com/hts-platform/order-intake/service"
	"github.com/hts-platform/order-intake/utils"
)

const sessionHeader = "X-Session-Id"

type OrderHandler struct {
	Service   *service.OrderCommandService
	Validator *validator.Validate
	Logger    *zap.Logger
}

func NewOrderHandler(s *service.OrderCommandService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		Service:   s,
		Validator: utils.GetValidator(),
		Logger:    logger,
	}
}

func formatValidationError(err error) map[string]string {
	errors := make(map[string]string)
	for _, e := range err.(validator.ValidationErrors) {
		errors[e.Field()] = "failed on tag '" + e.Tag() + "'"
	}
	return errors
}

// POST /orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.GetHeader(sessionHeader)
	}

	if err := h.Validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"validation_errors": formatValidationError(err)})
		return
	}

	h.Logger.Info("place order",
		zap.String("symbol", req.Symbol),
		zap.String("side", req.Side),
		zap.Int64("quantity", req.Quantity),
		zap.Int64("price", req.Price.Int64()))

	result := h.Service.HandlePlace(c.Request.Context(), &req)
	c.JSON(http.StatusOK, models.ResponseFrom(result))
}

// DELETE /orders/:id
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	req := models.CancelOrderRequest{
		OrderID:   orderID,
		SessionID: c.GetHeader(sessionHeader),
	}

	h.Logger.Info("cancel order", zap.Int64("orderId", req.OrderID))

	result := h.Service.HandleCancel(c.Request.Context(), &req)
	c.JSON(http.StatusOK, models.ResponseFrom(result))
}

package models

import "time"

// OrderResponse is the wire reply for both placement and cancellation.
type OrderResponse struct {
	OrderID   int64       `json:"order_id"`
	Status    OrderStatus `json:"status"`
	Message   string      `json:"message,omitempty"`
	Timestamp int64       `json:"timestamp"` // milliseconds since epoch
}

func ResponseFrom(result *ServiceResult) *OrderResponse {
	return &OrderResponse{
		OrderID:   result.OrderID,
		Status:    result.Status,
		Message:   result.Message,
		Timestamp: time.Now().UnixMilli(),
	}
}

package models

// ServiceResult is the single outcome type every orchestrator operation
// returns. No error value crosses the service boundary; failures are folded
// into a REJECTED result with a caller-facing message.
type ServiceResult struct {
	Status  OrderStatus `json:"status"`
	OrderID int64       `json:"order_id"` // 0 when no order was assigned
	Message string      `json:"message"`
}

func Success(orderID int64) *ServiceResult {
	return &ServiceResult{Status: StatusAccepted, OrderID: orderID, Message: ""}
}

func Failure(status OrderStatus, message string) *ServiceResult {
	return &ServiceResult{Status: status, OrderID: 0, Message: message}
}

func ResultOf(status OrderStatus, orderID int64, message string) *ServiceResult {
	return &ServiceResult{Status: status, OrderID: orderID, Message: message}
}

func (r *ServiceResult) IsSuccess() bool {
	return r.Status == StatusAccepted
}

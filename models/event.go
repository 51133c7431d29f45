package models

import "encoding/json"

const EventOrderPlaced = "ORDER_PLACED"

const (
	OutboxPending   = "PENDING"
	OutboxPublished = "PUBLISHED"
)

// OutboxEvent is written in the same transaction as its order row and drained
// later by a separate publisher.
type OutboxEvent struct {
	ID          int64  `json:"id"`
	EventType   string `json:"event_type"`
	AggregateID int64  `json:"aggregate_id"`
	Payload     []byte `json:"payload"`
	Status      string `json:"status"`
}

type orderPlacedPayload struct {
	OrderID   int64  `json:"orderId"`
	AccountID int64  `json:"accountId"`
	Symbol    string `json:"symbol"`
	Side      Side   `json:"side"`
	Quantity  int64  `json:"quantity"`
	Price     int64  `json:"price"`
}

// OutboxPayload serializes the fields downstream consumers key on.
func (o *Order) OutboxPayload() ([]byte, error) {
	return json.Marshal(orderPlacedPayload{
		OrderID:   o.OrderID,
		AccountID: o.AccountID,
		Symbol:    o.Symbol,
		Side:      o.Side,
		Quantity:  o.Quantity,
		Price:     o.Price,
	})
}

package models

type Side string
type OrderType string
type TimeInForce string
type OrderStatus string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"

	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"

	TimeInForceDay TimeInForce = "DAY"
	TimeInForceIOC TimeInForce = "IOC"
	TimeInForceGTC TimeInForce = "GTC"

	StatusReceived        OrderStatus = "RECEIVED"
	StatusAccepted        OrderStatus = "ACCEPTED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusCancelRequested OrderStatus = "CANCEL_REQUESTED"
)

// Order is the full snapshot persisted on placement. It is built once with
// status RECEIVED; later status changes go through guarded repository updates,
// never by rebuilding the value.
type Order struct {
	OrderID     int64       `json:"order_id"`
	AccountID   int64       `json:"account_id"`
	Symbol      string      `json:"symbol"`
	Side        Side        `json:"side"`
	OrderType   OrderType   `json:"order_type"`
	Quantity    int64       `json:"quantity"`
	Price       int64       `json:"price"` // micro units of the quote currency
	TimeInForce TimeInForce `json:"time_in_force"`
	Status      OrderStatus `json:"status"`
	ReserveID   string      `json:"reserve_id"`
}

func NewOrder(orderID, accountID int64, symbol string, side Side, orderType OrderType,
	quantity, price int64, tif TimeInForce, reserveID string) *Order {
	return &Order{
		OrderID:     orderID,
		AccountID:   accountID,
		Symbol:      symbol,
		Side:        side,
		OrderType:   orderType,
		Quantity:    quantity,
		Price:       price,
		TimeInForce: tif,
		Status:      StatusReceived,
		ReserveID:   reserveID,
	}
}

// NotionalMicroUnits is the cash amount a BUY must reserve.
func (o *Order) NotionalMicroUnits() int64 {
	return o.Price * o.Quantity
}

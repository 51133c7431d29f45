package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MicroUnits accepts either a JSON number already in micro units, or a JSON
// decimal string in whole currency units ("1.50" → 1_500_000).
type MicroUnits int64

var microFactor = decimal.NewFromInt(1_000_000)

func (m *MicroUnits) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty price")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("invalid decimal price %q: %w", s, err)
		}
		*m = MicroUnits(d.Mul(microFactor).IntPart())
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = MicroUnits(n)
	return nil
}

func (m MicroUnits) Int64() int64 { return int64(m) }

type PlaceOrderRequest struct {
	Symbol      string      `json:"symbol" validate:"required"`
	Side        string      `json:"side" validate:"required"`
	OrderType   string      `json:"order_type" validate:"required,oneof=LIMIT MARKET"`
	Quantity    int64       `json:"quantity" validate:"required,gt=0"`
	Price       MicroUnits  `json:"price" validate:"omitempty,gte=0"`
	TimeInForce TimeInForce `json:"time_in_force" validate:"required,oneof=DAY IOC GTC"`
	SessionID   string      `json:"session_id"`
}

type CancelOrderRequest struct {
	OrderID   int64  `json:"order_id" validate:"required,gt=0"`
	SessionID string `json:"session_id"`
}

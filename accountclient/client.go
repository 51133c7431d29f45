// Package accountclient talks to the external account service, which owns
// the reservation ledger and deduplicates by reserve id.
package accountclient

import "context"

// Code is the business result carried in an account service reply.
type Code string

const (
	CodeSuccess              Code = "SUCCESS"
	CodeInsufficientBalance  Code = "INSUFFICIENT_BALANCE"
	CodeInsufficientPosition Code = "INSUFFICIENT_POSITION"
	CodeUnknownAccount       Code = "UNKNOWN_ACCOUNT"
)

type Reply struct {
	Code Code `json:"code"`
}

func (r *Reply) IsSuccess() bool {
	return r != nil && r.Code == CodeSuccess
}

// Gateway is the port for the four remote reservation operations. A returned
// error means the call itself failed (transport, timeout); business rejections
// come back as a non-SUCCESS reply code.
type Gateway interface {
	ReserveCash(ctx context.Context, accountID, amountMicroUnits int64, currency, reserveID, orderID string) (*Reply, error)
	ReleaseCash(ctx context.Context, accountID int64, reserveID string) (*Reply, error)
	ReservePosition(ctx context.Context, accountID int64, symbol string, quantity int64, reserveID, orderID string) (*Reply, error)
	ReleasePosition(ctx context.Context, accountID int64, reserveID string) (*Reply, error)
}

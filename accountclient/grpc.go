package accountclient

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const serviceName = "/hts.account.AccountOrderService/"

// jsonCodec lets plain request structs ride over gRPC without generated
// stubs; the account service registers the same codec.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return "json" }

type reserveCashRequest struct {
	AccountID        int64  `json:"account_id"`
	AmountMicroUnits int64  `json:"amount_micro_units"`
	Currency         string `json:"currency"`
	ReserveID        string `json:"reserve_id"`
	OrderID          string `json:"order_id"`
}

type releaseRequest struct {
	AccountID int64  `json:"account_id"`
	ReserveID string `json:"reserve_id"`
}

type reservePositionRequest struct {
	AccountID int64  `json:"account_id"`
	Symbol    string `json:"symbol"`
	Quantity  int64  `json:"quantity"`
	ReserveID string `json:"reserve_id"`
	OrderID   string `json:"order_id"`
}

// GrpcGateway is the raw transport. Wrap it in a Client for timeouts and
// retries; nothing should call it directly in the request path.
type GrpcGateway struct {
	conn *grpc.ClientConn
}

func DialGateway(target string) (*GrpcGateway, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial account service %s: %w", target, err)
	}
	return &GrpcGateway{conn: conn}, nil
}

func (g *GrpcGateway) Close() error {
	return g.conn.Close()
}

func (g *GrpcGateway) invoke(ctx context.Context, method string, req any) (*Reply, error) {
	var reply Reply
	err := g.conn.Invoke(ctx, serviceName+method, req, &reply, grpc.ForceCodec(jsonCodec{}))
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (g *GrpcGateway) ReserveCash(ctx context.Context, accountID, amountMicroUnits int64, currency, reserveID, orderID string) (*Reply, error) {
	return g.invoke(ctx, "ReserveCash", &reserveCashRequest{
		AccountID:        accountID,
		AmountMicroUnits: amountMicroUnits,
		Currency:         currency,
		ReserveID:        reserveID,
		OrderID:          orderID,
	})
}

func (g *GrpcGateway) ReleaseCash(ctx context.Context, accountID int64, reserveID string) (*Reply, error) {
	return g.invoke(ctx, "ReleaseCash", &releaseRequest{AccountID: accountID, ReserveID: reserveID})
}

func (g *GrpcGateway) ReservePosition(ctx context.Context, accountID int64, symbol string, quantity int64, reserveID, orderID string) (*Reply, error) {
	return g.invoke(ctx, "ReservePosition", &reservePositionRequest{
		AccountID: accountID,
		Symbol:    symbol,
		Quantity:  quantity,
		ReserveID: reserveID,
		OrderID:   orderID,
	})
}

func (g *GrpcGateway) ReleasePosition(ctx context.Context, accountID int64, reserveID string) (*Reply, error) {
	return g.invoke(ctx, "ReleasePosition", &releaseRequest{AccountID: accountID, ReserveID: reserveID})
}

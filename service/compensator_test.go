package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hts-platform/order-intake/accountclient"
)

func TestCompensateCashReserve(t *testing.T) {
	gw := &fakeGateway{releaseReply: successReply()}
	exec := NewCompensationExecutor(gw, zap.NewNop())

	err := exec.CompensateCashReserve(context.Background(), 42, "rsv-9")

	require.NoError(t, err)
	releases := gw.callsTo("ReleaseCash")
	require.Len(t, releases, 1)
	assert.Equal(t, int64(42), releases[0].accountID)
	assert.Equal(t, "rsv-9", releases[0].reserveID)
}

func TestCompensatePositionReserveFailureSurfaces(t *testing.T) {
	gw := &fakeGateway{releaseErr: accountclient.ErrUnavailable}
	exec := NewCompensationExecutor(gw, zap.NewNop())

	err := exec.CompensatePositionReserve(context.Background(), 42, "rsv-9")

	// The failure is reported to the supervising caller but nothing is
	// queued for retry; the reservation stays held.
	assert.ErrorIs(t, err, accountclient.ErrUnavailable)
	assert.Len(t, gw.callsTo("ReleasePosition"), 1)
}

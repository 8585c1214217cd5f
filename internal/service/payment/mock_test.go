package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGatewayCreateOrder(t *testing.T) {
	gateway := NewMockGateway(nil)
	ctx := context.Background()

	first, err := gateway.CreateOrder(ctx, 2500, "USD", "receipt-1")
	require.NoError(t, err)
	second, err := gateway.CreateOrder(ctx, 1000, "USD", "receipt-2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, gateway.Calls())

	orders := gateway.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, int64(2500), orders[0].AmountMinor)
	assert.Equal(t, "USD", orders[0].Currency)
	assert.Equal(t, "receipt-1", orders[0].Receipt)
}

func TestMockGatewayFailure(t *testing.T) {
	gateway := NewMockGateway(nil)
	gateway.FailWith = errors.New("provider down")

	_, err := gateway.CreateOrder(context.Background(), 100, "USD", "r")
	require.Error(t, err)
	assert.Equal(t, 0, gateway.Calls())
}

func TestMockGatewayContextCanceled(t *testing.T) {
	gateway := NewMockGateway(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gateway.CreateOrder(ctx, 100, "USD", "r")
	assert.ErrorIs(t, err, context.Canceled)
}

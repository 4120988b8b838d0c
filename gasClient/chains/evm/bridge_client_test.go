package evm

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	gaserrors "github.com/pushchain/bridge-gas-oracle/gasClient/errors"
)

var testBridge = ethcommon.HexToAddress("0x4aa42145Aa6Ebf72e164C9bBC74fbD3788045016")

func newTestBridgeClient(t *testing.T, callers ...contractCaller) *BridgeClient {
	client, err := newBridgeClient("home", testBridge, callers, zerolog.New(zerolog.NewTestWriter(t)))
	require.NoError(t, err)
	return client
}

func packGasPrice(t *testing.T, client *BridgeClient, v *big.Int) []byte {
	out, err := client.abi.Methods[gasPriceMethod].Outputs.Pack(v)
	require.NoError(t, err)
	return out
}

func isGasPriceCall(client *BridgeClient) interface{} {
	selector := client.abi.Methods[gasPriceMethod].ID
	return mock.MatchedBy(func(msg ethereum.CallMsg) bool {
		return msg.To != nil && *msg.To == testBridge && bytes.Equal(msg.Data, selector)
	})
}

func TestBridgeClientGasPrice(t *testing.T) {
	t.Run("decodes the contract value", func(t *testing.T) {
		caller := new(mockCaller)
		client := newTestBridgeClient(t, caller)
		caller.On("CallContract", mock.Anything, isGasPriceCall(client), (*big.Int)(nil)).
			Return(packGasPrice(t, client, big.NewInt(7_000_000_000)), nil).Once()

		price, err := client.GasPrice(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(7_000_000_000), price.Int64())
		caller.AssertExpectations(t)
	})

	t.Run("fails over to the next endpoint", func(t *testing.T) {
		first := new(mockCaller)
		second := new(mockCaller)
		client := newTestBridgeClient(t, first, second)

		first.On("CallContract", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused")).Once()
		second.On("CallContract", mock.Anything, mock.Anything, mock.Anything).
			Return(packGasPrice(t, client, big.NewInt(42)), nil).Once()

		price, err := client.GasPrice(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(42), price.Int64())
		first.AssertExpectations(t)
		second.AssertExpectations(t)
	})

	t.Run("all endpoints failing is a chain query error", func(t *testing.T) {
		caller := new(mockCaller)
		client := newTestBridgeClient(t, caller)
		caller.On("CallContract", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("execution reverted")).Once()

		_, err := client.GasPrice(context.Background())
		require.Error(t, err)
		assert.True(t, gaserrors.IsChainError(err, gaserrors.ErrCodeChainQuery))
		assert.Contains(t, err.Error(), "execution reverted")
	})

	t.Run("empty result from a non-contract address", func(t *testing.T) {
		caller := new(mockCaller)
		client := newTestBridgeClient(t, caller)
		caller.On("CallContract", mock.Anything, mock.Anything, mock.Anything).
			Return([]byte{}, nil).Once()

		_, err := client.GasPrice(context.Background())
		require.Error(t, err)
		assert.True(t, gaserrors.IsChainError(err, gaserrors.ErrCodeChainQuery))
	})

	t.Run("cancelled context", func(t *testing.T) {
		caller := new(mockCaller)
		client := newTestBridgeClient(t, caller)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.GasPrice(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		caller.AssertNotCalled(t, "CallContract", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBridgeClientClose(t *testing.T) {
	caller := new(mockCaller)
	caller.On("Close").Once()
	client := newTestBridgeClient(t, caller)

	client.Close()
	caller.AssertExpectations(t)

	_, err := client.GasPrice(context.Background())
	assert.True(t, gaserrors.IsChainError(err, gaserrors.ErrCodeChainQuery))
}

func TestNewBridgeClientValidation(t *testing.T) {
	_, err := NewBridgeClient(context.Background(), "home", nil, testBridge.Hex(), 0, zerolog.Nop())
	assert.True(t, gaserrors.IsChainError(err, gaserrors.ErrCodeConfig))

	_, err = NewBridgeClient(context.Background(), "home", []string{"http://localhost:8545"}, "not-an-address", 0, zerolog.Nop())
	assert.True(t, gaserrors.IsChainError(err, gaserrors.ErrCodeConfig))
}

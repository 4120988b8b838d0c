package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/stretchr/testify/mock"
)

// mockCaller is a mock implementation of the contract caller for testing
type mockCaller struct {
	mock.Mock
}

func (m *mockCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	args := m.Called(ctx, call, blockNumber)
	if raw := args.Get(0); raw != nil {
		return raw.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCaller) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if id := args.Get(0); id != nil {
		return id.(*big.Int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCaller) Close() {
	m.Called()
}

package core

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pushchain/bridge-gas-oracle/gasClient/gasprice"
)

type fakePrimary struct {
	mu    sync.Mutex
	resp  *gasprice.OracleResponse
	err   error
	calls atomic.Int32
	urls  []string
}

func (f *fakePrimary) FetchGasPrice(ctx context.Context, endpoint, speedKey string) (*gasprice.OracleResponse, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, endpoint)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakePrimary) set(resp *gasprice.OracleResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resp = resp
	f.err = err
}

type fakeQuery struct {
	price *big.Int
	err   error
	// delay is spent regardless of ctx, like a node that never answers cancellation
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeQuery) GasPrice(ctx context.Context) (*big.Int, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.price, nil
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

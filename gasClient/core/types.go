package core

import (
	"math/big"
	"time"

	"github.com/pushchain/bridge-gas-oracle/gasClient/gasprice"
)

// ChainContext is the immutable per-chain setup a refresh loop runs with.
type ChainContext struct {
	ChainID          gasprice.ChainID
	Query            ChainQuery
	OracleURL        string
	SpeedType        string
	UpdateInterval   time.Duration
	FallbackGasPrice *big.Int
}

func (c ChainContext) clone() *ChainContext {
	out := c
	if c.FallbackGasPrice != nil {
		out.FallbackGasPrice = new(big.Int).Set(c.FallbackGasPrice)
	}
	return &out
}

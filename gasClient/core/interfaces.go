package core

import (
	"context"
	"math/big"

	"github.com/pushchain/bridge-gas-oracle/gasClient/gasprice"
)

// PrimarySource returns a speed table and the selected, clamped gas price.
type PrimarySource interface {
	FetchGasPrice(ctx context.Context, endpoint, speedKey string) (*gasprice.OracleResponse, error)
}

// ChainQuery is the read-only chain capability used as fallback.
type ChainQuery interface {
	GasPrice(ctx context.Context) (*big.Int, error)
}

package api

import (
	"math/big"

	"github.com/pushchain/bridge-gas-oracle/gasClient/gasprice"
)

// GasPriceProvider defines the methods needed by the API server
type GasPriceProvider interface {
	GetPrice(chain string, req *gasprice.PriceRequest) (*big.Int, error)
	State(chain string) (*gasprice.CachedState, error)
	ActiveChains() []gasprice.ChainID
}

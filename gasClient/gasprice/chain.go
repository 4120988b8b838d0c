package gasprice

import (
	"github.com/pushchain/bridge-gas-oracle/gasClient/errors"
)

// ChainID names one of the two bridged chains.
type ChainID string

const (
	ChainHome    ChainID = "home"
	ChainForeign ChainID = "foreign"
)

// ParseChainID accepts only "home" and "foreign".
func ParseChainID(s string) (ChainID, error) {
	switch ChainID(s) {
	case ChainHome, ChainForeign:
		return ChainID(s), nil
	default:
		return "", errors.NewUnrecognizedChainError(s)
	}
}

func (c ChainID) String() string { return string(c) }

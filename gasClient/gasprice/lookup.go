package gasprice

import (
	"fmt"
	"math/big"

	"github.com/moznion/go-optional"

	"github.com/pushchain/bridge-gas-oracle/gasClient/errors"
)

// RequestType selects how GetPrice interprets PriceRequest.Value.
type RequestType string

const (
	// RequestGasPrice returns Value (wei) as is
	RequestGasPrice RequestType = "gasPrice"
	// RequestSpeed looks Value up as a tier of the cached speed table
	RequestSpeed RequestType = "speed"
)

// PriceRequest optionally overrides the cached gas price.
type PriceRequest struct {
	Type  RequestType
	Value optional.Option[string]
}

// ExplicitGasPrice builds a request that returns wei verbatim.
func ExplicitGasPrice(wei *big.Int) *PriceRequest {
	return &PriceRequest{Type: RequestGasPrice, Value: optional.Some(wei.String())}
}

// NamedSpeed builds a request for a speed tier.
func NamedSpeed(speed string) *PriceRequest {
	return &PriceRequest{Type: RequestSpeed, Value: optional.Some(speed)}
}

// ParsePriceRequest builds a request from untyped input such as query
// parameters. An empty type yields a nil request, which GetPrice answers
// with the cached value.
func ParsePriceRequest(kind, value string) (*PriceRequest, error) {
	if kind == "" {
		return nil, nil
	}
	switch RequestType(kind) {
	case RequestGasPrice:
		wei, ok := new(big.Int).SetString(value, 10)
		if !ok || wei.Sign() < 0 {
			return nil, errors.NewValidationError("", fmt.Sprintf("gas price %q is not a non-negative integer", value))
		}
		return ExplicitGasPrice(wei), nil
	case RequestSpeed:
		if value == "" {
			return nil, errors.NewValidationError("", "speed request needs a value")
		}
		return NamedSpeed(value), nil
	default:
		return nil, errors.NewValidationError("", fmt.Sprintf("unknown request type %q", kind))
	}
}

// GetPrice returns the gas price (wei) a transaction should use right now.
// It never fails: anything it cannot honour falls through to the cached value.
func GetPrice(state *CachedState, req *PriceRequest) *big.Int {
	if req == nil || req.Type == "" || req.Value.IsNone() {
		return state.Value()
	}
	value := req.Value.Unwrap()

	switch req.Type {
	case RequestGasPrice:
		if wei, ok := new(big.Int).SetString(value, 10); ok {
			return wei
		}
	case RequestSpeed:
		table, err := state.SpeedTable().Take()
		if err != nil {
			break
		}
		if gwei, err := table.Lookup(value).Take(); err == nil {
			return GweiToWei(gwei)
		}
	}
	return state.Value()
}

package core

import (
	"context"
	"math/big"
	"time"

	"github.com/JustinKnueppel/go-result"

	"github.com/pushchain/bridge-gas-oracle/gasClient/errors"
	"github.com/pushchain/bridge-gas-oracle/gasClient/gasprice"
)

func fetchPrimary(ctx context.Context, src PrimarySource, cc *ChainContext, timeout time.Duration) result.Result[*gasprice.OracleResponse] {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := src.FetchGasPrice(callCtx, cc.OracleURL, cc.SpeedType)
	if err != nil {
		return result.Err[*gasprice.OracleResponse](errors.WrapChainError(err, errors.ErrCodeNetwork, cc.ChainID.String(), "oracle fetch failed"))
	}
	if resp == nil || resp.SelectedValue == nil {
		return result.Err[*gasprice.OracleResponse](errors.NewOracleDataMissingError(cc.ChainID.String(), cc.SpeedType))
	}
	return result.Ok(resp)
}

func fetchFallback(ctx context.Context, q ChainQuery, chain gasprice.ChainID, timeout time.Duration) result.Result[*big.Int] {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	price, err := q.GasPrice(callCtx)
	if err != nil {
		if !errors.IsChainError(err, errors.ErrCodeChainQuery) {
			err = errors.NewChainQueryError(chain.String(), "bridge gas price query failed", err)
		}
		return result.Err[*big.Int](err)
	}
	if price == nil {
		return result.Err[*big.Int](errors.NewChainQueryError(chain.String(), "bridge returned no gas price", nil))
	}
	return result.Ok(price)
}

// unavailableQuery stands in for a chain without bridge address or RPC endpoints.
type unavailableQuery struct {
	chain  gasprice.ChainID
	reason string
}

func (q unavailableQuery) GasPrice(context.Context) (*big.Int, error) {
	return nil, errors.NewChainQueryError(q.chain.String(), q.reason, nil).WithSeverity(errors.SeverityLow)
}

package core

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rs/zerolog"

	"github.com/pushchain/bridge-gas-oracle/gasClient/errors"
	"github.com/pushchain/bridge-gas-oracle/gasClient/gasprice"
)

// Refresher runs one primary-then-fallback cycle for a chain.
type Refresher struct {
	primary PrimarySource
	timeout time.Duration
	metrics *Metrics
	logger  zerolog.Logger
}

// NewRefresher creates a Refresher. timeout bounds each source call separately.
func NewRefresher(primary PrimarySource, timeout time.Duration, metrics *Metrics, logger zerolog.Logger) *Refresher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Refresher{
		primary: primary,
		timeout: timeout,
		metrics: metrics,
		logger:  logger.With().Str("component", "gas_price_refresher").Logger(),
	}
}

// RefreshOnce tries the oracle, then the bridge contract, and reports what
// should change. It never touches cached state and never returns an error:
// failures are logged and show up as absent fields in the Outcome.
func (r *Refresher) RefreshOnce(ctx context.Context, cc *ChainContext) gasprice.Outcome {
	chain := cc.ChainID.String()
	log := r.logger.With().Str("chain", chain).Logger()
	start := time.Now()
	defer func() { r.metrics.observeDuration(chain, time.Since(start)) }()

	primary := fetchPrimary(ctx, r.primary, cc, r.timeout)
	if primary.IsOk() {
		resp := primary.Unwrap()
		r.metrics.observeSource(chain, sourceOracle, true)
		log.Debug().
			Str("gas_price", resp.SelectedValue.String()).
			Str("speed_type", cc.SpeedType).
			Msg("gas price updated using the oracle")
		return gasprice.Outcome{
			Value:      optional.Some(resp.SelectedValue),
			SpeedTable: optional.Some(resp.SpeedTable),
		}
	}
	r.metrics.observeSource(chain, sourceOracle, false)
	withError(log.Error(), primary.UnwrapErr()).
		Str("oracle_url", cc.OracleURL).
		Msg("gas price API is not available")

	fallback := fetchFallback(ctx, cc.Query, cc.ChainID, r.timeout)
	if fallback.IsOk() {
		price := fallback.Unwrap()
		r.metrics.observeSource(chain, sourceContract, true)
		log.Debug().
			Str("gas_price", price.String()).
			Msg("gas price updated using the contract")
		return gasprice.Outcome{Value: optional.Some(price)}
	}
	r.metrics.observeSource(chain, sourceContract, false)
	withError(log.Error(), fallback.UnwrapErr()).
		Msg("there was a problem getting the gas price from the contract")

	return gasprice.Outcome{}
}

// withError attaches err with its code, severity and retryability.
func withError(e *zerolog.Event, err error) *zerolog.Event {
	return e.Err(err).
		Str("error_code", string(errors.CodeOf(err))).
		Str("severity", string(errors.GetSeverity(err))).
		Bool("retryable", errors.IsRetryable(err))
}

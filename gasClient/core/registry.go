package core

import (
	"context"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pushchain/bridge-gas-oracle/gasClient/errors"
	"github.com/pushchain/bridge-gas-oracle/gasClient/gasprice"
)

// DefaultUpdateInterval is used for chains configured without an interval.
const DefaultUpdateInterval = 600000 * time.Millisecond

// chainRunner is the live refresh loop and state of one started chain.
type chainRunner struct {
	chain  *ChainContext
	state  *gasprice.CachedState
	cancel context.CancelFunc
	done   chan struct{}
}

func (cr *chainRunner) stop() {
	cr.cancel()
	<-cr.done
}

// Registry owns one refresh loop and one CachedState per started chain.
type Registry struct {
	setups    map[gasprice.ChainID]ChainContext
	refresher *Refresher
	metrics   *Metrics
	logger    zerolog.Logger

	// lifecycleMu serialises Start and Stop
	lifecycleMu sync.Mutex

	mu     sync.RWMutex
	chains map[gasprice.ChainID]*chainRunner
}

// NewRegistry creates a registry for the given static chain setups.
func NewRegistry(setups []ChainContext, refresher *Refresher, metrics *Metrics, logger zerolog.Logger) *Registry {
	byID := make(map[gasprice.ChainID]ChainContext, len(setups))
	for _, s := range setups {
		byID[s.ChainID] = s
	}
	return &Registry{
		setups:    byID,
		refresher: refresher,
		metrics:   metrics,
		logger:    logger.With().Str("component", "gas_price_registry").Logger(),
		chains:    make(map[gasprice.ChainID]*chainRunner),
	}
}

// Start (re)starts the refresh loop of chain, which must be "home" or "foreign".
//
// A loop already running for the same chain is replaced and stopped; the
// other chain is not affected. The cached value is reset to the fallback default
// and one refresh cycle completes before Start returns. The loop lives until
// ctx is cancelled or Stop is called.
func (r *Registry) Start(ctx context.Context, chain string) error {
	id, err := gasprice.ParseChainID(chain)
	if err != nil {
		return err
	}
	setup, ok := r.setups[id]
	if !ok {
		return errors.NewUnrecognizedChainError(chain).WithContext("reason", "chain not configured")
	}

	r.lifecycleMu.Lock()
	defer r.lifecycleMu.Unlock()

	cc := setup.clone()
	if cc.UpdateInterval <= 0 {
		cc.UpdateInterval = DefaultUpdateInterval
	}
	if cc.Query == nil {
		cc.Query = unavailableQuery{chain: id, reason: "no bridge contract configured"}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	runner := &chainRunner{
		chain:  cc,
		state:  gasprice.NewCachedState(cc.FallbackGasPrice),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	// The new runner replaces the old one in a single step so lookups keep
	// resolving while the previous loop winds down.
	r.mu.Lock()
	prev := r.chains[id]
	r.chains[id] = runner
	r.mu.Unlock()
	if prev != nil {
		r.logger.Info().Str("chain", chain).Msg("stopping previous gas price loop")
		prev.stop()
	}

	r.metrics.setGasPrice(chain, runner.state.Value())

	r.logger.Info().
		Str("chain", chain).
		Str("oracle_url", cc.OracleURL).
		Str("speed_type", cc.SpeedType).
		Dur("interval", cc.UpdateInterval).
		Str("fallback_gas_price", runner.state.Value().String()).
		Msg("starting gas price loop")

	r.refresh(loopCtx, runner)
	go r.run(loopCtx, runner)
	return nil
}

// run re-arms the timer only after a cycle completed, so slow sources
// stretch the period instead of stacking cycles.
func (r *Registry) run(ctx context.Context, runner *chainRunner) {
	defer close(runner.done)

	log := r.logger.With().Str("chain", runner.chain.ChainID.String()).Logger()
	timer := time.NewTimer(runner.chain.UpdateInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("context cancelled, stopping gas price loop")
			return
		case <-timer.C:
			r.refresh(ctx, runner)
			timer.Reset(runner.chain.UpdateInterval)
		}
	}
}

func (r *Registry) refresh(ctx context.Context, runner *chainRunner) {
	outcome := r.refresher.RefreshOnce(ctx, runner.chain)
	if runner.state.Apply(outcome) {
		r.metrics.setGasPrice(runner.chain.ChainID.String(), runner.state.Value())
	}
}

// Stop stops the loop of one chain and forgets its state.
func (r *Registry) Stop(chain gasprice.ChainID) {
	r.lifecycleMu.Lock()
	defer r.lifecycleMu.Unlock()

	r.mu.Lock()
	runner := r.chains[chain]
	delete(r.chains, chain)
	r.mu.Unlock()

	if runner != nil {
		runner.stop()
		r.logger.Info().Str("chain", chain.String()).Msg("gas price loop stopped")
	}
}

// StopAll stops every running loop.
func (r *Registry) StopAll() {
	for _, chain := range r.ActiveChains() {
		r.Stop(chain)
	}
}

// ActiveChains returns the started chains in name order.
func (r *Registry) ActiveChains() []gasprice.ChainID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gasprice.ChainID, 0, len(r.chains))
	for id := range r.chains {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// State returns the cached state of a started chain.
func (r *Registry) State(chain string) (*gasprice.CachedState, error) {
	id, err := gasprice.ParseChainID(chain)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	runner := r.chains[id]
	r.mu.RUnlock()

	if runner == nil {
		return nil, errors.NewUnrecognizedChainError(chain).WithContext("reason", "chain not started")
	}
	return runner.state, nil
}

// GetPrice returns the gas price to use on chain for req (which may be nil).
func (r *Registry) GetPrice(chain string, req *gasprice.PriceRequest) (*big.Int, error) {
	state, err := r.State(chain)
	if err != nil {
		return nil, err
	}
	return gasprice.GetPrice(state, req), nil
}

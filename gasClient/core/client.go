package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pushchain/bridge-gas-oracle/gasClient/api"
	"github.com/pushchain/bridge-gas-oracle/gasClient/chains/evm"
	"github.com/pushchain/bridge-gas-oracle/gasClient/config"
	"github.com/pushchain/bridge-gas-oracle/gasClient/errors"
	"github.com/pushchain/bridge-gas-oracle/gasClient/gasprice"
	"github.com/pushchain/bridge-gas-oracle/gasClient/oracle"
)

// GasClient wires configuration, price sources, the registry and the query server.
type GasClient struct {
	cfg      *config.Config
	log      zerolog.Logger
	registry *Registry
	server   *api.Server
	bridges  []*evm.BridgeClient
}

// NewGasClient builds every component from cfg. Bridge RPC endpoints are
// dialed here; a chain whose bridge cannot be reached still runs on its
// oracle and fallback default.
func NewGasClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*GasClient, error) {
	bounds, err := gasprice.NewBounds(cfg.GasPriceBounds.MinGwei, cfg.GasPriceBounds.MaxGwei)
	if err != nil {
		return nil, errors.Wrap(err, "invalid gas price bounds")
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	metrics := NewMetrics(promReg)

	gc := &GasClient{cfg: cfg, log: log}

	setups := make([]ChainContext, 0, len(cfg.Chains))
	for _, id := range []gasprice.ChainID{gasprice.ChainHome, gasprice.ChainForeign} {
		chainCfg, ok := cfg.GetChainConfig(id.String())
		if !ok {
			continue
		}
		fallback, err := chainCfg.FallbackGasPrice()
		if err != nil {
			return nil, errors.Wrapf(err, "chain %s", id)
		}

		setups = append(setups, ChainContext{
			ChainID:          id,
			Query:            gc.dialBridge(ctx, id, chainCfg),
			OracleURL:        chainCfg.GasPriceOracleURL,
			SpeedType:        chainCfg.GasPriceSpeedType,
			UpdateInterval:   cfg.UpdateInterval(id.String()),
			FallbackGasPrice: fallback,
		})
	}

	oracleClient := oracle.NewClient(bounds, cfg.RequestTimeout(), log)
	refresher := NewRefresher(oracleClient, cfg.RequestTimeout(), metrics, log)
	gc.registry = NewRegistry(setups, refresher, metrics, log)
	gc.server = api.NewServer(gc.registry, promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}), log, cfg.QueryServerPort)

	return gc, nil
}

func (gc *GasClient) dialBridge(ctx context.Context, id gasprice.ChainID, chainCfg *config.ChainSpecificConfig) ChainQuery {
	if chainCfg.BridgeAddress == "" || len(chainCfg.RPCURLs) == 0 {
		gc.log.Warn().Str("chain", id.String()).Msg("no bridge contract configured, contract fallback disabled")
		return unavailableQuery{chain: id, reason: "no bridge contract configured"}
	}

	bridge, err := evm.NewBridgeClient(ctx, id.String(), chainCfg.RPCURLs, chainCfg.BridgeAddress, chainCfg.ExpectedChainID, gc.log)
	if err != nil {
		gc.log.Error().Err(err).Str("chain", id.String()).Msg("failed to connect to bridge contract, contract fallback disabled")
		return unavailableQuery{chain: id, reason: err.Error()}
	}
	gc.bridges = append(gc.bridges, bridge)
	return bridge
}

// Registry exposes the chain registry for in-process callers.
func (gc *GasClient) Registry() *Registry {
	return gc.registry
}

// Start starts the configured chains and the query server, then blocks until
// ctx is cancelled.
func (gc *GasClient) Start(ctx context.Context, chains ...string) error {
	gc.log.Info().Msg("starting gas price client")

	if len(chains) == 0 {
		for _, id := range []gasprice.ChainID{gasprice.ChainHome, gasprice.ChainForeign} {
			if _, ok := gc.cfg.GetChainConfig(id.String()); ok {
				chains = append(chains, id.String())
			}
		}
	}

	for _, chain := range chains {
		if err := gc.registry.Start(ctx, chain); err != nil {
			gc.registry.StopAll()
			return err
		}
	}

	if err := gc.server.Start(); err != nil {
		gc.registry.StopAll()
		return errors.Wrap(err, "failed to start query server")
	}

	gc.log.Info().Strs("chains", chains).Msg("initialization complete, entering main loop")
	<-ctx.Done()

	gc.log.Info().Msg("shutting down gas price client")
	return gc.Stop()
}

// Stop stops all loops, the query server and bridge connections.
func (gc *GasClient) Stop() error {
	gc.registry.StopAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := gc.server.Stop(shutdownCtx)

	for _, b := range gc.bridges {
		b.Close()
	}
	gc.bridges = nil
	return err
}

package config

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultUpdateIntervalMs applies to any chain without its own interval
	DefaultUpdateIntervalMs int64 = 600000

	// DefaultRequestTimeoutSeconds bounds each oracle and contract call
	DefaultRequestTimeoutSeconds = 10
)

var (
	DefaultMinGasPriceGwei = decimal.NewFromInt(1)
	DefaultMaxGasPriceGwei = decimal.NewFromInt(250)
)

type Config struct {
	// Log Config
	LogLevel   int    `json:"log_level"`   // e.g., 0 = debug, 1 = info, etc.
	LogFormat  string `json:"log_format"`  // "json" or "console"
	LogSampler bool   `json:"log_sampler"` // if true, samples logs (e.g., 1 in 5)

	// Node Config
	NodeHome string `json:"node_home,omitempty"` // Node home directory (default: ~/.pgas)

	// Query Server Config
	QueryServerPort int `json:"query_server_port"` // Port for HTTP query server (default: 8080)

	// Refresh Config
	DefaultUpdateIntervalMs int64 `json:"default_update_interval_ms"` // Used when a chain sets no interval (default: 600000)
	RequestTimeoutSeconds   int   `json:"request_timeout_seconds"`    // Per source call timeout (default: 10)

	// Bounds applied to oracle values of both chains, in gwei
	GasPriceBounds GasPriceBounds `json:"gas_price_bounds"`

	// Per-chain configuration keyed by "home" / "foreign"
	Chains map[string]ChainSpecificConfig `json:"chains"`
}

// GasPriceBounds is the [min, max] range oracle gas prices are clamped into
type GasPriceBounds struct {
	MinGwei decimal.Decimal `json:"min_gwei"`
	MaxGwei decimal.Decimal `json:"max_gwei"`
}

// ChainSpecificConfig holds all chain-specific configuration in one place
type ChainSpecificConfig struct {
	// RPC Configuration
	RPCURLs         []string `json:"rpc_urls,omitempty"`          // RPC endpoints for this chain
	ExpectedChainID int64    `json:"expected_chain_id,omitempty"` // Checked on dial when > 0

	// Bridge contract exposing the view method gasPrice()
	BridgeAddress string `json:"bridge_address"`

	// Gas price oracle
	GasPriceOracleURL string `json:"gas_price_oracle_url"`
	GasPriceSpeedType string `json:"gas_price_speed_type"`

	// Fallback gas price in wei, used until the first successful refresh
	GasPriceFallback string `json:"gas_price_fallback"`

	// Refresh interval in milliseconds (default: DefaultUpdateIntervalMs)
	GasPriceUpdateIntervalMs *int64 `json:"gas_price_update_interval_ms,omitempty"`
}

// GetChainConfig returns the configuration for a specific chain
func (c *Config) GetChainConfig(chainID string) (*ChainSpecificConfig, bool) {
	if c.Chains == nil {
		return nil, false
	}
	cfg, ok := c.Chains[chainID]
	if !ok {
		return nil, false
	}
	return &cfg, true
}

// UpdateInterval returns the refresh interval for a chain, falling back to the global default
func (c *Config) UpdateInterval(chainID string) time.Duration {
	fallback := c.DefaultUpdateIntervalMs
	if fallback <= 0 {
		fallback = DefaultUpdateIntervalMs
	}

	cfg, ok := c.GetChainConfig(chainID)
	if !ok || cfg.GasPriceUpdateIntervalMs == nil || *cfg.GasPriceUpdateIntervalMs <= 0 {
		return time.Duration(fallback) * time.Millisecond
	}
	return time.Duration(*cfg.GasPriceUpdateIntervalMs) * time.Millisecond
}

// RequestTimeout returns the per-call timeout for oracle and contract queries
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeoutSeconds * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// FallbackGasPrice parses the configured fallback gas price (wei)
func (c *ChainSpecificConfig) FallbackGasPrice() (*big.Int, error) {
	v, ok := new(big.Int).SetString(c.GasPriceFallback, 10)
	if !ok {
		return nil, fmt.Errorf("gas_price_fallback %q is not a base-10 integer", c.GasPriceFallback)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("gas_price_fallback must not be negative")
	}
	return v, nil
}

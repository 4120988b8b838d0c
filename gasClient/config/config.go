package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	configSubdir   = "config"
	configFileName = "pgas_config.json"
)

// Chain names accepted under "chains"
const (
	ChainHome    = "home"
	ChainForeign = "foreign"
)

//go:embed default_config.json
var defaultConfigJSON []byte

func validateConfig(cfg *Config) error {
	// Validate log level
	if cfg.LogLevel < 0 || cfg.LogLevel > 5 {
		return fmt.Errorf("log level must be between 0 and 5")
	}

	// Validate log format
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}

	if cfg.QueryServerPort == 0 {
		cfg.QueryServerPort = 8080
	}
	if cfg.DefaultUpdateIntervalMs <= 0 {
		cfg.DefaultUpdateIntervalMs = DefaultUpdateIntervalMs
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = DefaultRequestTimeoutSeconds
	}

	// Bounds default to [1, 250] gwei when unset
	if cfg.GasPriceBounds.MinGwei.IsZero() && cfg.GasPriceBounds.MaxGwei.IsZero() {
		cfg.GasPriceBounds = GasPriceBounds{MinGwei: DefaultMinGasPriceGwei, MaxGwei: DefaultMaxGasPriceGwei}
	}
	if cfg.GasPriceBounds.MinGwei.IsNegative() {
		return fmt.Errorf("gas_price_bounds.min_gwei must not be negative")
	}
	if cfg.GasPriceBounds.MinGwei.GreaterThan(cfg.GasPriceBounds.MaxGwei) {
		return fmt.Errorf("gas_price_bounds.min_gwei must not exceed max_gwei")
	}

	// Initialize Chains from the embedded defaults if empty
	if len(cfg.Chains) == 0 {
		var defaultCfg Config
		if err := json.Unmarshal(defaultConfigJSON, &defaultCfg); err == nil {
			cfg.Chains = defaultCfg.Chains
		} else {
			cfg.Chains = make(map[string]ChainSpecificConfig)
		}
	}

	for name, chainCfg := range cfg.Chains {
		if name != ChainHome && name != ChainForeign {
			return fmt.Errorf("unknown chain %q in chains, expected %q or %q", name, ChainHome, ChainForeign)
		}
		if chainCfg.BridgeAddress != "" && !ethcommon.IsHexAddress(chainCfg.BridgeAddress) {
			return fmt.Errorf("bridge_address for chain %s is not a valid hex address", name)
		}
		if chainCfg.GasPriceFallback == "" {
			return fmt.Errorf("gas_price_fallback is required for chain %s", name)
		}
		if _, err := chainCfg.FallbackGasPrice(); err != nil {
			return fmt.Errorf("chain %s: %w", name, err)
		}
	}

	return nil
}

// Validate applies defaults to cfg and reports the first invalid setting.
func Validate(cfg *Config) error {
	return validateConfig(cfg)
}

// Save writes the given config to <NodeDir>/config/pgas_config.json.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Join(basePath, configSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, configFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Load reads and returns the config from <BasePath>/config/pgas_config.json.
func Load(basePath string) (Config, error) {
	configFile := filepath.Join(basePath, configSubdir, configFileName)
	data, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads the default configuration from embedded JSON
func LoadDefaultConfig() (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overrides config fields from environment variables such as
// HOME_GAS_PRICE_ORACLE_URL or FOREIGN_GAS_PRICE_FALLBACK. Call Validate afterwards.
func ApplyEnv(cfg *Config, v *viper.Viper) error {
	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()

	if s := v.GetString("PGAS_LOG_LEVEL"); s != "" {
		level, err := cast.ToIntE(s)
		if err != nil {
			return fmt.Errorf("PGAS_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}
	if s := v.GetString("PGAS_LOG_FORMAT"); s != "" {
		cfg.LogFormat = s
	}
	if s := v.GetString("PGAS_QUERY_SERVER_PORT"); s != "" {
		port, err := cast.ToIntE(s)
		if err != nil {
			return fmt.Errorf("PGAS_QUERY_SERVER_PORT: %w", err)
		}
		cfg.QueryServerPort = port
	}
	if s := v.GetString("GAS_PRICE_MIN_GWEI"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("GAS_PRICE_MIN_GWEI: %w", err)
		}
		cfg.GasPriceBounds.MinGwei = d
	}
	if s := v.GetString("GAS_PRICE_MAX_GWEI"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("GAS_PRICE_MAX_GWEI: %w", err)
		}
		cfg.GasPriceBounds.MaxGwei = d
	}

	for _, chain := range []string{ChainHome, ChainForeign} {
		prefix := strings.ToUpper(chain) + "_"
		chainCfg, ok := cfg.GetChainConfig(chain)
		if !ok {
			chainCfg = &ChainSpecificConfig{}
		}
		touched := false

		if s := v.GetString(prefix + "RPC_URL"); s != "" {
			chainCfg.RPCURLs = splitCSV(s)
			touched = true
		}
		if s := v.GetString(prefix + "BRIDGE_ADDRESS"); s != "" {
			chainCfg.BridgeAddress = s
			touched = true
		}
		if s := v.GetString(prefix + "GAS_PRICE_ORACLE_URL"); s != "" {
			chainCfg.GasPriceOracleURL = s
			touched = true
		}
		if s := v.GetString(prefix + "GAS_PRICE_SPEED_TYPE"); s != "" {
			chainCfg.GasPriceSpeedType = s
			touched = true
		}
		if s := v.GetString(prefix + "GAS_PRICE_FALLBACK"); s != "" {
			chainCfg.GasPriceFallback = s
			touched = true
		}
		if s := v.GetString(prefix + "GAS_PRICE_UPDATE_INTERVAL"); s != "" {
			ms, err := cast.ToInt64E(s)
			if err != nil {
				return fmt.Errorf("%sGAS_PRICE_UPDATE_INTERVAL: %w", prefix, err)
			}
			chainCfg.GasPriceUpdateIntervalMs = &ms
			touched = true
		}

		if touched {
			if cfg.Chains == nil {
				cfg.Chains = make(map[string]ChainSpecificConfig)
			}
			cfg.Chains[chain] = *chainCfg
		}
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"github.com/pushchain/bridge-gas-oracle/gasClient/errors"
)

// bridgeGasPriceABI is the subset of the bridge ABI this client calls.
const bridgeGasPriceABI = `[{"constant":true,"inputs":[],"name":"gasPrice","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

const gasPriceMethod = "gasPrice"

// contractCaller is the part of ethclient.Client used by BridgeClient.
type contractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

// BridgeClient reads the gas price stored in a bridge contract.
type BridgeClient struct {
	chain   string
	bridge  ethcommon.Address
	abi     abi.ABI
	clients []contractCaller
	index   uint64
	mu      sync.RWMutex
	logger  zerolog.Logger
}

// NewBridgeClient dials every RPC URL and keeps the ones that answer for the
// expected chain id (skipped when expectedChainID is 0).
func NewBridgeClient(
	ctx context.Context,
	chain string,
	rpcURLs []string,
	bridgeAddress string,
	expectedChainID int64,
	logger zerolog.Logger,
) (*BridgeClient, error) {
	if len(rpcURLs) == 0 {
		return nil, errors.NewConfigError(chain, "no RPC URLs provided")
	}
	if !ethcommon.IsHexAddress(bridgeAddress) {
		return nil, errors.NewConfigError(chain, fmt.Sprintf("invalid bridge address %q", bridgeAddress))
	}

	log := logger.With().Str("component", "evm_bridge_client").Str("chain", chain).Logger()
	callers := make([]contractCaller, 0, len(rpcURLs))

	for _, url := range rpcURLs {
		var client *ethclient.Client
		err := errors.RetryWithBackoff(ctx, func() error {
			c, dialErr := ethclient.DialContext(ctx, url)
			if dialErr != nil {
				return errors.NewNetworkError(chain, "failed to dial RPC endpoint", dialErr)
			}
			client = c
			return nil
		}, 3)
		if err != nil {
			log.Warn().Err(err).Str("url", url).Msg("failed to connect to RPC endpoint, skipping")
			continue
		}

		if expectedChainID > 0 {
			verifyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			actual, err := client.ChainID(verifyCtx)
			cancel()
			if err != nil {
				log.Warn().
					Err(err).
					Str("url", url).
					Int64("expected_chain_id", expectedChainID).
					Msg("failed to verify chain ID, proceeding with client anyway")
			} else if actual.Int64() != expectedChainID {
				client.Close()
				log.Warn().
					Str("url", url).
					Int64("expected_chain_id", expectedChainID).
					Int64("actual_chain_id", actual.Int64()).
					Msg("chain ID mismatch, closing client")
				continue
			}
		}

		callers = append(callers, client)
		log.Info().Str("url", url).Msg("connected to RPC endpoint")
	}

	if len(callers) == 0 {
		return nil, errors.NewNetworkError(chain, "failed to connect to any valid RPC endpoints", nil)
	}

	return newBridgeClient(chain, ethcommon.HexToAddress(bridgeAddress), callers, log)
}

func newBridgeClient(chain string, bridge ethcommon.Address, callers []contractCaller, logger zerolog.Logger) (*BridgeClient, error) {
	parsed, err := abi.JSON(strings.NewReader(bridgeGasPriceABI))
	if err != nil {
		return nil, errors.NewInternalError(chain, "failed to parse bridge ABI", err)
	}
	return &BridgeClient{
		chain:   chain,
		bridge:  bridge,
		abi:     parsed,
		clients: callers,
		logger:  logger,
	}, nil
}

// GasPrice calls gasPrice() on the bridge contract. The value is in wei.
func (b *BridgeClient) GasPrice(ctx context.Context) (*big.Int, error) {
	data, err := b.abi.Pack(gasPriceMethod)
	if err != nil {
		return nil, errors.NewInternalError(b.chain, "failed to pack gasPrice call", err)
	}
	msg := ethereum.CallMsg{To: &b.bridge, Data: data}

	var gasPrice *big.Int
	err = b.executeWithFailover(ctx, "bridge_gas_price", func(client contractCaller) error {
		raw, err := client.CallContract(ctx, msg, nil)
		if err != nil {
			return err
		}
		out, err := b.abi.Unpack(gasPriceMethod, raw)
		if err != nil {
			return fmt.Errorf("failed to decode gasPrice result: %w", err)
		}
		if len(out) != 1 {
			return fmt.Errorf("gasPrice returned %d values", len(out))
		}
		v, ok := out[0].(*big.Int)
		if !ok || v == nil {
			return fmt.Errorf("gasPrice returned %T", out[0])
		}
		gasPrice = v
		return nil
	})
	if err != nil {
		return nil, errors.NewChainQueryError(b.chain, "failed to read gas price from bridge contract", err).
			WithContext("bridge", b.bridge.Hex())
	}
	return gasPrice, nil
}

// executeWithFailover executes a function with round-robin failover
func (b *BridgeClient) executeWithFailover(ctx context.Context, operation string, fn func(contractCaller) error) error {
	b.mu.RLock()
	clients := b.clients
	b.mu.RUnlock()

	if len(clients) == 0 {
		return fmt.Errorf("no RPC clients available for %s", operation)
	}

	var lastErr error
	maxAttempts := len(clients)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		index := atomic.AddUint64(&b.index, 1) - 1
		client := clients[index%uint64(len(clients))]

		if err := fn(client); err != nil {
			lastErr = err
			b.logger.Warn().
				Str("operation", operation).
				Int("attempt", attempt+1).
				Err(err).
				Msg("operation failed, trying next endpoint")
			continue
		}
		return nil
	}

	return fmt.Errorf("operation %s failed after trying %d endpoints: %w", operation, maxAttempts, lastErr)
}

// Close closes all RPC connections
func (b *BridgeClient) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, client := range b.clients {
		if client != nil {
			client.Close()
		}
	}
	b.clients = nil
}

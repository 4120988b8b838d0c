package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/pushchain/bridge-gas-oracle/gasClient/errors"
	"github.com/pushchain/bridge-gas-oracle/gasClient/gasprice"
)

func homeContext(q ChainQuery) *ChainContext {
	return &ChainContext{
		ChainID:          gasprice.ChainHome,
		Query:            q,
		OracleURL:        "https://gasprice.example/",
		SpeedType:        "standard",
		UpdateInterval:   time.Hour,
		FallbackGasPrice: gwei(1),
	}
}

func oracleResponse(selected int64) *gasprice.OracleResponse {
	return &gasprice.OracleResponse{
		SpeedTable: gasprice.SpeedTable{
			"fast":     decimal.NewFromInt(selected * 2),
			"standard": decimal.NewFromInt(selected),
		},
		SelectedValue: gwei(selected),
	}
}

func TestRefreshOnce(t *testing.T) {
	t.Run("oracle success sets value and speed table", func(t *testing.T) {
		primary := &fakePrimary{resp: oracleResponse(12)}
		query := &fakeQuery{price: gwei(7)}
		r := NewRefresher(primary, time.Second, nil, zerolog.Nop())

		outcome := r.RefreshOnce(context.Background(), homeContext(query))

		value, err := outcome.Value.Take()
		require.NoError(t, err)
		assert.Equal(t, 0, value.Cmp(gwei(12)))
		assert.True(t, outcome.SpeedTable.IsSome())
		assert.Equal(t, int32(0), query.calls.Load(), "contract must not be queried when the oracle answered")
	})

	t.Run("oracle failure falls back to the contract", func(t *testing.T) {
		primary := &fakePrimary{err: errors.New("connection refused")}
		query := &fakeQuery{price: big.NewInt(7000000000)}
		r := NewRefresher(primary, time.Second, nil, zerolog.Nop())

		outcome := r.RefreshOnce(context.Background(), homeContext(query))

		value, err := outcome.Value.Take()
		require.NoError(t, err)
		assert.Equal(t, "7000000000", value.String())
		assert.True(t, outcome.SpeedTable.IsNone())
	})

	t.Run("oracle without selected value falls back", func(t *testing.T) {
		primary := &fakePrimary{resp: &gasprice.OracleResponse{}}
		query := &fakeQuery{price: gwei(3)}
		r := NewRefresher(primary, time.Second, nil, zerolog.Nop())

		outcome := r.RefreshOnce(context.Background(), homeContext(query))
		assert.Equal(t, int32(1), query.calls.Load())
		assert.True(t, outcome.Value.IsSome())
	})

	t.Run("both sources failing yields an empty outcome", func(t *testing.T) {
		primary := &fakePrimary{err: errors.New("timeout")}
		query := &fakeQuery{err: errors.New("execution reverted")}
		r := NewRefresher(primary, time.Second, nil, zerolog.Nop())

		outcome := r.RefreshOnce(context.Background(), homeContext(query))
		assert.True(t, outcome.IsEmpty())
	})

	t.Run("unavailable contract yields an empty outcome", func(t *testing.T) {
		primary := &fakePrimary{err: errors.New("timeout")}
		r := NewRefresher(primary, time.Second, nil, zerolog.Nop())

		outcome := r.RefreshOnce(context.Background(), homeContext(unavailableQuery{chain: gasprice.ChainHome, reason: "none"}))
		assert.True(t, outcome.IsEmpty())
	})
}

func TestRefreshOnceRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	primary := &fakePrimary{err: errors.New("down")}
	query := &fakeQuery{price: gwei(7)}
	r := NewRefresher(primary, time.Second, metrics, zerolog.Nop())

	r.RefreshOnce(context.Background(), homeContext(query))
	primary.set(oracleResponse(20), nil)
	r.RefreshOnce(context.Background(), homeContext(query))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.refreshTotal.WithLabelValues("home", sourceOracle, resultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.refreshTotal.WithLabelValues("home", sourceOracle, resultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.refreshTotal.WithLabelValues("home", sourceContract, resultSuccess)))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.refreshDuration))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeSource("home", sourceOracle, true)
		m.setGasPrice("home", gwei(1))
		m.observeDuration("home", time.Second)
	})
}

func TestRefreshOnceLogsErrorClassification(t *testing.T) {
	var buf bytes.Buffer
	primary := &fakePrimary{err: gerrors.NewNetworkError("home", "dial failed", nil)}
	r := NewRefresher(primary, time.Second, nil, zerolog.New(&buf))

	r.RefreshOnce(context.Background(), homeContext(unavailableQuery{chain: gasprice.ChainHome, reason: "no bridge contract configured"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var oracleLog, contractLog map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &oracleLog))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &contractLog))

	assert.Equal(t, "gas price API is not available", oracleLog["message"])
	assert.Equal(t, "NETWORK", oracleLog["error_code"])
	assert.Equal(t, "MEDIUM", oracleLog["severity"])
	assert.Equal(t, true, oracleLog["retryable"])

	assert.Equal(t, "there was a problem getting the gas price from the contract", contractLog["message"])
	assert.Equal(t, "CHAIN_QUERY", contractLog["error_code"])
	assert.Equal(t, "LOW", contractLog["severity"])
}

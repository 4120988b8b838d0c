package core

import (
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	sourceOracle   = "oracle"
	sourceContract = "contract"

	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics collects refresh statistics per chain. A nil *Metrics records nothing.
type Metrics struct {
	refreshTotal    *prometheus.CounterVec
	gasPriceWei     *prometheus.GaugeVec
	refreshDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		refreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pgas",
				Name:      "refresh_total",
				Help:      "Gas price source attempts by chain, source and result.",
			},
			[]string{"chain", "source", "result"},
		),
		gasPriceWei: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "pgas",
				Name:      "gas_price_wei",
				Help:      "Currently cached gas price in wei.",
			},
			[]string{"chain"},
		),
		refreshDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "pgas",
				Name:      "refresh_duration_seconds",
				Help:      "Duration of a full refresh cycle.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"chain"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.refreshTotal, m.gasPriceWei, m.refreshDuration)
	}
	return m
}

func (m *Metrics) observeSource(chain, source string, ok bool) {
	if m == nil {
		return
	}
	res := resultSuccess
	if !ok {
		res = resultFailure
	}
	m.refreshTotal.WithLabelValues(chain, source, res).Inc()
}

func (m *Metrics) setGasPrice(chain string, wei *big.Int) {
	if m == nil || wei == nil {
		return
	}
	f, _ := new(big.Float).SetInt(wei).Float64()
	m.gasPriceWei.WithLabelValues(chain).Set(f)
}

func (m *Metrics) observeDuration(chain string, d time.Duration) {
	if m == nil {
		return
	}
	m.refreshDuration.WithLabelValues(chain).Observe(d.Seconds())
}

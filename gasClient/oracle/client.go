package oracle

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/pushchain/bridge-gas-oracle/gasClient/errors"
	"github.com/pushchain/bridge-gas-oracle/gasClient/gasprice"
)

// maxResponseBytes caps how much of an oracle reply is read.
const maxResponseBytes = 1 << 20

// Client fetches speed tables from a gas price oracle over HTTP.
type Client struct {
	httpClient *http.Client
	bounds     gasprice.Bounds
	logger     zerolog.Logger
}

// NewClient creates an oracle client. Every oracle value it returns is clamped to bounds.
func NewClient(bounds gasprice.Bounds, timeout time.Duration, logger zerolog.Logger) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		bounds:     bounds,
		logger:     logger.With().Str("component", "gas_price_oracle").Logger(),
	}
}

// FetchGasPrice queries endpoint and selects speedKey from its speed table.
//
// The selected tier is clamped in gwei and then converted to wei; the
// returned table keeps the oracle's own (gwei) values.
func (c *Client) FetchGasPrice(ctx context.Context, endpoint, speedKey string) (*gasprice.OracleResponse, error) {
	if endpoint == "" {
		return nil, errors.NewNetworkError("", "no gas price oracle url configured", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NewNetworkError("", "failed to build oracle request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError("", "gas price oracle request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewNetworkError("", fmt.Sprintf("gas price oracle returned status %d", resp.StatusCode), nil).
			WithContext("status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.NewNetworkError("", "failed to read oracle response", err)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("oracle response received")

	return parseResponse(body, speedKey, c.bounds)
}

func parseResponse(body []byte, speedKey string, bounds gasprice.Bounds) (*gasprice.OracleResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.NewParseError("", "oracle response is not valid JSON", nil)
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, errors.NewParseError("", "oracle response is not a JSON object", nil)
	}

	table := make(gasprice.SpeedTable)
	var selected gjson.Result
	found := false
	parsed.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if name == speedKey {
			selected = value
			found = true
		}
		if v, ok := numericValue(value); ok {
			table[name] = v
		}
		return true
	})

	if !found || isBlank(selected) {
		return nil, errors.NewOracleDataMissingError("", speedKey)
	}
	gwei, ok := numericValue(selected)
	if !ok {
		return nil, errors.NewParseError("", fmt.Sprintf("gas price for %s type is not numeric: %s", speedKey, selected.Raw), nil)
	}

	return &gasprice.OracleResponse{
		SpeedTable:    table,
		SelectedValue: gasprice.GweiToWei(bounds.Clamp(gwei)),
	}, nil
}

// isBlank reports values that carry no price: null, false and "".
// A numeric zero is a price.
func isBlank(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.String:
		return v.Str == ""
	default:
		return false
	}
}

// numericValue accepts JSON numbers and numeric strings, keeping full precision.
func numericValue(v gjson.Result) (decimal.Decimal, bool) {
	var raw string
	switch v.Type {
	case gjson.Number:
		raw = v.Raw
	case gjson.String:
		raw = v.Str
	default:
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

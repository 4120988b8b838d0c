package api

import "time"

// QueryResponse represents the standard query response format
type QueryResponse struct {
	Data        interface{} `json:"data"`
	LastFetched time.Time   `json:"last_fetched"`
}

// GasPriceResponse is the payload of /api/v1/gas-price/{chain}
type GasPriceResponse struct {
	Chain        string `json:"chain"`
	GasPrice     string `json:"gas_price"`
	GasPriceGwei string `json:"gas_price_gwei"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

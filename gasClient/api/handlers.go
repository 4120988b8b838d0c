package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pushchain/bridge-gas-oracle/gasClient/errors"
	"github.com/pushchain/bridge-gas-oracle/gasClient/gasprice"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleChains handles GET /api/v1/chains
func (s *Server) handleChains(w http.ResponseWriter, r *http.Request) {
	chains := s.provider.ActiveChains()
	names := make([]string, 0, len(chains))
	for _, c := range chains {
		names = append(names, c.String())
	}
	writeJSON(w, http.StatusOK, QueryResponse{Data: names})
}

// handleGasPrice handles GET /api/v1/gas-price/{chain}?type=<gasPrice|speed>&value=<v>
func (s *Server) handleGasPrice(w http.ResponseWriter, r *http.Request) {
	chain := mux.Vars(r)["chain"]
	query := r.URL.Query()

	req, err := gasprice.ParsePriceRequest(query.Get("type"), query.Get("value"))
	if err != nil {
		s.writeProviderError(w, chain, err)
		return
	}

	state, err := s.provider.State(chain)
	if err != nil {
		s.writeProviderError(w, chain, err)
		return
	}
	price, err := s.provider.GetPrice(chain, req)
	if err != nil {
		s.writeProviderError(w, chain, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Data: GasPriceResponse{
			Chain:        chain,
			GasPrice:     price.String(),
			GasPriceGwei: gasprice.WeiToGwei(price).String(),
		},
		LastFetched: state.LastUpdated(),
	})
}

// handleSpeeds handles GET /api/v1/gas-price/{chain}/speeds
func (s *Server) handleSpeeds(w http.ResponseWriter, r *http.Request) {
	chain := mux.Vars(r)["chain"]

	state, err := s.provider.State(chain)
	if err != nil {
		s.writeProviderError(w, chain, err)
		return
	}

	speeds := map[string]string{}
	if table, err := state.SpeedTable().Take(); err == nil {
		for name, gwei := range table {
			speeds[name] = gwei.String()
		}
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Data:        speeds,
		LastFetched: state.LastUpdated(),
	})
}

func (s *Server) writeProviderError(w http.ResponseWriter, chain string, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().
			Err(err).
			Str("chain", chain).
			Str("error_code", string(errors.CodeOf(err))).
			Str("severity", string(errors.GetSeverity(err))).
			Msg("gas price lookup failed")
	}
	writeError(w, status, err)
}

// statusForError maps error codes to HTTP status codes.
func statusForError(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrCodeUnrecognizedChain:
		return http.StatusNotFound
	case errors.ErrCodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

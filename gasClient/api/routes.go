package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API server
func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	// Health check endpoint
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}

	// API v1 endpoints, registered on the root router so a method mismatch
	// is reported as 405 rather than 404
	r.HandleFunc("/api/v1/chains", s.handleChains).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/gas-price/{chain}", s.handleGasPrice).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/gas-price/{chain}/speeds", s.handleSpeeds).Methods(http.MethodGet)

	return r
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed on %s", r.Method, r.URL.Path))
}

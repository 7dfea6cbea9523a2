// Package api is the thin HTTP/SSE/WebSocket adapter over the
// simulation loop's command and event channels. It carries no
// simulation logic of its own — every handler builds a command.Command
// and submits it, or reads a snapshot under the fluid's read lock.
// Routing style grounded on tobyjaguar-mini-world's Server (a single
// http.ServeMux, one struct method per route); WS framing grounded on
// crispcode-io-monster-mash's worldHub (JSON envelope, upgrade, and a
// blocking read loop per connection).
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/san-kum/fluidmind/internal/applog"
	"github.com/san-kum/fluidmind/internal/simloop"
)

// Server wires the simulation loop to net/http.
type Server struct {
	loop *simloop.Loop
	log  *applog.Logger
	port int
}

// New returns a Server that will serve the given loop on port.
func New(loop *simloop.Loop, log *applog.Logger, port int) *Server {
	return &Server{loop: loop, log: log, port: port}
}

// Handler builds the route table (spec.md §6).
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /inject", s.handleInject)
	mux.HandleFunc("PATCH /ballast", s.handleBallast)
	mux.HandleFunc("GET /strata", s.handleStrata)
	mux.HandleFunc("GET /vents", s.handleListVents)
	mux.HandleFunc("GET /vent/{i}", s.handleGetVent)
	mux.HandleFunc("POST /vent", s.handleAddVent)
	mux.HandleFunc("GET /continents", s.handleListContinents)
	mux.HandleFunc("POST /continent", s.handleTriggerContinent)
	mux.HandleFunc("POST /thaw", s.handleThaw)
	mux.HandleFunc("POST /breath", s.handleDeepBreath)
	mux.HandleFunc("POST /flash-heal", s.handleFlashHeal)
	mux.HandleFunc("GET /state", s.handleFullState)
	mux.HandleFunc("GET /events", s.handleSSE)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("POST /divide", s.handleStartDivide)
	mux.HandleFunc("GET /divide/status", s.handleDivideStatus)
	mux.HandleFunc("GET /divide/results", s.handleDivideResults)

	return mux
}

// ListenAndServe starts the HTTP server; it blocks until the server
// stops or errors.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info("http api listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the JSON body for every 4xx/5xx response.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, field string) {
	writeJSON(w, status, errorResponse{Error: msg, Field: field})
}

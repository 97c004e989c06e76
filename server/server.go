// Package server exposes the prover over HTTP: the circuit artifacts are
// loaded once at startup and every proving request is served from them.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/succinctlabs/blobstream-gnark/blobstream"
)

type Server struct {
	artifacts *blobstream.Groth16Artifacts
}

// New loads the groth16 build from dataDir and returns a server ready to
// prove witnesses against it.
func New(dataDir string) (*Server, error) {
	artifacts, err := blobstream.LoadGroth16Artifacts(dataDir)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("window_size", artifacts.Params.WindowSize).
		Int("nb_leaves", artifacts.Params.NbLeaves).
		Msg("circuit artifacts loaded")
	return &Server{artifacts: artifacts}, nil
}

// Start starts listening for requests on the given port.
func (s *Server) Start(port string) error {
	router := http.NewServeMux()
	router.HandleFunc("GET /healthz", s.healthz)
	router.HandleFunc("GET /params", s.params)
	router.HandleFunc("POST /groth16/prove", s.handleGroth16Prove)

	log.Info().Str("port", port).Msg("starting prover server")
	return http.ListenAndServe(":"+port, LoggingMiddleware(router))
}

// healthz returns success if the circuit artifacts are loaded.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.artifacts == nil || s.artifacts.CS == nil || s.artifacts.PK == nil {
		ReturnErrorJSON(w, "not ready", http.StatusInternalServerError)
		return
	}
	ReturnJSON(w, "OK", http.StatusOK)
}

// params reports the window size and leaf capacity the loaded circuit was
// built for, so clients can size their witnesses before submitting.
func (s *Server) params(w http.ResponseWriter, r *http.Request) {
	ReturnJSON(w, s.artifacts.Params, http.StatusOK)
}

// handleGroth16Prove accepts a POST request with a proof input JSON body and
// returns the serialized proof for it.
func (s *Server) handleGroth16Prove(w http.ResponseWriter, r *http.Request) {
	var input blobstream.ProofInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		ReturnErrorJSON(w, "decoding request", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		ReturnErrorJSON(w, err.Error(), http.StatusBadRequest)
		return
	}

	proof, err := s.artifacts.Prove(input)
	if err != nil {
		log.Error().Err(err).Msg("proving request failed")
		ReturnErrorJSON(w, "generating proof", http.StatusInternalServerError)
		return
	}
	ReturnJSON(w, proof, http.StatusOK)
}

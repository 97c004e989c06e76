package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

func ReturnJSON(w http.ResponseWriter, resp interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	encoder := json.NewEncoder(w)
	if err := encoder.Encode(resp); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}

func ReturnErrorJSON(w http.ResponseWriter, msg string, statusCode int) {
	resp := map[string]interface{}{
		"error": msg,
	}
	ReturnJSON(w, resp, statusCode)
}

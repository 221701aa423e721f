package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/docugate-io/docugate/internal/policy"
	"github.com/docugate-io/docugate/internal/watchlist"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

type rulesEvaluateRequest struct {
	SourceID string          `json:"source_id"`
	Payload  json.RawMessage `json:"payload"`
}

// handleRulesEvaluate adapts JSON to Engine.Evaluate. Bad user data comes
// back as a 200 with REJECT violations per the engine contract; only a
// malformed envelope or a contract-level payload type error is an HTTP error.
func (s *Server) handleRulesEvaluate(w http.ResponseWriter, r *http.Request) {
	var req rulesEvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}
	if req.SourceID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "source_id is required")
		return
	}

	result, err := s.rules.Evaluate(r.Context(), req.SourceID, req.Payload)
	if err != nil {
		if errors.Is(err, policy.ErrBadPayloadType) {
			writeError(w, http.StatusBadRequest, "invalid_payload_type", err.Error())
			return
		}
		log.Error().Err(err).Str("source_id", req.SourceID).Msg("rule evaluation failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "rule evaluation failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleWatchlistSearch(w http.ResponseWriter, r *http.Request) {
	var q watchlist.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}

	result, err := s.screening.Search(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Str("requester_ref", q.RequesterRef).Msg("watchlist search failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "watchlist search failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

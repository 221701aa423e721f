// Package server exposes the two core call contracts over HTTP for the
// orchestration layer: rule evaluation and watchlist search. Handlers only
// adapt JSON to the engines; all decision logic lives in internal/policy and
// internal/watchlist.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/docugate-io/docugate/internal/otel"
	"github.com/docugate-io/docugate/internal/policy"
	"github.com/docugate-io/docugate/internal/watchlist"
)

const defaultTimeout = 60 * time.Second

// Server holds the engines backing the HTTP API.
type Server struct {
	router    *chi.Mux
	rules     *policy.Engine
	screening *watchlist.Engine
	startTime time.Time
}

// NewServer builds a Server over the given engines.
func NewServer(rules *policy.Engine, screening *watchlist.Engine) *Server {
	return &Server{
		router:    chi.NewRouter(),
		rules:     rules,
		screening: screening,
		startTime: time.Now(),
	}
}

// Routes returns the configured http.Handler.
func (s *Server) Routes() http.Handler {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(otel.Middleware())
	r.Use(middleware.Timeout(defaultTimeout))

	r.Get("/health", s.handleHealth)
	r.Get("/v1/health", s.handleHealth)

	r.Post("/v1/rules/evaluate", s.handleRulesEvaluate)
	r.Post("/v1/watchlist/search", s.handleWatchlistSearch)

	return r
}

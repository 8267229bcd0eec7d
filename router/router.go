// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/urna/broadcast"
	"github.com/danielhkuo/urna/handlers"
	"github.com/danielhkuo/urna/middleware"
	"github.com/danielhkuo/urna/models"
	"github.com/danielhkuo/urna/store"
)

func NewRouter(votes *store.Store, registry *store.Registry, bcast *broadcast.Broadcaster) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	queryHandler := handlers.NewQueryHandler(votes, registry)
	candidateHandler := handlers.NewCandidateHandler(votes)
	eventsHandler := handlers.NewEventsHandler(bcast)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{Status: "ok"})
	})

	// Read-only aggregates (dashboard polling)
	mux.HandleFunc("GET /votos", middleware.WithLogging(queryHandler.ListVoteCounts))
	mux.HandleFunc("GET /estadisticas", middleware.WithLogging(queryHandler.GetStatistics))
	mux.HandleFunc("POST /verificar-huella", middleware.WithLogging(queryHandler.VerifyFingerprint))

	// Candidate roster (admin seed surface)
	mux.HandleFunc("GET /candidatos", middleware.WithLogging(candidateHandler.ListCandidates))
	mux.HandleFunc("POST /candidatos", middleware.WithLogging(candidateHandler.AddCandidate))

	// Realtime channel (no logging wrapper; the connection is long-lived)
	mux.HandleFunc("GET /eventos", eventsHandler.Stream)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("urna API v1"))
	})

	return middleware.CORS(mux)
}

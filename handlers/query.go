// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/urna/middleware"
	"github.com/danielhkuo/urna/models"
	"github.com/danielhkuo/urna/store"
)

// QueryHandler serves the read-only aggregation API the dashboards poll.
// It reflects the store as of call time; dashboards combine it with the
// realtime channel for incremental updates.
type QueryHandler struct {
	votes    *store.Store
	registry *store.Registry
}

func NewQueryHandler(votes *store.Store, registry *store.Registry) *QueryHandler {
	return &QueryHandler{votes: votes, registry: registry}
}

// ListVoteCounts handles GET /votos
func (h *QueryHandler) ListVoteCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.votes.CountsByCandidate(r.Context())
	if err != nil {
		slog.Error("failed to query vote counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, counts)
}

// GetStatistics handles GET /estadisticas
func (h *QueryHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	totalVotos, err := h.votes.TotalVotes(r.Context())
	if err != nil {
		slog.Error("failed to count votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	totalVotantes, err := h.votes.TotalVoters(r.Context())
	if err != nil {
		slog.Error("failed to count voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatisticsResponse{
		TotalVotos:    totalVotos,
		TotalVotantes: totalVotantes,
	})
}

// VerifyFingerprint handles POST /verificar-huella
func (h *QueryHandler) VerifyFingerprint(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyFingerprintRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Huella == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "huella is required")
		return
	}

	registered, err := h.registry.IsRegistered(r.Context(), req.Huella)
	if err != nil {
		slog.Error("failed to verify fingerprint", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	voted := false
	if registered {
		voted, err = h.registry.HasVoted(r.Context(), req.Huella)
		if err != nil {
			slog.Error("failed to check vote status", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.VerifyFingerprintResponse{
		Registrado: registered,
		HaVotado:   voted,
	})
}

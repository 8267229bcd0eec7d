// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/urna/middleware"
	"github.com/danielhkuo/urna/models"
	"github.com/danielhkuo/urna/store"
)

// CandidateHandler is the minimal candidate surface the strict ingestion
// mode depends on: list the roster and add to it. Candidate lifecycle
// beyond that is an administrative concern outside this service.
type CandidateHandler struct {
	votes *store.Store
}

func NewCandidateHandler(votes *store.Store) *CandidateHandler {
	return &CandidateHandler{votes: votes}
}

// ListCandidates handles GET /candidatos
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.votes.ListCandidates(r.Context())
	if err != nil {
		slog.Error("failed to list candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// AddCandidate handles POST /candidatos
func (h *CandidateHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Nombre = strings.TrimSpace(req.Nombre)
	if req.Nombre == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nombre is required")
		return
	}

	id, err := h.votes.AddCandidate(r.Context(), req.Nombre, req.Descripcion)
	if err == store.ErrCandidateExists {
		middleware.ErrorResponse(w, http.StatusConflict, "Candidate already exists")
		return
	}
	if err != nil {
		slog.Error("failed to add candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{
		CandidatoID: id,
		Mensaje:     "Candidato agregado correctamente",
	})
}

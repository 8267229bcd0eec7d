package models

import "time"

// Inbound message actions
const (
	ActionVote     = "vote"
	ActionRegistro = "registro"
)

// Realtime event name pushed to dashboard subscribers
const EventNuevoVoto = "nuevoVoto"

// Request types

type VerifyFingerprintRequest struct {
	Huella string `json:"huella"`
}

type AddCandidateRequest struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

// Response types

type VerifyFingerprintResponse struct {
	Registrado bool `json:"registrado"`
	HaVotado   bool `json:"haVotado"`
}

type StatisticsResponse struct {
	TotalVotos    int `json:"totalVotos"`
	TotalVotantes int `json:"totalVotantes"`
}

type AddCandidateResponse struct {
	CandidatoID string `json:"id_candidato"`
	Mensaje     string `json:"mensaje"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// Domain types

type Voter struct {
	ID           string    `json:"id"`
	Huella       string    `json:"huella"`
	RegistradoEn time.Time `json:"registrado_en"`
}

type Candidate struct {
	ID          string `json:"id_candidato"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion,omitempty"`
}

// VoteCount is one leaderboard row: a candidate reference and how many
// committed votes it holds.
type VoteCount struct {
	Candidato string `json:"candidato"`
	Total     int    `json:"total"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

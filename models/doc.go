// Package models defines the wire-level request, response, and domain types
// shared across the ingestion pipeline and the HTTP query surface.
//
// Field names follow the deployed Spanish wire contract (candidato, huella,
// totalVotos) so dashboards and the biometric publisher keep working
// unchanged.
package models

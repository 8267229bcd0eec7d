// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielhkuo/urna/models"
)

// Envelope is the decoded inbound message.
type Envelope struct {
	Action    string `json:"action"`
	Candidato string `json:"candidato,omitempty"`
	Huella    string `json:"huella,omitempty"`
}

// decode parses a message payload into an Envelope. The primary format is
// the JSON envelope; when legacyWire is enabled, non-JSON payloads fall
// back to the colon-delimited "accion:dato" form the old fingerprint
// devices emit.
func decode(data []byte, legacyWire bool) (Envelope, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Envelope{}, fmt.Errorf("empty payload")
	}

	if trimmed[0] != '{' {
		if legacyWire {
			return decodeLegacy(string(trimmed))
		}
		return Envelope{}, fmt.Errorf("payload is not a JSON envelope")
	}

	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Envelope{}, fmt.Errorf("invalid JSON envelope: %w", err)
	}

	return validate(env)
}

// decodeLegacy parses the "accion:dato" wire variant. The dato half is the
// candidate name for votes and the huella for registrations; it may itself
// contain colons.
func decodeLegacy(payload string) (Envelope, error) {
	accion, dato, ok := strings.Cut(payload, ":")
	if !ok {
		return Envelope{}, fmt.Errorf("legacy payload missing delimiter")
	}

	switch accion {
	case "voto", models.ActionVote:
		return validate(Envelope{Action: models.ActionVote, Candidato: dato})
	case models.ActionRegistro:
		return validate(Envelope{Action: models.ActionRegistro, Huella: dato})
	}

	return Envelope{}, fmt.Errorf("unknown legacy action %q", accion)
}

func validate(env Envelope) (Envelope, error) {
	switch env.Action {
	case models.ActionVote:
		if env.Candidato == "" {
			return Envelope{}, fmt.Errorf("vote without candidato")
		}
	case models.ActionRegistro:
		if env.Huella == "" {
			return Envelope{}, fmt.Errorf("registro without huella")
		}
	default:
		return Envelope{}, fmt.Errorf("unknown action %q", env.Action)
	}

	return env, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Registered voters, keyed by their biometric fingerprint id.
-- Registration is append-only; rows are never mutated by the pipeline.
CREATE TABLE IF NOT EXISTS usuarios (
    id TEXT PRIMARY KEY,
    huella TEXT NOT NULL UNIQUE,
    registrado_en TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_usuarios_huella ON usuarios(huella);

-- Candidates. Managed by the admin surface; the ingester only reads them.
CREATE TABLE IF NOT EXISTS candidatos (
    id TEXT PRIMARY KEY,
    nombre TEXT NOT NULL UNIQUE,
    descripcion TEXT
);

-- Committed votes. The UNIQUE constraint on id_usuario is the arbiter for
-- one-vote-per-voter: concurrent commits for the same voter race on it and
-- exactly one insert wins. NULL id_usuario (anonymous mode) is exempt.
CREATE TABLE IF NOT EXISTS votos (
    id TEXT PRIMARY KEY,
    id_usuario TEXT UNIQUE REFERENCES usuarios(id),
    candidato TEXT NOT NULL,
    emitido_en TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_votos_candidato ON votos(candidato);
`

// SeedCandidates inserts a starter candidate list when the table is empty.
// Safe to call on every startup.
func SeedCandidates(db *sql.DB, nombres []string) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM candidatos`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count candidatos: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, nombre := range nombres {
		_, err := db.Exec(`
			INSERT INTO candidatos (id, nombre) VALUES ($1, $2)
		`, uuid.NewString(), nombre)
		if err != nil {
			return fmt.Errorf("failed to seed candidato %q: %w", nombre, err)
		}
	}

	return nil
}

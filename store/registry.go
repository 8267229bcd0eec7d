// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RegisterStatus is the outcome of a registration attempt.
type RegisterStatus int

const (
	RegisterCreated RegisterStatus = iota
	// RegisterAlreadyExists means the huella was registered earlier.
	// Expected outcome on redelivery, not an error.
	RegisterAlreadyExists
)

func (s RegisterStatus) String() string {
	if s == RegisterAlreadyExists {
		return "already_exists"
	}
	return "created"
}

// Registry tracks which biometric identifiers are registered. It is the
// sole writer of the usuarios table; registration is append-only.
type Registry struct {
	db      *sql.DB
	timeout time.Duration
}

func NewRegistry(db *sql.DB, timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Registry{db: db, timeout: timeout}
}

// Register creates a voter row for huella. Concurrent identical
// registrations race on the usuarios.huella UNIQUE constraint; the losers
// return RegisterAlreadyExists rather than an error.
func (r *Registry) Register(ctx context.Context, huella string) (RegisterStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO usuarios (id, huella, registrado_en)
		VALUES ($1, $2, $3)
	`, uuid.NewString(), huella, time.Now())

	if err != nil {
		if isUniqueViolation(err) {
			return RegisterAlreadyExists, nil
		}
		return 0, fmt.Errorf("failed to register voter: %w", err)
	}

	return RegisterCreated, nil
}

// IsRegistered reports whether huella has a voter row.
func (r *Registry) IsRegistered(ctx context.Context, huella string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM usuarios WHERE huella = $1)
	`, huella).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}

	return exists, nil
}

// HasVoted reports whether the voter with huella has a committed vote.
// Reads the votos voter index rather than a separate flag, so "voted"
// state can never drift from the actual vote rows.
func (r *Registry) HasVoted(ctx context.Context, huella string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM votos v
			JOIN usuarios u ON v.id_usuario = u.id
			WHERE u.huella = $1
		)
	`, huella).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check vote status: %w", err)
	}

	return exists, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/urna/models"
)

// CommitStatus is the outcome of a vote commit attempt.
type CommitStatus int

const (
	VoteCommitted CommitStatus = iota
	// DuplicateVoter means this voter already has a committed vote.
	// Expected outcome under concurrent or replayed delivery, not an error.
	DuplicateVoter
	// UnknownCandidate is returned in strict mode for candidate names with
	// no candidatos row.
	UnknownCandidate
	// UnknownVoter means the huella has no usuarios row.
	UnknownVoter
)

func (s CommitStatus) String() string {
	switch s {
	case VoteCommitted:
		return "committed"
	case DuplicateVoter:
		return "duplicate_voter"
	case UnknownCandidate:
		return "unknown_candidate"
	case UnknownVoter:
		return "unknown_voter"
	}
	return "unknown"
}

// CommitResult carries the commit outcome and, when committed, the vote id.
type CommitResult struct {
	Status CommitStatus
	VoteID string
}

type Options struct {
	// StrictCandidates requires the candidate to exist in candidatos.
	// When false, unknown names become free-form tally buckets.
	StrictCandidates bool
	// Timeout bounds every storage call. A timed-out commit is unconfirmed:
	// callers must treat it as transient and never broadcast it.
	Timeout time.Duration
}

// Store is the durable, append-only vote log with aggregate counts.
// It is the sole writer of the votos table.
type Store struct {
	db   *sql.DB
	opts Options
}

func New(db *sql.DB, opts Options) *Store {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &Store{db: db, opts: opts}
}

// CommitVote records one vote for candidato, attributed to the voter with
// the given huella. An empty huella commits an anonymous (uncorrelated)
// vote; callers gate whether that is allowed.
//
// The commit is a single INSERT racing on the votos.id_usuario UNIQUE
// constraint: out of any number of concurrent commits for the same voter,
// exactly one insert wins and the rest surface as DuplicateVoter. No
// application-level check-then-insert is involved, so the guarantee holds
// across process instances consuming the same topic.
func (s *Store) CommitVote(ctx context.Context, huella, candidato string) (CommitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	// The candidate check runs outside the insert. That is safe: the
	// roster only ever grows through the admin surface, and dedup never
	// depends on it.
	if s.opts.StrictCandidates {
		var exists bool
		err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM candidatos WHERE nombre = $1)
		`, candidato).Scan(&exists)
		if err != nil {
			return CommitResult{}, fmt.Errorf("failed to check candidate: %w", err)
		}
		if !exists {
			return CommitResult{Status: UnknownCandidate}, nil
		}
	}

	voteID := uuid.NewString()

	if huella == "" {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO votos (id, id_usuario, candidato, emitido_en)
			VALUES ($1, NULL, $2, $3)
		`, voteID, candidato, time.Now())
		if err != nil {
			return CommitResult{}, fmt.Errorf("failed to insert vote: %w", err)
		}
		return CommitResult{Status: VoteCommitted, VoteID: voteID}, nil
	}

	// Voter resolution and insert in one statement, so the whole commit is
	// one implicit transaction on both drivers
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO votos (id, id_usuario, candidato, emitido_en)
		SELECT $1, u.id, $2, $3 FROM usuarios u WHERE u.huella = $4
	`, voteID, candidato, time.Now(), huella)

	if err != nil {
		// The UNIQUE constraint on id_usuario is the dedup arbiter
		if isUniqueViolation(err) {
			return CommitResult{Status: DuplicateVoter}, nil
		}
		return CommitResult{}, fmt.Errorf("failed to insert vote: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to read insert result: %w", err)
	}
	if inserted == 0 {
		return CommitResult{Status: UnknownVoter}, nil
	}

	return CommitResult{Status: VoteCommitted, VoteID: voteID}, nil
}

// CountsByCandidate returns the leaderboard: per-candidate committed vote
// counts ordered by descending count, ties broken by candidate name
// ascending. In strict mode zero-vote candidates are included.
func (s *Store) CountsByCandidate(ctx context.Context) ([]models.VoteCount, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	query := `
		SELECT candidato, COUNT(*) AS total
		FROM votos
		GROUP BY candidato
		ORDER BY total DESC, candidato ASC
	`
	if s.opts.StrictCandidates {
		query = `
			SELECT c.nombre, COUNT(v.id) AS total
			FROM candidatos c
			LEFT JOIN votos v ON v.candidato = c.nombre
			GROUP BY c.nombre
			ORDER BY total DESC, c.nombre ASC
		`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vote counts: %w", err)
	}
	defer rows.Close()

	counts := []models.VoteCount{}
	for rows.Next() {
		var vc models.VoteCount
		if err := rows.Scan(&vc.Candidato, &vc.Total); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts = append(counts, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vote counts: %w", err)
	}

	return counts, nil
}

// TotalVotes returns the number of committed votes.
func (s *Store) TotalVotes(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votos`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return total, nil
}

// TotalVoters returns the number of registered voters.
func (s *Store) TotalVoters(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return total, nil
}

// ListCandidates returns all candidates ordered by name.
func (s *Store) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nombre, COALESCE(descripcion, '')
		FROM candidatos
		ORDER BY nombre ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Descripcion); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	return candidates, nil
}

// AddCandidate inserts a candidate and returns its id.
// Returns ErrCandidateExists when the name is already taken.
func (s *Store) AddCandidate(ctx context.Context, nombre, descripcion string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidatos (id, nombre, descripcion)
		VALUES ($1, $2, $3)
	`, id, nombre, descripcion)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrCandidateExists
		}
		return "", fmt.Errorf("failed to insert candidate: %w", err)
	}

	slog.Info("candidate added", "nombre", nombre, "id", id)

	return id, nil
}

// isUniqueViolation reports whether err is a unique-constraint failure.
// Matches both drivers the server runs against: modernc.org/sqlite
// ("UNIQUE constraint failed: ...") and lib/pq ("pq: duplicate key value
// violates unique constraint ...").
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements the durable voting state: the voter registry and
the append-only vote log with aggregate counts.

# One vote per voter

The central guarantee of the system lives here. CommitVote never does an
application-level "check then insert"; it performs a single INSERT that
races on the UNIQUE constraint over votos.id_usuario. Out of any number of
concurrent vote events for the same voter, across any number of process
instances, exactly one insert succeeds and every other attempt maps the
constraint violation to DuplicateVoter. Registration works the same way
against usuarios.huella.

# Expected outcomes vs errors

DuplicateVoter, UnknownCandidate, UnknownVoter, and RegisterAlreadyExists
are result values, not errors: they are decided outcomes the ingester acks.
An error return means storage did not confirm the operation (unavailable,
timed out); callers must treat it as transient and must not broadcast.

# Drivers

All SQL runs unchanged on PostgreSQL (lib/pq) and SQLite
(modernc.org/sqlite). Unique violations are detected by message text for
both drivers, same as the rest of the codebase.
*/
package store

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the urna vote aggregation server.

Urna consumes biometric vote and registration events from a NATS JetStream
topic, enforces one-vote-per-voter at the storage layer, and pushes
committed votes to live dashboards in real time.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... NATS_URL=nats://... go run main.go

Or with flags:

	go run main.go -p 3001 -d "postgres://..." -n "nats://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string

Optional settings:

  - PORT (-p): HTTP port (default: 3001)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - NATS_URL (-n): broker URL (default: nats://127.0.0.1:4222)
  - VOTE_SUBJECT (-s): inbound subject (default: votos.entrada)
  - STRICT_CANDIDATES: reject unknown candidates (default: true)
  - REQUIRE_VOTER: reject votes without a huella (default: true)
  - LEGACY_WIRE: accept colon-delimited payloads (default: false)
  - STORAGE_TIMEOUT_MS: per-query deadline (default: 5000)
  - SEED_CANDIDATES: insert the starter roster when empty (default: false)

# Architecture

The server uses explicit service objects with dependency injection:

  - store: voter registry and the append-only vote log (the one-vote
    guarantee lives in its uniqueness constraints)
  - ingest: JetStream consumer driving the store and the broadcaster
  - broadcast: bounded, non-blocking fan-out to live subscribers
  - handlers: read-only query surface and the nuevoVoto event stream
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: wire types (Spanish field names per the deployed contract)
  - db: schema creation and seed data
  - cliparse: configuration parsing
  - metrics: Prometheus instruments, served at /metrics

See package documentation for each component.
*/
package main

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package db owns schema creation and seed data for the voting tables.
//
// The schema is written to run unchanged on both PostgreSQL (lib/pq) and
// SQLite (modernc.org/sqlite), which is why timestamps use
// CURRENT_TIMESTAMP and ids are caller-generated TEXT.
package db

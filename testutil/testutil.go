// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/urna/cliparse"
	"github.com/danielhkuo/urna/db"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// A file in t.TempDir() rather than :memory: so the connection pool shares
// one database; busy_timeout makes concurrent writers wait instead of
// failing with SQLITE_BUSY.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "urna_test.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3001,
		DatabaseType:     "sqlite",
		VoteSubject:      "votos.entrada",
		StreamName:       "VOTOS",
		StrictCandidates: true,
		RequireVoter:     true,
		StorageTimeout:   5 * time.Second,
	}
}

// AddTestCandidate inserts a candidate and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, nombre string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO candidatos (id, nombre) VALUES ($1, $2)
	`, id, nombre)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return id
}

// RegisterTestVoter inserts a voter row for huella and returns its ID
func RegisterTestVoter(t *testing.T, conn *sql.DB, huella string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO usuarios (id, huella, registrado_en) VALUES ($1, $2, $3)
	`, id, huella, time.Now())
	if err != nil {
		t.Fatalf("Failed to register test voter: %v", err)
	}

	return id
}

// CastTestVote inserts a committed vote. usuarioID may be empty for an
// anonymous vote.
func CastTestVote(t *testing.T, conn *sql.DB, usuarioID, candidato string) string {
	t.Helper()

	var voter any
	if usuarioID != "" {
		voter = usuarioID
	}

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO votos (id, id_usuario, candidato, emitido_en) VALUES ($1, $2, $3, $4)
	`, id, voter, candidato, time.Now())
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}

	return id
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

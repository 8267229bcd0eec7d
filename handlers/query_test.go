// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/urna/models"
	"github.com/danielhkuo/urna/store"
	"github.com/danielhkuo/urna/testutil"
)

func setupQueryHandler(t *testing.T) (*QueryHandler, *sql.DB) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	votes := store.New(conn, store.Options{StrictCandidates: true, Timeout: 5 * time.Second})
	registry := store.NewRegistry(conn, 5*time.Second)
	return NewQueryHandler(votes, registry), conn
}

func TestListVoteCounts(t *testing.T) {
	h, conn := setupQueryHandler(t)

	testutil.AddTestCandidate(t, conn, "Alice")
	testutil.AddTestCandidate(t, conn, "Bob")
	u1 := testutil.RegisterTestVoter(t, conn, "F1")
	u2 := testutil.RegisterTestVoter(t, conn, "F2")
	testutil.CastTestVote(t, conn, u1, "Bob")
	testutil.CastTestVote(t, conn, u2, "Bob")

	req := testutil.MakeRequest("GET", "/votos", nil, nil)
	w := httptest.NewRecorder()

	h.ListVoteCounts(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var counts []models.VoteCount
	testutil.AssertJSON(t, w, &counts)

	if len(counts) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(counts))
	}
	if counts[0].Candidato != "Bob" || counts[0].Total != 2 {
		t.Errorf("Expected Bob=2 first, got %+v", counts[0])
	}
	if counts[1].Candidato != "Alice" || counts[1].Total != 0 {
		t.Errorf("Expected Alice=0 second, got %+v", counts[1])
	}
}

func TestGetStatistics(t *testing.T) {
	h, conn := setupQueryHandler(t)

	testutil.AddTestCandidate(t, conn, "Alice")
	u1 := testutil.RegisterTestVoter(t, conn, "F1")
	testutil.RegisterTestVoter(t, conn, "F2")
	testutil.CastTestVote(t, conn, u1, "Alice")

	req := testutil.MakeRequest("GET", "/estadisticas", nil, nil)
	w := httptest.NewRecorder()

	h.GetStatistics(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.StatisticsResponse
	testutil.AssertJSON(t, w, &stats)

	if stats.TotalVotos != 1 {
		t.Errorf("Expected 1 vote, got %d", stats.TotalVotos)
	}
	if stats.TotalVotantes != 2 {
		t.Errorf("Expected 2 voters, got %d", stats.TotalVotantes)
	}
}

func TestVerifyFingerprint(t *testing.T) {
	h, conn := setupQueryHandler(t)
	testutil.AddTestCandidate(t, conn, "Alice")
	testutil.RegisterTestVoter(t, conn, "F100")
	u2 := testutil.RegisterTestVoter(t, conn, "F200")
	testutil.CastTestVote(t, conn, u2, "Alice")

	testCases := []struct {
		name       string
		huella     string
		registrado bool
		haVotado   bool
	}{
		{"registered", "F100", true, false},
		{"already voted", "F200", true, true},
		{"unregistered", "F999", false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/verificar-huella",
				models.VerifyFingerprintRequest{Huella: tc.huella}, nil)
			w := httptest.NewRecorder()

			h.VerifyFingerprint(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.VerifyFingerprintResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Registrado != tc.registrado {
				t.Errorf("Expected registrado=%v, got %v", tc.registrado, resp.Registrado)
			}
			if resp.HaVotado != tc.haVotado {
				t.Errorf("Expected haVotado=%v, got %v", tc.haVotado, resp.HaVotado)
			}
		})
	}
}

func TestVerifyFingerprint_BadRequests(t *testing.T) {
	h, _ := setupQueryHandler(t)

	// Missing huella
	req := testutil.MakeRequest("POST", "/verificar-huella",
		models.VerifyFingerprintRequest{}, nil)
	w := httptest.NewRecorder()
	h.VerifyFingerprint(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Invalid JSON
	req = httptest.NewRequest("POST", "/verificar-huella", nil)
	w = httptest.NewRecorder()
	h.VerifyFingerprint(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

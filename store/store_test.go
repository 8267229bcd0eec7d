// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/urna/testutil"
)

func newTestStore(t *testing.T, strict bool) *Store {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	testutil.AddTestCandidate(t, conn, "Alice")
	testutil.AddTestCandidate(t, conn, "Bob")
	testutil.RegisterTestVoter(t, conn, "F100")
	return New(conn, Options{StrictCandidates: strict, Timeout: 5 * time.Second})
}

func TestCommitVote(t *testing.T) {
	s := newTestStore(t, true)
	ctx := context.Background()

	res, err := s.CommitVote(ctx, "F100", "Alice")
	if err != nil {
		t.Fatalf("CommitVote failed: %v", err)
	}
	if res.Status != VoteCommitted {
		t.Fatalf("Expected VoteCommitted, got %s", res.Status)
	}
	if res.VoteID == "" {
		t.Error("Expected a vote ID on commit")
	}

	total, err := s.TotalVotes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("Expected 1 vote, got %d", total)
	}
}

func TestCommitVote_DuplicateVoter(t *testing.T) {
	s := newTestStore(t, true)
	ctx := context.Background()

	if _, err := s.CommitVote(ctx, "F100", "Alice"); err != nil {
		t.Fatalf("First commit failed: %v", err)
	}

	// Second vote from the same voter, even for another candidate, is dropped
	res, err := s.CommitVote(ctx, "F100", "Bob")
	if err != nil {
		t.Fatalf("Second commit errored: %v", err)
	}
	if res.Status != DuplicateVoter {
		t.Fatalf("Expected DuplicateVoter, got %s", res.Status)
	}

	total, _ := s.TotalVotes(ctx)
	if total != 1 {
		t.Errorf("Expected exactly 1 committed vote, got %d", total)
	}
}

func TestCommitVote_UnknownVoter(t *testing.T) {
	s := newTestStore(t, true)

	res, err := s.CommitVote(context.Background(), "F999", "Alice")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != UnknownVoter {
		t.Errorf("Expected UnknownVoter, got %s", res.Status)
	}
}

func TestCommitVote_UnknownCandidateStrict(t *testing.T) {
	s := newTestStore(t, true)

	res, err := s.CommitVote(context.Background(), "F100", "Mallory")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != UnknownCandidate {
		t.Errorf("Expected UnknownCandidate, got %s", res.Status)
	}

	total, _ := s.TotalVotes(context.Background())
	if total != 0 {
		t.Errorf("Rejected vote must not be committed, got %d votes", total)
	}
}

func TestCommitVote_FreeTextCandidateLoose(t *testing.T) {
	s := newTestStore(t, false)
	ctx := context.Background()

	// Loose mode: unknown names become free-form tally buckets
	res, err := s.CommitVote(ctx, "F100", "Mallory")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != VoteCommitted {
		t.Fatalf("Expected VoteCommitted in loose mode, got %s", res.Status)
	}

	counts, err := s.CountsByCandidate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 1 || counts[0].Candidato != "Mallory" || counts[0].Total != 1 {
		t.Errorf("Expected Mallory bucket with 1 vote, got %+v", counts)
	}
}

func TestCommitVote_AnonymousVotes(t *testing.T) {
	s := newTestStore(t, true)
	ctx := context.Background()

	// Empty huella commits uncorrelated votes; uniqueness does not apply
	for i := 0; i < 3; i++ {
		res, err := s.CommitVote(ctx, "", "Alice")
		if err != nil {
			t.Fatalf("Anonymous commit %d failed: %v", i, err)
		}
		if res.Status != VoteCommitted {
			t.Fatalf("Expected VoteCommitted, got %s", res.Status)
		}
	}

	total, _ := s.TotalVotes(ctx)
	if total != 3 {
		t.Errorf("Expected 3 anonymous votes, got %d", total)
	}
}

// TestConcurrentVotesSameVoter verifies the at-most-one-vote invariant:
// two concurrent vote events for the same voter yield exactly one committed
// vote, the other a DuplicateVoter.
func TestConcurrentVotesSameVoter(t *testing.T) {
	s := newTestStore(t, true)
	ctx := context.Background()

	candidates := []string{"Alice", "Bob"}
	results := make([]CommitResult, len(candidates))
	errs := make([]error, len(candidates))

	var wg sync.WaitGroup
	for i, c := range candidates {
		wg.Add(1)
		go func(i int, c string) {
			defer wg.Done()
			results[i], errs[i] = s.CommitVote(ctx, "F100", c)
		}(i, c)
	}
	wg.Wait()

	committed, duplicates := 0, 0
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("Commit %d errored: %v", i, errs[i])
		}
		switch results[i].Status {
		case VoteCommitted:
			committed++
		case DuplicateVoter:
			duplicates++
		default:
			t.Fatalf("Unexpected status %s", results[i].Status)
		}
	}

	if committed != 1 || duplicates != 1 {
		t.Errorf("Expected exactly one committed and one duplicate, got %d/%d", committed, duplicates)
	}

	total, _ := s.TotalVotes(ctx)
	if total != 1 {
		t.Errorf("Expected totalVotes == 1, got %d", total)
	}
}

func TestCountsByCandidate_OrderingAndSum(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.AddTestCandidate(t, conn, "Alice")
	testutil.AddTestCandidate(t, conn, "Bob")
	testutil.AddTestCandidate(t, conn, "Carol")
	s := New(conn, Options{StrictCandidates: true})
	ctx := context.Background()

	// Bob 2 votes, Alice 1, Carol 0
	for i, pair := range [][2]string{{"F1", "Bob"}, {"F2", "Bob"}, {"F3", "Alice"}} {
		testutil.RegisterTestVoter(t, conn, pair[0])
		res, err := s.CommitVote(ctx, pair[0], pair[1])
		if err != nil || res.Status != VoteCommitted {
			t.Fatalf("Seed vote %d failed: %v / %v", i, err, res.Status)
		}
	}

	counts, err := s.CountsByCandidate(ctx)
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		candidato string
		total     int
	}{{"Bob", 2}, {"Alice", 1}, {"Carol", 0}}

	if len(counts) != len(want) {
		t.Fatalf("Expected %d rows, got %d: %+v", len(want), len(counts), counts)
	}
	sum := 0
	for i, w := range want {
		if counts[i].Candidato != w.candidato || counts[i].Total != w.total {
			t.Errorf("Row %d: expected %s=%d, got %s=%d",
				i, w.candidato, w.total, counts[i].Candidato, counts[i].Total)
		}
		sum += counts[i].Total
	}

	// Aggregate correctness: counts sum to totalVotes
	total, _ := s.TotalVotes(ctx)
	if sum != total {
		t.Errorf("Counts sum %d != totalVotes %d", sum, total)
	}
}

func TestCountsByCandidate_TieBreak(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn, Options{StrictCandidates: false})
	ctx := context.Background()

	for _, pair := range [][2]string{{"F1", "Zoe"}, {"F2", "Ana"}} {
		testutil.RegisterTestVoter(t, conn, pair[0])
		if _, err := s.CommitVote(ctx, pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := s.CountsByCandidate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// Equal counts break ties by candidate name ascending
	if len(counts) != 2 || counts[0].Candidato != "Ana" || counts[1].Candidato != "Zoe" {
		t.Errorf("Expected stable tie-break Ana before Zoe, got %+v", counts)
	}
}

func TestAddCandidate_Duplicate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn, Options{StrictCandidates: true})
	ctx := context.Background()

	if _, err := s.AddCandidate(ctx, "Alice", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddCandidate(ctx, "Alice", "again"); err != ErrCandidateExists {
		t.Errorf("Expected ErrCandidateExists, got %v", err)
	}
}

func TestListCandidates(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn, Options{StrictCandidates: true})
	ctx := context.Background()

	testutil.AddTestCandidate(t, conn, "Bob")
	testutil.AddTestCandidate(t, conn, "Alice")

	candidates, err := s.ListCandidates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 2 || candidates[0].Nombre != "Alice" || candidates[1].Nombre != "Bob" {
		t.Errorf("Expected [Alice Bob], got %+v", candidates)
	}
}

package standings_test

import (
	"testing"

	"github.com/amylase/rime-judge/internal/contest/model"
	"github.com/amylase/rime-judge/internal/contest/standings"
)

func submission(id int64, contestantID, problemID string, status model.SubmissionStatus, submitTime int64) model.Submission {
	return model.Submission{
		ID:           id,
		ContestantID: contestantID,
		ProblemID:    problemID,
		Status:       status,
		SubmitTime:   submitTime,
	}
}

func TestComputePenaltyAndRank(t *testing.T) {
	t.Parallel()
	// alice: one wrong attempt then accepted at t=100 -> 100 + 1200 = 1300.
	// bob: accepted at t=50, no wrong attempts -> 50.
	submissions := []model.Submission{
		submission(1, "alice", "p1", model.StatusWrongAnswer, 10),
		submission(2, "alice", "p1", model.StatusAccepted, 100),
		submission(3, "bob", "p1", model.StatusAccepted, 50),
	}
	rows := standings.Compute(submissions, []string{"p1"}, 0)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ContestantID != "bob" || rows[0].Penalty != 50 {
		t.Fatalf("expected bob first with penalty 50, got %s penalty %d", rows[0].ContestantID, rows[0].Penalty)
	}
	if rows[1].ContestantID != "alice" || rows[1].Penalty != 1300 {
		t.Fatalf("expected alice second with penalty 1300, got %s penalty %d", rows[1].ContestantID, rows[1].Penalty)
	}
	if got := rows[1].Problems["p1"]; got != "100 (+1)" {
		t.Fatalf("expected cell %q, got %q", "100 (+1)", got)
	}
}

func TestComputeSolvedCountDominatesPenalty(t *testing.T) {
	t.Parallel()
	submissions := []model.Submission{
		submission(1, "alice", "p1", model.StatusAccepted, 10),
		submission(2, "bob", "p1", model.StatusAccepted, 5000),
		submission(3, "bob", "p2", model.StatusAccepted, 6000),
	}
	rows := standings.Compute(submissions, []string{"p1", "p2"}, 0)
	if rows[0].ContestantID != "bob" || rows[0].Solved != 2 {
		t.Fatalf("expected bob first with 2 solved, got %s with %d", rows[0].ContestantID, rows[0].Solved)
	}
	if rows[1].ContestantID != "alice" || rows[1].Solved != 1 {
		t.Fatalf("expected alice second with 1 solved, got %s with %d", rows[1].ContestantID, rows[1].Solved)
	}
}

func TestComputeTieBreakByContestantID(t *testing.T) {
	t.Parallel()
	submissions := []model.Submission{
		submission(1, "zoe", "p1", model.StatusAccepted, 100),
		submission(2, "amy", "p1", model.StatusAccepted, 100),
	}
	rows := standings.Compute(submissions, []string{"p1"}, 0)
	if rows[0].ContestantID != "amy" || rows[1].ContestantID != "zoe" {
		t.Fatalf("expected amy before zoe, got %s, %s", rows[0].ContestantID, rows[1].ContestantID)
	}
}

func TestComputeIgnoresAttemptsAfterSolve(t *testing.T) {
	t.Parallel()
	submissions := []model.Submission{
		submission(1, "alice", "p1", model.StatusAccepted, 100),
		submission(2, "alice", "p1", model.StatusWrongAnswer, 200),
		submission(3, "alice", "p1", model.StatusAccepted, 300),
	}
	rows := standings.Compute(submissions, []string{"p1"}, 0)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Penalty != 100 {
		t.Fatalf("expected penalty 100, got %d", rows[0].Penalty)
	}
	if got := rows[0].Problems["p1"]; got != "100 (+0)" {
		t.Fatalf("expected cell %q, got %q", "100 (+0)", got)
	}
}

func TestComputeUnsolvedWrongAttemptsCostNothing(t *testing.T) {
	t.Parallel()
	submissions := []model.Submission{
		submission(1, "alice", "p1", model.StatusAccepted, 100),
		submission(2, "alice", "p2", model.StatusWrongAnswer, 200),
		submission(3, "alice", "p2", model.StatusTimeLimitExceeded, 300),
	}
	rows := standings.Compute(submissions, []string{"p1", "p2"}, 0)
	if rows[0].Solved != 1 || rows[0].Penalty != 100 {
		t.Fatalf("expected 1 solved penalty 100, got %d solved penalty %d", rows[0].Solved, rows[0].Penalty)
	}
	if got := rows[0].Problems["p2"]; got != standings.UnsolvedMarker {
		t.Fatalf("expected unsolved marker, got %q", got)
	}
}

func TestComputeSkipsUnjudgedSubmissions(t *testing.T) {
	t.Parallel()
	submissions := []model.Submission{
		submission(1, "alice", "p1", model.StatusSubmitted, 10),
		submission(2, "alice", "p1", model.StatusJudging, 20),
		submission(3, "alice", "p1", model.StatusAccepted, 100),
		submission(4, "ghost", "p1", model.StatusSubmitted, 30),
	}
	rows := standings.Compute(submissions, []string{"p1"}, 0)
	if len(rows) != 1 {
		t.Fatalf("expected only judged contestants, got %d rows", len(rows))
	}
	// Pending attempts before the solve add no wrong-attempt penalty.
	if rows[0].Penalty != 100 {
		t.Fatalf("expected penalty 100, got %d", rows[0].Penalty)
	}
}

func TestComputeWindowStartOffset(t *testing.T) {
	t.Parallel()
	submissions := []model.Submission{
		submission(1, "alice", "p1", model.StatusAccepted, 1000),
	}
	rows := standings.Compute(submissions, []string{"p1"}, 400)
	if rows[0].Penalty != 600 {
		t.Fatalf("expected penalty 600, got %d", rows[0].Penalty)
	}
}

func TestComputeOrderInsensitiveInput(t *testing.T) {
	t.Parallel()
	// Store listings promise no order; the same set in any order must
	// produce the same table.
	base := []model.Submission{
		submission(1, "alice", "p1", model.StatusWrongAnswer, 10),
		submission(2, "alice", "p1", model.StatusAccepted, 100),
	}
	reversed := []model.Submission{base[1], base[0]}

	got := standings.Compute(reversed, []string{"p1"}, 0)
	if got[0].Penalty != 1300 {
		t.Fatalf("expected penalty 1300 from reversed input, got %d", got[0].Penalty)
	}
}

func TestComputeSameTimestampOrdersByID(t *testing.T) {
	t.Parallel()
	submissions := []model.Submission{
		submission(2, "alice", "p1", model.StatusAccepted, 100),
		submission(1, "alice", "p1", model.StatusWrongAnswer, 100),
	}
	rows := standings.Compute(submissions, []string{"p1"}, 0)
	// id 1 (wrong) sorts before id 2 (accepted), so it counts as a
	// wrong attempt before the solve.
	if rows[0].Penalty != 100+standings.WAPenalty {
		t.Fatalf("expected penalty %d, got %d", 100+standings.WAPenalty, rows[0].Penalty)
	}
}

func TestComputeEmpty(t *testing.T) {
	t.Parallel()
	rows := standings.Compute(nil, []string{"p1"}, 0)
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

package worker_test

import (
	"testing"

	"github.com/amylase/rime-judge/internal/contest/model"
	"github.com/amylase/rime-judge/internal/contest/worker"
)

func records(verdicts ...string) []model.VerdictRecord {
	out := make([]model.VerdictRecord, 0, len(verdicts))
	for _, v := range verdicts {
		out = append(out, model.VerdictRecord{Verdict: v})
	}
	return out
}

func TestFoldVerdicts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		records []model.VerdictRecord
		want    model.SubmissionStatus
	}{
		{name: "empty", records: nil, want: model.StatusCompileError},
		{name: "all-accepted", records: records("Accepted", "Accepted"), want: model.StatusAccepted},
		{name: "single-accepted", records: records("Accepted"), want: model.StatusAccepted},
		{name: "no-accepted-at-all", records: records("Wrong Answer", "Time Limit Exceeded"), want: model.StatusCompileError},
		{name: "tle-wins-over-wa", records: records("Accepted", "Wrong Answer", "Time Limit Exceeded"), want: model.StatusTimeLimitExceeded},
		{name: "accepted-plus-tle", records: records("Accepted", "Time Limit Exceeded"), want: model.StatusTimeLimitExceeded},
		{name: "accepted-plus-wa", records: records("Accepted", "Wrong Answer"), want: model.StatusWrongAnswer},
		{name: "unknown-verdict-is-failure", records: records("Accepted", "Runtime Error"), want: model.StatusWrongAnswer},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := worker.FoldVerdicts(tt.records); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

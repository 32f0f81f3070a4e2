package project_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/amylase/rime-judge/internal/project"
	appErr "github.com/amylase/rime-judge/pkg/errors"
)

func writeVerdictFiles(t *testing.T, dir, problemID, solutionID string, verdicts map[string]string) {
	t.Helper()
	outDir := filepath.Join(dir, problemID, "rime-out", solutionID)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	for name, content := range verdicts {
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write verdict file failed: %v", err)
		}
	}
}

func TestJudgeCollectsVerdictRecords(t *testing.T) {
	t.Parallel()
	p, dir := newTestProject(t, "aplusb")
	// A deliberately missing binary: the judge exit status is advisory
	// and the verdict artifacts decide the outcome.
	runner := project.NewRunner(p, filepath.Join(dir, "no-such-rime"))

	writeVerdictFiles(t, dir, "aplusb", "alice_1", map[string]string{
		"1.txt.cache":  `{"verdict": "Accepted", "time": 0.12}`,
		"2.txt.cache":  `{"verdict": "Time Limit Exceeded"}`,
		"judge.log":    "not a verdict",
		"3.txt.result": `{"verdict": "Accepted"}`,
	})

	records, err := runner.Judge(context.Background(), "aplusb", "alice_1")
	if err != nil {
		t.Fatalf("judge failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 verdict records, got %d", len(records))
	}
	verdicts := map[string]bool{}
	for _, record := range records {
		verdicts[record.Verdict] = true
	}
	if !verdicts["Accepted"] || !verdicts["Time Limit Exceeded"] {
		t.Fatalf("unexpected verdicts: %v", verdicts)
	}
}

func TestJudgeMissingOutputDirIsBackendError(t *testing.T) {
	t.Parallel()
	p, dir := newTestProject(t, "aplusb")
	runner := project.NewRunner(p, filepath.Join(dir, "no-such-rime"))

	_, err := runner.Judge(context.Background(), "aplusb", "alice_1")
	if appErr.GetCode(err) != appErr.JudgeBackendError {
		t.Fatalf("expected JudgeBackendError, got %v", err)
	}
}

func TestJudgeMalformedVerdictFile(t *testing.T) {
	t.Parallel()
	p, dir := newTestProject(t, "aplusb")
	runner := project.NewRunner(p, filepath.Join(dir, "no-such-rime"))

	writeVerdictFiles(t, dir, "aplusb", "alice_1", map[string]string{
		"1.txt.cache": `not json`,
	})

	_, err := runner.Judge(context.Background(), "aplusb", "alice_1")
	if appErr.GetCode(err) != appErr.VerdictParseError {
		t.Fatalf("expected VerdictParseError, got %v", err)
	}
}

func TestBuildFailsOnMissingBinary(t *testing.T) {
	t.Parallel()
	p, dir := newTestProject(t, "aplusb")
	runner := project.NewRunner(p, filepath.Join(dir, "no-such-rime"))

	err := runner.Build(context.Background())
	if appErr.GetCode(err) != appErr.JudgeBackendError {
		t.Fatalf("expected JudgeBackendError, got %v", err)
	}
}

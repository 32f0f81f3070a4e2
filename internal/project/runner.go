package project

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/amylase/rime-judge/internal/contest/model"
	appErr "github.com/amylase/rime-judge/pkg/errors"
	"github.com/amylase/rime-judge/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	judgeOutputDir     = "rime-out"
	verdictFileSuffix  = "cache"
	defaultRimeCommand = "rime"
)

// Runner invokes the rime CLI against the project and interprets its
// verdict artifacts. It implements the worker pool's JudgeBackend.
type Runner struct {
	project *Project
	rimeBin string
}

// NewRunner creates a runner for the project. rimeBin may be empty to
// use the rime binary from PATH.
func NewRunner(project *Project, rimeBin string) *Runner {
	if rimeBin == "" {
		rimeBin = defaultRimeCommand
	}
	return &Runner{
		project: project,
		rimeBin: rimeBin,
	}
}

// RunCommand runs one rime command with the project as working
// directory and returns its combined output.
func (r *Runner) RunCommand(ctx context.Context, command string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.rimeBin, append([]string{command}, args...)...)
	cmd.Dir = r.project.Dir()
	return cmd.CombinedOutput()
}

// Build builds the whole project. It fails on a non-zero exit since an
// unbuilt project cannot judge anything.
func (r *Runner) Build(ctx context.Context) error {
	output, err := r.RunCommand(ctx, "build")
	if err != nil {
		return appErr.Wrapf(err, appErr.JudgeBackendError, "rime build failed: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

// Judge runs the backend for one packaged solution and collects its
// per-test-case verdict records. The exit status of the judge command
// itself is advisory; the verdict artifacts decide the outcome, and a
// missing artifact directory is a backend failure.
func (r *Runner) Judge(ctx context.Context, problemID, solutionID string) ([]model.VerdictRecord, error) {
	output, err := r.RunCommand(ctx, "judge", problemID, solutionID)
	if err != nil {
		logger.Warn(ctx, "rime judge exited abnormally",
			zap.String("problem_id", problemID),
			zap.String("solution_id", solutionID),
			zap.String("output", strings.TrimSpace(string(output))),
			zap.Error(err))
	}
	return r.collectVerdicts(problemID, solutionID)
}

func (r *Runner) collectVerdicts(problemID, solutionID string) ([]model.VerdictRecord, error) {
	outDir := filepath.Join(r.project.Dir(), problemID, judgeOutputDir, solutionID)
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.JudgeBackendError, "read judge output failed")
	}

	var records []model.VerdictRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), verdictFileSuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			return nil, appErr.Wrapf(err, appErr.JudgeBackendError, "read verdict file failed")
		}
		var record model.VerdictRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, appErr.Wrapf(err, appErr.VerdictParseError, "parse verdict file %s failed", entry.Name())
		}
		records = append(records, record)
	}
	return records, nil
}

// Package worker implements the fixed pool of judging workers that
// drain the judge queue and record verdicts in the submission store.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/amylase/rime-judge/internal/contest/model"
	"github.com/amylase/rime-judge/internal/contest/queue"
	"github.com/amylase/rime-judge/internal/contest/store"
	"github.com/amylase/rime-judge/pkg/utils/logger"

	"go.uber.org/zap"
)

// JudgeBackend compiles and executes a packaged solution against the
// problem's test cases and reports one verdict record per case. It is
// invoked synchronously and may fail as a process error.
type JudgeBackend interface {
	Judge(ctx context.Context, problemID, solutionID string) ([]model.VerdictRecord, error)
}

// StatusReporter receives best-effort status notifications as a
// submission moves through the pipeline. Implementations must not
// block judging on failure.
type StatusReporter interface {
	ReportStatus(ctx context.Context, id int64, status model.SubmissionStatus)
}

// Config holds pool dependencies and settings.
type Config struct {
	Store    store.SubmissionStore
	Queue    *queue.JudgeQueue
	Backend  JudgeBackend
	Reporter StatusReporter
	Workers  int
}

// Pool is a fixed-size set of judging workers. Each worker processes
// one submission at a time, synchronously blocked on the backend call.
// The queue is the sole point of cross-worker coordination.
type Pool struct {
	store    store.SubmissionStore
	queue    *queue.JudgeQueue
	backend  JudgeBackend
	reporter StatusReporter
	workers  int
	wg       sync.WaitGroup
}

// NewPool creates a worker pool.
func NewPool(cfg Config) (*Pool, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("submission store is required")
	}
	if cfg.Queue == nil {
		return nil, fmt.Errorf("judge queue is required")
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("judge backend is required")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		store:    cfg.Store,
		queue:    cfg.Queue,
		backend:  cfg.Backend,
		reporter: cfg.Reporter,
		workers:  workers,
	}, nil
}

// Start launches the workers. They run until the queue is closed and
// drained.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(workerID int) {
			defer p.wg.Done()
			p.run(ctx, workerID)
		}(i)
	}
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, workerID int) {
	for {
		id, ok := p.queue.Dequeue()
		if !ok {
			logger.Info(ctx, "judge worker stopped", zap.Int("worker", workerID))
			return
		}
		p.judgeOne(ctx, workerID, id)
	}
}

// judgeOne moves a single submission SUBMITTED -> JUDGING -> terminal.
// Errors never escape: a backend failure records COMPILE_ERROR and a
// store failure is logged, so the worker loop survives either.
func (p *Pool) judgeOne(ctx context.Context, workerID int, id int64) {
	if err := p.updateStatus(ctx, id, model.StatusJudging); err != nil {
		logger.Error(ctx, "mark submission judging failed",
			zap.Int64("submission_id", id), zap.Error(err))
		return
	}

	submission, err := p.store.Get(ctx, id)
	if err != nil {
		logger.Error(ctx, "load submission failed",
			zap.Int64("submission_id", id), zap.Error(err))
		return
	}

	status := model.StatusCompileError
	records, err := p.backend.Judge(ctx, submission.ProblemID, submission.SolutionID)
	if err != nil {
		logger.Warn(ctx, "judge backend invocation failed",
			zap.Int64("submission_id", id),
			zap.String("problem_id", submission.ProblemID),
			zap.String("solution_id", submission.SolutionID),
			zap.Error(err))
	} else {
		status = FoldVerdicts(records)
	}

	if err := p.updateStatus(ctx, id, status); err != nil {
		logger.Error(ctx, "record submission verdict failed",
			zap.Int64("submission_id", id),
			zap.String("status", string(status)),
			zap.Error(err))
		return
	}
	logger.Info(ctx, "submission judged",
		zap.Int("worker", workerID),
		zap.Int64("submission_id", id),
		zap.String("problem_id", submission.ProblemID),
		zap.String("status", string(status)))
}

func (p *Pool) updateStatus(ctx context.Context, id int64, status model.SubmissionStatus) error {
	if err := p.store.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	if p.reporter != nil {
		p.reporter.ReportStatus(ctx, id, status)
	}
	return nil
}

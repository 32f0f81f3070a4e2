// Package contest composes the submission store, judge queue, worker
// pool and standings calculator into the contest orchestration engine.
package contest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/amylase/rime-judge/internal/contest/model"
	"github.com/amylase/rime-judge/internal/contest/queue"
	"github.com/amylase/rime-judge/internal/contest/standings"
	"github.com/amylase/rime-judge/internal/contest/store"
	"github.com/amylase/rime-judge/internal/contest/worker"
	appErr "github.com/amylase/rime-judge/pkg/errors"
	"github.com/amylase/rime-judge/pkg/utils/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectLayer packages solution artifacts for the judge backend and
// enumerates the problem catalog.
type ProjectLayer interface {
	// AddSolution materializes the solution artifact. It fails with a
	// DuplicateSolution error on a solution id collision and an
	// UnknownProblem error when the problem does not exist.
	AddSolution(problemID, solutionID string, language model.Language, source string) error

	// ProblemIDs returns the ordered problem catalog.
	ProblemIDs() ([]string, error)
}

// Config holds orchestrator dependencies.
type Config struct {
	Store    store.SubmissionStore
	Queue    *queue.JudgeQueue
	Pool     *worker.Pool
	Project  ProjectLayer
	Reporter worker.StatusReporter // optional
	Window   model.Window
}

// Orchestrator accepts new submissions, dispatches judging work and
// answers standings and history queries.
type Orchestrator struct {
	store    store.SubmissionStore
	queue    *queue.JudgeQueue
	pool     *worker.Pool
	project  ProjectLayer
	reporter worker.StatusReporter
	window   model.Window
}

// New creates an orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("submission store is required")
	}
	if cfg.Queue == nil {
		return nil, fmt.Errorf("judge queue is required")
	}
	if cfg.Project == nil {
		return nil, fmt.Errorf("project layer is required")
	}
	return &Orchestrator{
		store:    cfg.Store,
		queue:    cfg.Queue,
		pool:     cfg.Pool,
		project:  cfg.Project,
		reporter: cfg.Reporter,
		window:   cfg.Window,
	}, nil
}

// Window returns the contest scoring window.
func (o *Orchestrator) Window() model.Window {
	return o.window
}

// Start launches the judge workers.
func (o *Orchestrator) Start(ctx context.Context) {
	if o.pool != nil {
		o.pool.Start(ctx)
	}
}

// Shutdown closes the queue and waits for in-flight judging to finish.
// Unfinished work is recovered by the next startup's Requeue scan.
func (o *Orchestrator) Shutdown() {
	o.queue.Close()
	if o.pool != nil {
		o.pool.Wait()
	}
}

// Submit packages the solution, persists the submission and enqueues
// it for judging, returning the assigned submission id. Packaging
// failures surface synchronously and nothing is persisted or enqueued.
func (o *Orchestrator) Submit(ctx context.Context, contestantID, problemID string, language model.Language, source string) (int64, error) {
	if strings.TrimSpace(contestantID) == "" {
		return 0, appErr.ValidationError("contestant_id", "required")
	}
	if strings.TrimSpace(problemID) == "" {
		return 0, appErr.ValidationError("problem_id", "required")
	}
	if !language.Valid() {
		return 0, appErr.Newf(appErr.LanguageNotSupported, "language %q is not supported", string(language))
	}
	if source == "" {
		return 0, appErr.New(appErr.SourceEmpty)
	}

	solutionID := contestantID + "_" + randomCode()
	if err := o.project.AddSolution(problemID, solutionID, language, source); err != nil {
		return 0, err
	}

	id, err := o.store.Add(ctx, problemID, contestantID, solutionID, language, source)
	if err != nil {
		return 0, appErr.Wrapf(err, appErr.DatabaseError, "persist submission failed")
	}
	if o.reporter != nil {
		o.reporter.ReportStatus(ctx, id, model.StatusSubmitted)
	}
	if err := o.queue.Enqueue(id); err != nil {
		// The record is durable; the next restart's requeue scan will
		// dispatch it.
		logger.Warn(ctx, "enqueue submission failed",
			zap.Int64("submission_id", id), zap.Error(err))
	}
	logger.Info(ctx, "submission accepted",
		zap.Int64("submission_id", id),
		zap.String("contestant_id", contestantID),
		zap.String("problem_id", problemID),
		zap.String("language", string(language)))
	return id, nil
}

// Requeue re-enqueues every submission not yet in a judged status, in
// ascending (SubmitTime, ID) order. It is called once at startup and
// is idempotent; duplicate dispatch is allowed by design.
func (o *Orchestrator) Requeue(ctx context.Context) (int, error) {
	submissions, err := o.store.ListAll(ctx)
	if err != nil {
		return 0, appErr.Wrapf(err, appErr.DatabaseError, "list submissions failed")
	}
	sortChronological(submissions)

	requeued := 0
	for _, submission := range submissions {
		if submission.Status.Judged() {
			continue
		}
		if err := o.queue.Enqueue(submission.ID); err != nil {
			return requeued, fmt.Errorf("requeue submission %d: %w", submission.ID, err)
		}
		requeued++
	}
	if requeued > 0 {
		logger.Info(ctx, "requeued unfinished submissions", zap.Int("count", requeued))
	}
	return requeued, nil
}

// Standings computes the ranked contestant table from the submissions
// inside the scoring window.
func (o *Orchestrator) Standings(ctx context.Context) ([]standings.Row, error) {
	submissions, err := o.store.ListInWindow(ctx, o.window.Start.Unix(), o.window.End.Unix())
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.DatabaseError, "list window submissions failed")
	}
	problemIDs, err := o.project.ProblemIDs()
	if err != nil {
		return nil, err
	}
	return standings.Compute(submissions, problemIDs, o.window.Start.Unix()), nil
}

// Submissions returns the submission history, optionally restricted to
// one contestant, in ascending (SubmitTime, ID) order.
func (o *Orchestrator) Submissions(ctx context.Context, contestantID string) ([]model.Submission, error) {
	var submissions []model.Submission
	var err error
	if contestantID == "" {
		submissions, err = o.store.ListAll(ctx)
	} else {
		submissions, err = o.store.ListByContestant(ctx, contestantID)
	}
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.DatabaseError, "list submissions failed")
	}
	sortChronological(submissions)
	return submissions, nil
}

// Submission returns one submission by id.
func (o *Orchestrator) Submission(ctx context.Context, id int64) (model.Submission, error) {
	submission, err := o.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Submission{}, appErr.New(appErr.SubmissionNotFound)
		}
		return model.Submission{}, appErr.Wrapf(err, appErr.DatabaseError, "get submission failed")
	}
	return submission, nil
}

// ProblemIDs returns the ordered problem catalog.
func (o *Orchestrator) ProblemIDs() ([]string, error) {
	return o.project.ProblemIDs()
}

func sortChronological(submissions []model.Submission) {
	sort.Slice(submissions, func(i, j int) bool {
		if submissions[i].SubmitTime != submissions[j].SubmitTime {
			return submissions[i].SubmitTime < submissions[j].SubmitTime
		}
		return submissions[i].ID < submissions[j].ID
	})
}

// randomCode yields the random suffix that makes solution ids unique
// per contestant.
func randomCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

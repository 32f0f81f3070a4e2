package store

import (
	"context"
	"errors"

	"github.com/amylase/rime-judge/internal/contest/model"
)

// ErrNotFound is returned when no submission exists for the given id.
var ErrNotFound = errors.New("submission not found")

// SubmissionStore is the durable record of every submission. It is the
// single source of truth for both crash recovery and standings.
//
// Listing methods promise no iteration order; callers that need
// chronological replay must sort by (SubmitTime, ID) themselves.
type SubmissionStore interface {
	// Add creates a submission with status SUBMITTED and the current
	// Unix timestamp as SubmitTime, returning the assigned id. Safe
	// under concurrent callers.
	Add(ctx context.Context, problemID, contestantID, solutionID string, language model.Language, source string) (int64, error)

	// UpdateStatus overwrites the status of an existing submission.
	// Returns ErrNotFound if the id is absent.
	UpdateStatus(ctx context.Context, id int64, status model.SubmissionStatus) error

	// Get returns the submission with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (model.Submission, error)

	// ListAll returns every submission.
	ListAll(ctx context.Context) ([]model.Submission, error)

	// ListByContestant returns every submission by one contestant.
	ListByContestant(ctx context.Context, contestantID string) ([]model.Submission, error)

	// ListInWindow returns submissions with start <= SubmitTime < end.
	ListInWindow(ctx context.Context, start, end int64) ([]model.Submission, error)
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/amylase/rime-judge/internal/common/db"
	"github.com/amylase/rime-judge/internal/contest/model"
)

const submissionColumns = "id, problem_id, contestant_id, solution_id, language, status, source, submit_time"

// MySQLStore implements SubmissionStore backed by MySQL.
type MySQLStore struct {
	db  db.Database
	now func() time.Time
}

// NewMySQLStore creates a submission store over the given database.
func NewMySQLStore(database db.Database) *MySQLStore {
	return &MySQLStore{
		db:  database,
		now: time.Now,
	}
}

// Add inserts a submission with status SUBMITTED and the current time.
func (s *MySQLStore) Add(ctx context.Context, problemID, contestantID, solutionID string, language model.Language, source string) (int64, error) {
	query := `
		INSERT INTO submissions
		(problem_id, contestant_id, solution_id, language, status, source, submit_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.Exec(
		ctx,
		query,
		problemID,
		contestantID,
		solutionID,
		string(language),
		string(model.StatusSubmitted),
		source,
		s.now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert submission failed: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read submission id failed: %w", err)
	}
	return id, nil
}

// UpdateStatus overwrites the status of an existing submission.
func (s *MySQLStore) UpdateStatus(ctx context.Context, id int64, status model.SubmissionStatus) error {
	result, err := s.db.Exec(ctx, "UPDATE submissions SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("update submission status failed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected failed: %w", err)
	}
	if affected == 0 {
		// The status may equal the stored one; distinguish a no-op
		// overwrite from a missing row.
		if _, getErr := s.Get(ctx, id); getErr != nil {
			return getErr
		}
	}
	return nil
}

// Get returns the submission with the given id.
func (s *MySQLStore) Get(ctx context.Context, id int64) (model.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submissions WHERE id = ? LIMIT 1"
	row := s.db.QueryRow(ctx, query, id)
	submission, err := scanSubmission(row)
	if err != nil {
		if db.IsNoRows(err) {
			return model.Submission{}, ErrNotFound
		}
		return model.Submission{}, err
	}
	return submission, nil
}

// ListAll returns every submission.
func (s *MySQLStore) ListAll(ctx context.Context) ([]model.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submissions"
	return s.list(ctx, query)
}

// ListByContestant returns every submission by one contestant.
func (s *MySQLStore) ListByContestant(ctx context.Context, contestantID string) ([]model.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submissions WHERE contestant_id = ?"
	return s.list(ctx, query, contestantID)
}

// ListInWindow returns submissions with start <= submit_time < end.
func (s *MySQLStore) ListInWindow(ctx context.Context, start, end int64) ([]model.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submissions WHERE ? <= submit_time AND submit_time < ?"
	return s.list(ctx, query, start, end)
}

func (s *MySQLStore) list(ctx context.Context, query string, args ...interface{}) ([]model.Submission, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var submissions []model.Submission
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions failed: %w", err)
	}
	return submissions, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row scanner) (model.Submission, error) {
	var submission model.Submission
	var language, status string
	if err := row.Scan(
		&submission.ID,
		&submission.ProblemID,
		&submission.ContestantID,
		&submission.SolutionID,
		&language,
		&status,
		&submission.Source,
		&submission.SubmitTime,
	); err != nil {
		return model.Submission{}, err
	}
	parsedLanguage, ok := model.ParseLanguage(language)
	if !ok {
		return model.Submission{}, fmt.Errorf("submission %d has unknown language %q", submission.ID, language)
	}
	parsedStatus, ok := model.ParseStatus(status)
	if !ok {
		return model.Submission{}, fmt.Errorf("submission %d has unknown status %q", submission.ID, status)
	}
	submission.Language = parsedLanguage
	submission.Status = parsedStatus
	return submission, nil
}

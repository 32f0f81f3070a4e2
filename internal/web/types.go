package web

import "github.com/amylase/rime-judge/internal/contest/model"

// SubmitRequest is the submission intake payload.
type SubmitRequest struct {
	ContestantID string `json:"contestant_id" binding:"required"`
	ProblemID    string `json:"problem_id" binding:"required"`
	Language     string `json:"language" binding:"required"`
	Source       string `json:"source" binding:"required"`
}

// SubmitResponse carries the assigned submission id.
type SubmitResponse struct {
	SubmissionID int64  `json:"submission_id"`
	Status       string `json:"status"`
}

// SubmissionView is the API shape of one submission. Source is only
// populated on single-record reads.
type SubmissionView struct {
	ID              int64  `json:"id"`
	ProblemID       string `json:"problem_id"`
	ContestantID    string `json:"contestant_id"`
	Language        string `json:"language"`
	LanguageDisplay string `json:"language_display"`
	Status          string `json:"status"`
	StatusDisplay   string `json:"status_display"`
	Judged          bool   `json:"judged"`
	SubmitTime      int64  `json:"submit_time"`
	Source          string `json:"source,omitempty"`
}

// StatusView is the polled status of one submission.
type StatusView struct {
	SubmissionID  int64  `json:"submission_id"`
	Status        string `json:"status"`
	StatusDisplay string `json:"status_display"`
	Judged        bool   `json:"judged"`
}

// LanguageView is one entry of the language catalog.
type LanguageView struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// ContestClock describes the contest window relative to now.
type ContestClock struct {
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
	Phase     string `json:"phase"`
	Detail    string `json:"detail"`
}

func newSubmissionView(submission model.Submission, includeSource bool) SubmissionView {
	view := SubmissionView{
		ID:              submission.ID,
		ProblemID:       submission.ProblemID,
		ContestantID:    submission.ContestantID,
		Language:        string(submission.Language),
		LanguageDisplay: submission.Language.DisplayName(),
		Status:          string(submission.Status),
		StatusDisplay:   submission.Status.DisplayName(),
		Judged:          submission.Status.Judged(),
		SubmitTime:      submission.SubmitTime,
	}
	if includeSource {
		view.Source = submission.Source
	}
	return view
}

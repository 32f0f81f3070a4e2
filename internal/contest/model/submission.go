package model

// Submission is the durable record of one contestant solution.
// IDs are assigned by the store and never reused; SubmitTime is set at
// creation and immutable afterwards.
type Submission struct {
	ID           int64
	ProblemID    string
	ContestantID string
	SolutionID   string
	Language     Language
	Status       SubmissionStatus
	Source       string
	SubmitTime   int64
}

// VerdictRecord is one per-test-case verdict emitted by the judge
// backend for a solution.
type VerdictRecord struct {
	Verdict string `json:"verdict"`
}

// Verdict strings the judge backend emits.
const (
	VerdictAccepted          = "Accepted"
	VerdictTimeLimitExceeded = "Time Limit Exceeded"
)

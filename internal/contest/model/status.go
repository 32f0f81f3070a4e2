package model

// SubmissionStatus identifies a stage in the submission lifecycle.
// The zero value is not a valid status.
type SubmissionStatus string

const (
	StatusSubmitted         SubmissionStatus = "SUBMITTED"
	StatusJudging           SubmissionStatus = "JUDGING"
	StatusAccepted          SubmissionStatus = "ACCEPTED"
	StatusTimeLimitExceeded SubmissionStatus = "TIME_LIMIT_EXCEEDED"
	StatusWrongAnswer       SubmissionStatus = "WRONG_ANSWER"
	StatusCompileError      SubmissionStatus = "COMPILE_ERROR"
)

type statusAttrs struct {
	displayName string
	judged      bool
}

var statusTable = map[SubmissionStatus]statusAttrs{
	StatusSubmitted:         {"Submitted", false},
	StatusJudging:           {"Judging", false},
	StatusAccepted:          {"Accepted", true},
	StatusTimeLimitExceeded: {"Time Limit Exceeded", true},
	StatusWrongAnswer:       {"Wrong Answer", true},
	StatusCompileError:      {"Compile Error", true},
}

// Valid reports whether s is one of the known statuses.
func (s SubmissionStatus) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

// Judged reports whether s is a terminal status. Judged submissions
// never transition again and are the only ones counted by standings.
func (s SubmissionStatus) Judged() bool {
	return statusTable[s].judged
}

// DisplayName returns the human-readable name of the status.
func (s SubmissionStatus) DisplayName() string {
	if attrs, ok := statusTable[s]; ok {
		return attrs.displayName
	}
	return string(s)
}

// ParseStatus converts a stored status name into a SubmissionStatus.
func ParseStatus(name string) (SubmissionStatus, bool) {
	s := SubmissionStatus(name)
	return s, s.Valid()
}

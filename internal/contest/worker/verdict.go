package worker

import "github.com/amylase/rime-judge/internal/contest/model"

// FoldVerdicts reduces per-test-case verdict records to a terminal
// submission status with a fixed precedence:
//
//	no Accepted record at all          -> COMPILE_ERROR
//	any Time Limit Exceeded record     -> TIME_LIMIT_EXCEEDED
//	any other non-Accepted record      -> WRONG_ANSWER
//	otherwise                          -> ACCEPTED
//
// An empty record set means the backend produced nothing, which is
// indistinguishable from a compile failure.
func FoldVerdicts(records []model.VerdictRecord) model.SubmissionStatus {
	foundAccepted := false
	foundTLE := false
	foundFailure := false
	for _, record := range records {
		switch record.Verdict {
		case model.VerdictAccepted:
			foundAccepted = true
		case model.VerdictTimeLimitExceeded:
			foundTLE = true
		default:
			foundFailure = true
		}
	}
	switch {
	case !foundAccepted:
		return model.StatusCompileError
	case foundTLE:
		return model.StatusTimeLimitExceeded
	case foundFailure:
		return model.StatusWrongAnswer
	default:
		return model.StatusAccepted
	}
}

// Package standings derives the ranked contestant table from the
// time-windowed submission history. Computation is a pure function of
// its inputs.
package standings

import (
	"fmt"
	"sort"

	"github.com/amylase/rime-judge/internal/contest/model"
)

// WAPenalty is the contest-rule penalty per wrong attempt on a solved
// problem, in seconds (20 minutes).
const WAPenalty = 20 * 60

// UnsolvedMarker is the cell text for a problem without an accepted
// submission.
const UnsolvedMarker = "-"

// Row is one contestant's line in the standings table.
type Row struct {
	ContestantID string            `json:"contestant_id"`
	Solved       int               `json:"solved"`
	Penalty      int64             `json:"penalty"`
	Problems     map[string]string `json:"problems"`
}

// Compute builds the ranked standings from submissions inside the
// scoring window. Only judged submissions count. Per contestant and
// problem, the first accepted submission marks it solved at
// SubmitTime - windowStart seconds; earlier non-accepted judged
// submissions count as wrong attempts; anything after the solve is
// ignored. Rank order is descending solved count, ascending penalty,
// ascending contestant id. Contestants without judged submissions in
// the window do not appear.
func Compute(submissions []model.Submission, problemIDs []string, windowStart int64) []Row {
	ordered := make([]model.Submission, len(submissions))
	copy(ordered, submissions)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].SubmitTime != ordered[j].SubmitTime {
			return ordered[i].SubmitTime < ordered[j].SubmitTime
		}
		return ordered[i].ID < ordered[j].ID
	})

	type problemState struct {
		solved      bool
		timeToSolve int64
		wrongCount  int64
	}
	states := make(map[string]map[string]*problemState)

	participant := func(contestantID string) map[string]*problemState {
		problems, ok := states[contestantID]
		if !ok {
			problems = make(map[string]*problemState)
			states[contestantID] = problems
		}
		return problems
	}

	for _, submission := range ordered {
		if !submission.Status.Judged() {
			continue
		}
		problems := participant(submission.ContestantID)
		state, ok := problems[submission.ProblemID]
		if !ok {
			state = &problemState{}
			problems[submission.ProblemID] = state
		}
		if state.solved {
			continue
		}
		if submission.Status == model.StatusAccepted {
			state.solved = true
			state.timeToSolve = submission.SubmitTime - windowStart
		} else {
			state.wrongCount++
		}
	}

	rows := make([]Row, 0, len(states))
	for contestantID, problems := range states {
		row := Row{
			ContestantID: contestantID,
			Problems:     make(map[string]string, len(problemIDs)),
		}
		for _, problemID := range problemIDs {
			state, ok := problems[problemID]
			if !ok || !state.solved {
				row.Problems[problemID] = UnsolvedMarker
				continue
			}
			row.Solved++
			row.Penalty += state.timeToSolve + WAPenalty*state.wrongCount
			row.Problems[problemID] = fmt.Sprintf("%d (+%d)", state.timeToSolve, state.wrongCount)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Solved != rows[j].Solved {
			return rows[i].Solved > rows[j].Solved
		}
		if rows[i].Penalty != rows[j].Penalty {
			return rows[i].Penalty < rows[j].Penalty
		}
		return rows[i].ContestantID < rows[j].ContestantID
	})
	return rows
}

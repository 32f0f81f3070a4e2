package model

import (
	"fmt"
	"time"
)

// Contest phases derived from the scoring window.
const (
	PhaseBefore   = "before"
	PhaseRunning  = "running"
	PhaseFinished = "finished"
)

// Window is the contest scoring window, half-open [Start, End).
// It is immutable for the process lifetime.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether a submit timestamp (Unix seconds) counts
// toward standings.
func (w Window) Contains(submitTime int64) bool {
	return submitTime >= w.Start.Unix() && submitTime < w.End.Unix()
}

// Phase returns the contest phase at the given instant together with a
// human-readable clock description.
func (w Window) Phase(now time.Time) (string, string) {
	now = now.Truncate(time.Second)
	switch {
	case now.Before(w.Start):
		return PhaseBefore, fmt.Sprintf("Before start %s", w.Start.Sub(now))
	case now.Before(w.End):
		return PhaseRunning, fmt.Sprintf("Remaining %s", w.End.Sub(now))
	default:
		return PhaseFinished, "Finished"
	}
}

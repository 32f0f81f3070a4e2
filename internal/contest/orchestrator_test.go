package contest_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amylase/rime-judge/internal/contest"
	"github.com/amylase/rime-judge/internal/contest/model"
	"github.com/amylase/rime-judge/internal/contest/queue"
	"github.com/amylase/rime-judge/internal/contest/store"
	appErr "github.com/amylase/rime-judge/pkg/errors"
)

type memoryStore struct {
	mu          sync.Mutex
	nextID      int64
	submissions map[int64]model.Submission
	now         int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{submissions: make(map[int64]model.Submission)}
}

func (m *memoryStore) put(submission model.Submission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[submission.ID] = submission
	if submission.ID > m.nextID {
		m.nextID = submission.ID
	}
}

func (m *memoryStore) Add(ctx context.Context, problemID, contestantID, solutionID string, language model.Language, source string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.submissions[m.nextID] = model.Submission{
		ID:           m.nextID,
		ProblemID:    problemID,
		ContestantID: contestantID,
		SolutionID:   solutionID,
		Language:     language,
		Status:       model.StatusSubmitted,
		Source:       source,
		SubmitTime:   m.now,
	}
	return m.nextID, nil
}

func (m *memoryStore) UpdateStatus(ctx context.Context, id int64, status model.SubmissionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	submission, ok := m.submissions[id]
	if !ok {
		return store.ErrNotFound
	}
	submission.Status = status
	m.submissions[id] = submission
	return nil
}

func (m *memoryStore) Get(ctx context.Context, id int64) (model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	submission, ok := m.submissions[id]
	if !ok {
		return model.Submission{}, store.ErrNotFound
	}
	return submission, nil
}

func (m *memoryStore) ListAll(ctx context.Context) ([]model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Submission, 0, len(m.submissions))
	for _, submission := range m.submissions {
		out = append(out, submission)
	}
	// Deliberately shuffled order: callers must not rely on it.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryStore) ListByContestant(ctx context.Context, contestantID string) ([]model.Submission, error) {
	all, _ := m.ListAll(ctx)
	out := make([]model.Submission, 0)
	for _, submission := range all {
		if submission.ContestantID == contestantID {
			out = append(out, submission)
		}
	}
	return out, nil
}

func (m *memoryStore) ListInWindow(ctx context.Context, start, end int64) ([]model.Submission, error) {
	all, _ := m.ListAll(ctx)
	out := make([]model.Submission, 0)
	for _, submission := range all {
		if start <= submission.SubmitTime && submission.SubmitTime < end {
			out = append(out, submission)
		}
	}
	return out, nil
}

type fakeProject struct {
	mu        sync.Mutex
	problems  []string
	solutions map[string]string
	addErr    error
}

func newFakeProject(problems ...string) *fakeProject {
	return &fakeProject{problems: problems, solutions: make(map[string]string)}
}

func (f *fakeProject) AddSolution(problemID, solutionID string, language model.Language, source string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	found := false
	for _, p := range f.problems {
		if p == problemID {
			found = true
			break
		}
	}
	if !found {
		return appErr.Newf(appErr.UnknownProblem, "problem %q does not exist", problemID)
	}
	if _, exists := f.solutions[solutionID]; exists {
		return appErr.New(appErr.DuplicateSolution)
	}
	f.solutions[solutionID] = source
	return nil
}

func (f *fakeProject) ProblemIDs() ([]string, error) {
	return f.problems, nil
}

func newTestOrchestrator(t *testing.T, submissions *memoryStore, project *fakeProject, q *queue.JudgeQueue) *contest.Orchestrator {
	t.Helper()
	window := model.Window{
		Start: time.Unix(0, 0),
		End:   time.Unix(100000, 0),
	}
	orchestrator, err := contest.New(contest.Config{
		Store:   submissions,
		Queue:   q,
		Project: project,
		Window:  window,
	})
	if err != nil {
		t.Fatalf("new orchestrator failed: %v", err)
	}
	return orchestrator
}

func TestSubmitPersistsAndEnqueues(t *testing.T) {
	t.Parallel()
	submissions := newMemoryStore()
	project := newFakeProject("aplusb")
	q := queue.New(4)
	orchestrator := newTestOrchestrator(t, submissions, project, q)

	id, err := orchestrator.Submit(context.Background(), "alice", "aplusb", model.LanguageCPP17, "int main() {}")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}
	if got := q.Len(); got != 1 {
		t.Fatalf("expected 1 queued id, got %d", got)
	}

	stored, err := submissions.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != model.StatusSubmitted {
		t.Fatalf("expected SUBMITTED, got %s", stored.Status)
	}
	if !strings.HasPrefix(stored.SolutionID, "alice_") {
		t.Fatalf("expected solution id prefixed with contestant, got %q", stored.SolutionID)
	}
	if _, packaged := project.solutions[stored.SolutionID]; !packaged {
		t.Fatalf("expected solution %q to be packaged", stored.SolutionID)
	}
}

func TestSubmitSolutionIDsAreUnique(t *testing.T) {
	t.Parallel()
	submissions := newMemoryStore()
	project := newFakeProject("aplusb")
	q := queue.New(16)
	orchestrator := newTestOrchestrator(t, submissions, project, q)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id, err := orchestrator.Submit(context.Background(), "alice", "aplusb", model.LanguageCPP14, "code")
		if err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
		stored, _ := submissions.Get(context.Background(), id)
		if seen[stored.SolutionID] {
			t.Fatalf("duplicate solution id %q", stored.SolutionID)
		}
		seen[stored.SolutionID] = true
	}
}

func TestSubmitPackagingFailureLeavesNoTrace(t *testing.T) {
	t.Parallel()
	submissions := newMemoryStore()
	project := newFakeProject("aplusb")
	project.addErr = errors.New("disk full")
	q := queue.New(4)
	orchestrator := newTestOrchestrator(t, submissions, project, q)

	if _, err := orchestrator.Submit(context.Background(), "alice", "aplusb", model.LanguageCPP17, "code"); err == nil {
		t.Fatalf("expected submit to fail")
	}
	if got := q.Len(); got != 0 {
		t.Fatalf("expected empty queue, got %d", got)
	}
	all, _ := submissions.ListAll(context.Background())
	if len(all) != 0 {
		t.Fatalf("expected no stored submissions, got %d", len(all))
	}
}

func TestSubmitUnknownProblem(t *testing.T) {
	t.Parallel()
	submissions := newMemoryStore()
	project := newFakeProject("aplusb")
	q := queue.New(4)
	orchestrator := newTestOrchestrator(t, submissions, project, q)

	_, err := orchestrator.Submit(context.Background(), "alice", "nosuch", model.LanguageCPP17, "code")
	if appErr.GetCode(err) != appErr.UnknownProblem {
		t.Fatalf("expected UnknownProblem, got %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		contestantID string
		problemID    string
		language     model.Language
		source       string
		wantCode     appErr.ErrorCode
	}{
		{name: "empty-contestant", contestantID: "", problemID: "aplusb", language: model.LanguageCPP17, source: "x", wantCode: appErr.ValidationFailed},
		{name: "empty-problem", contestantID: "alice", problemID: " ", language: model.LanguageCPP17, source: "x", wantCode: appErr.ValidationFailed},
		{name: "bad-language", contestantID: "alice", problemID: "aplusb", language: model.Language("RUST"), source: "x", wantCode: appErr.LanguageNotSupported},
		{name: "empty-source", contestantID: "alice", problemID: "aplusb", language: model.LanguageCPP17, source: "", wantCode: appErr.SourceEmpty},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			submissions := newMemoryStore()
			project := newFakeProject("aplusb")
			q := queue.New(4)
			orchestrator := newTestOrchestrator(t, submissions, project, q)

			_, err := orchestrator.Submit(context.Background(), tt.contestantID, tt.problemID, tt.language, tt.source)
			if appErr.GetCode(err) != tt.wantCode {
				t.Fatalf("expected code %d, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestSubmitSurvivesClosedQueue(t *testing.T) {
	t.Parallel()
	submissions := newMemoryStore()
	project := newFakeProject("aplusb")
	q := queue.New(4)
	q.Close()
	orchestrator := newTestOrchestrator(t, submissions, project, q)

	// The record stays durable even though dispatch failed; the next
	// startup requeue scan picks it up.
	id, err := orchestrator.Submit(context.Background(), "alice", "aplusb", model.LanguageCPP17, "code")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := submissions.Get(context.Background(), id); err != nil {
		t.Fatalf("expected stored submission: %v", err)
	}
}

func TestRequeueDispatchesUnfinishedInOrder(t *testing.T) {
	t.Parallel()
	submissions := newMemoryStore()
	submissions.put(model.Submission{ID: 1, ContestantID: "alice", ProblemID: "p1", Status: model.StatusAccepted, SubmitTime: 10})
	submissions.put(model.Submission{ID: 2, ContestantID: "bob", ProblemID: "p1", Status: model.StatusJudging, SubmitTime: 30})
	submissions.put(model.Submission{ID: 3, ContestantID: "carol", ProblemID: "p1", Status: model.StatusSubmitted, SubmitTime: 20})
	submissions.put(model.Submission{ID: 4, ContestantID: "dave", ProblemID: "p1", Status: model.StatusWrongAnswer, SubmitTime: 40})

	project := newFakeProject("p1")
	q := queue.New(8)
	orchestrator := newTestOrchestrator(t, submissions, project, q)

	count, err := orchestrator.Requeue(context.Background())
	if err != nil {
		t.Fatalf("requeue failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 requeued, got %d", count)
	}
	// Chronological dispatch: id 3 (t=20) before id 2 (t=30).
	for _, want := range []int64{3, 2} {
		id, ok := q.Dequeue()
		if !ok || id != want {
			t.Fatalf("expected id %d, got %d ok=%v", want, id, ok)
		}
	}
}

func TestRequeueEmptyStore(t *testing.T) {
	t.Parallel()
	submissions := newMemoryStore()
	project := newFakeProject("p1")
	q := queue.New(8)
	orchestrator := newTestOrchestrator(t, submissions, project, q)

	count, err := orchestrator.Requeue(context.Background())
	if err != nil {
		t.Fatalf("requeue failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 requeued, got %d", count)
	}
}

func TestStandingsUsesScoringWindow(t *testing.T) {
	t.Parallel()
	submissions := newMemoryStore()
	// Inside the window.
	submissions.put(model.Submission{ID: 1, ContestantID: "alice", ProblemID: "p1", Status: model.StatusAccepted, SubmitTime: 100})
	// At the end boundary: excluded (half-open window).
	submissions.put(model.Submission{ID: 2, ContestantID: "bob", ProblemID: "p1", Status: model.StatusAccepted, SubmitTime: 100000})

	project := newFakeProject("p1")
	q := queue.New(4)
	orchestrator := newTestOrchestrator(t, submissions, project, q)

	rows, err := orchestrator.Standings(context.Background())
	if err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ContestantID != "alice" {
		t.Fatalf("expected only alice in standings, got %+v", rows)
	}
}

func TestSubmissionsSortedChronologically(t *testing.T) {
	t.Parallel()
	submissions := newMemoryStore()
	submissions.put(model.Submission{ID: 2, ContestantID: "alice", ProblemID: "p1", Status: model.StatusSubmitted, SubmitTime: 50})
	submissions.put(model.Submission{ID: 1, ContestantID: "alice", ProblemID: "p1", Status: model.StatusSubmitted, SubmitTime: 90})
	submissions.put(model.Submission{ID: 3, ContestantID: "bob", ProblemID: "p1", Status: model.StatusSubmitted, SubmitTime: 50})

	project := newFakeProject("p1")
	q := queue.New(4)
	orchestrator := newTestOrchestrator(t, submissions, project, q)

	all, err := orchestrator.Submissions(context.Background(), "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	wantIDs := []int64{2, 3, 1}
	if len(all) != len(wantIDs) {
		t.Fatalf("expected %d submissions, got %d", len(wantIDs), len(all))
	}
	for i, want := range wantIDs {
		if all[i].ID != want {
			t.Fatalf("position %d: expected id %d, got %d", i, want, all[i].ID)
		}
	}

	mine, err := orchestrator.Submissions(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list by contestant failed: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != 2 || mine[1].ID != 1 {
		t.Fatalf("expected alice's submissions [2 1], got %+v", mine)
	}
}

func TestSubmissionNotFound(t *testing.T) {
	t.Parallel()
	submissions := newMemoryStore()
	project := newFakeProject("p1")
	q := queue.New(4)
	orchestrator := newTestOrchestrator(t, submissions, project, q)

	_, err := orchestrator.Submission(context.Background(), 404)
	if appErr.GetCode(err) != appErr.SubmissionNotFound {
		t.Fatalf("expected SubmissionNotFound, got %v", err)
	}
}

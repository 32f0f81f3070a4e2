package web

import (
	"strconv"
	"time"

	"github.com/amylase/rime-judge/internal/contest"
	"github.com/amylase/rime-judge/internal/contest/model"
	"github.com/amylase/rime-judge/internal/contest/repository"
	"github.com/amylase/rime-judge/internal/contest/standings"
	"github.com/amylase/rime-judge/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// ContestController handles the contest HTTP endpoints.
type ContestController struct {
	orchestrator *contest.Orchestrator
	statusCache  *repository.StatusCache
}

// NewContestController creates a new ContestController. statusCache
// may be nil; status polling then reads the store through the
// orchestrator.
func NewContestController(orchestrator *contest.Orchestrator, statusCache *repository.StatusCache) *ContestController {
	return &ContestController{
		orchestrator: orchestrator,
		statusCache:  statusCache,
	}
}

// CreateSubmission handles submission intake.
func (h *ContestController) CreateSubmission(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}

	id, err := h.orchestrator.Submit(c.Request.Context(), req.ContestantID, req.ProblemID, model.Language(req.Language), req.Source)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, SubmitResponse{
		SubmissionID: id,
		Status:       string(model.StatusSubmitted),
	})
}

// ListSubmissions returns the submission history, optionally filtered
// by contestant.
func (h *ContestController) ListSubmissions(c *gin.Context) {
	submissions, err := h.orchestrator.Submissions(c.Request.Context(), c.Query("contestant_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	views := make([]SubmissionView, 0, len(submissions))
	for _, submission := range submissions {
		views = append(views, newSubmissionView(submission, false))
	}
	response.Success(c, views)
}

// GetSubmission returns one submission including its source.
func (h *ContestController) GetSubmission(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	submission, err := h.orchestrator.Submission(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, newSubmissionView(submission, true))
}

// GetSubmissionStatus returns the polled status of one submission,
// served from the status cache when available.
func (h *ContestController) GetSubmissionStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var status model.SubmissionStatus
	var err error
	if h.statusCache != nil {
		status, err = h.statusCache.GetStatus(c.Request.Context(), id)
		if err != nil {
			// Retry against the store directly; this also normalizes
			// the error to the orchestrator's taxonomy.
			var submission model.Submission
			submission, err = h.orchestrator.Submission(c.Request.Context(), id)
			status = submission.Status
		}
	} else {
		var submission model.Submission
		submission, err = h.orchestrator.Submission(c.Request.Context(), id)
		status = submission.Status
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, StatusView{
		SubmissionID:  id,
		Status:        string(status),
		StatusDisplay: status.DisplayName(),
		Judged:        status.Judged(),
	})
}

// GetStandings returns the ranked standings with the contest clock.
func (h *ContestController) GetStandings(c *gin.Context) {
	rows, err := h.orchestrator.Standings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	problemIDs, err := h.orchestrator.ProblemIDs()
	if err != nil {
		response.Error(c, err)
		return
	}

	window := h.orchestrator.Window()
	phase, detail := window.Phase(time.Now())
	response.Success(c, gin.H{
		"clock": ContestClock{
			StartTime: window.Start.Unix(),
			EndTime:   window.End.Unix(),
			Phase:     phase,
			Detail:    detail,
		},
		"problem_ids": problemIDs,
		"rows":        rowsOrEmpty(rows),
	})
}

// GetProblems returns the ordered problem catalog.
func (h *ContestController) GetProblems(c *gin.Context) {
	problemIDs, err := h.orchestrator.ProblemIDs()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, problemIDs)
}

// GetLanguages returns the supported language catalog.
func (h *ContestController) GetLanguages(c *gin.Context) {
	languages := model.Languages()
	views := make([]LanguageView, 0, len(languages))
	for _, language := range languages {
		views = append(views, LanguageView{
			ID:          string(language),
			DisplayName: language.DisplayName(),
		})
	}
	response.Success(c, views)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid submission id")
		return 0, false
	}
	return id, true
}

func rowsOrEmpty(rows []standings.Row) []standings.Row {
	if rows == nil {
		return []standings.Row{}
	}
	return rows
}

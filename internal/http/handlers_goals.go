package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

type createGoalRequest struct {
	Name         string            `json:"goalName"`
	TargetAmount Amount            `json:"targetAmount"`
	SavedAmount  Amount            `json:"savedAmount"`
	DurationType core.DurationType `json:"durationType"`
	Deadline     *time.Time        `json:"goalDeadline"`
	Months       int               `json:"months"`
}

type addToGoalRequest struct {
	Amount Amount `json:"amount"`
}

// handleListGoals reports goals as stored; the deadline rule only runs when
// a single goal is opened or changed.
func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.deps.Dashboard.Goals(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	out := make([]goalView, len(summaries))
	for i, sum := range summaries {
		out[i] = newGoalView(sum)
	}
	NewResponse().JSON(out).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	goalReq := services.GoalRequest{
		Name:         sanitizeInput(req.Name),
		TargetAmount: float64(req.TargetAmount),
		SavedAmount:  float64(req.SavedAmount),
		DurationType: req.DurationType,
		Months:       req.Months,
	}
	if req.Deadline != nil {
		goalReq.Deadline = *req.Deadline
	}

	g, warning, err := s.deps.Goals.CreateGoal(r.Context(), UserID(r.Context()), goalReq)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(struct {
		Goal    goalView `json:"goal"`
		Warning string   `json:"warning,omitempty"`
	}{goalViewOf(g), warning}).Write(w)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.deps.Goals.RefreshGoalStatus(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewResponse().JSON(goalViewOf(g)).Write(w)
}

func (s *Server) handleAddToGoal(w http.ResponseWriter, r *http.Request) {
	var req addToGoalRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	g, achieved, err := s.deps.Goals.AddAmountToGoal(r.Context(), UserID(r.Context()), r.PathValue("id"), float64(req.Amount))
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	NewResponse().JSON(struct {
		Goal     goalView `json:"goal"`
		Achieved bool     `json:"achieved"`
	}{goalViewOf(g), achieved}).Write(w)
}

func (s *Server) handleAchieveGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Goals.MarkGoalAchieved(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleGoalNotAchieved(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Goals.MarkGoalNotAchieved(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Goals.DeleteGoal(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}

package http

import (
	"context"
	"net/http"
	"time"

	"fintrack/internal/aggregate"
	"fintrack/internal/assistant"
	applog "fintrack/internal/log"
)

// dashboard returns the cached dashboard of userID, computing it on a miss.
// A result computed while a write landed is returned but not cached.
func (s *Server) dashboard(ctx context.Context, userID string) (aggregate.Dashboard, error) {
	if d, ok := s.dashboards.Get(userID); ok {
		applog.FromContext(ctx).DebugContext(ctx, "Dashboard cache hit", applog.FieldUserID, userID)
		return d, nil
	}
	version := s.dashboards.Begin(userID)
	d, err := s.deps.Dashboard.Dashboard(ctx, userID)
	if err != nil {
		return aggregate.Dashboard{}, err
	}
	if !s.dashboards.Store(userID, version, d) {
		applog.FromContext(ctx).DebugContext(ctx, "Dashboard superseded by a write, not cached", applog.FieldUserID, userID)
	}
	return d, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(ctx)

	d, err := s.dashboard(ctx, userID)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	cfg, err := s.deps.Profiles.DisplayFor(ctx, userID)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewResponse().JSON(newDashboardView(d, cfg)).Write(w)
}

type insightsResponse struct {
	Insights    []string   `json:"insights"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
}

// handleInsights always answers 200: a failed load yields the fallback
// messages.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	list := s.deps.Dashboard.Insights(r.Context(), UserID(r.Context()))
	NewResponse().JSON(insightsResponse{Insights: list}).Write(w)
}

// handleLatestInsights serves the list archived by the refresh worker.
func (s *Server) handleLatestInsights(w http.ResponseWriter, r *http.Request) {
	list, at, err := s.deps.Store.LatestInsights(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	resp := insightsResponse{Insights: list}
	if resp.Insights == nil {
		resp.Insights = []string{}
	}
	if !at.IsZero() {
		resp.GeneratedAt = &at
	}
	NewResponse().JSON(resp).Write(w)
}

func (s *Server) handleWeeklyIncome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(ctx)
	weeks, err := s.deps.Dashboard.WeeklyIncome(ctx, userID)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	cfg, err := s.deps.Profiles.DisplayFor(ctx, userID)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	formatted := make([]string, len(weeks))
	for i, v := range weeks {
		formatted[i] = cfg.Format(v)
	}
	NewResponse().JSON(map[string]any{
		"weeks":     weeks,
		"formatted": formatted,
	}).Write(w)
}

func (s *Server) handleAssistantPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(ctx)
	question := sanitizeInput(r.URL.Query().Get("question"))
	if question == "" {
		writeError(w, r, applog.OpRead, assistant.ErrEmptyQuestion)
		return
	}

	in, err := s.deps.Dashboard.Load(ctx, userID)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	cfg, err := s.deps.Profiles.DisplayFor(ctx, userID)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	prompt, err := assistant.BuildPrompt(assistant.FromInput(in), cfg, question)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewResponse().JSON(map[string]string{"prompt": prompt}).Write(w)
}

package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"git.home.luguber.info/inful/sitegraph/internal/eventstore"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// BuildResponse summarizes the most recent build report.
type BuildResponse struct {
	BuildID    string            `json:"build_id"`
	Trigger    string            `json:"trigger"`
	Outcome    string            `json:"outcome"`
	DurationMS int64             `json:"duration_ms"`
	Pages      int               `json:"pages"`
	Redirects  int               `json:"redirects"`
	Skipped    int               `json:"skipped"`
	Widened    int               `json:"widened"`
	Warnings   int               `json:"warnings"`
	Stages     map[string]string `json:"stages"`
	Errors     []string          `json:"errors,omitempty"`
}

func (s *Server) handleLastBuild(w http.ResponseWriter, r *http.Request) {
	rep := s.source.LastReport()
	if rep == nil {
		s.Error(w, r, errors.NewError(errors.CategoryNotFound, "no build has run yet").Build())
		return
	}
	resp := BuildResponse{
		BuildID:    rep.BuildID,
		Trigger:    rep.Trigger,
		Outcome:    string(rep.Outcome),
		DurationMS: rep.Duration().Milliseconds(),
		Pages:      rep.RegisteredPages,
		Redirects:  rep.Redirects,
		Skipped:    rep.Skipped,
		Widened:    rep.Widened,
		Warnings:   rep.WarningCount(),
		Stages:     make(map[string]string, len(rep.StageResults)),
	}
	for stage, res := range rep.StageResults {
		resp.Stages[string(stage)] = string(res)
	}
	for _, e := range rep.Errors {
		resp.Errors = append(resp.Errors, e.Error())
	}
	s.Success(w, http.StatusOK, resp)
}

func (s *Server) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.Error(w, r, errors.NewError(errors.CategoryNotFound, "build history is not enabled").Build())
		return
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.Error(w, r, errors.ValidationError("limit must be a positive integer").WithContext("limit", raw).Build())
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	builds, err := eventstore.History(r.Context(), s.history, limit)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.Success(w, http.StatusOK, builds)
}

func (s *Server) handleTriggerBuild(w http.ResponseWriter, r *http.Request) {
	queued := s.source.Trigger("api")
	slog.Info("Build requested via admin API", slog.Bool("queued", queued))
	if !queued {
		s.Success(w, http.StatusAccepted, map[string]string{"status": "already_pending"})
		return
	}
	s.Success(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

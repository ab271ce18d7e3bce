package api

import (
	"net/http"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/output"
	"git.home.luguber.info/inful/sitegraph/internal/redirects"
)

var errNoTables = errors.RuntimeError("no build has completed successfully yet").Build()

// HealthStatus represents the overall health of the daemon.
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusStarting HealthStatus = "starting"
)

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status      HealthStatus `json:"status"`
	Uptime      string       `json:"uptime"`
	LastBuildID string       `json:"last_build_id,omitempty"`
	LastOutcome string       `json:"last_outcome,omitempty"`
	LastBuildAt *time.Time   `json:"last_build_at,omitempty"`
	Serving     string       `json:"serving_build_id,omitempty"`
}

// handleHealth always answers 200 once the process is up: a failed build
// leaves the previous tables in place, so the daemon is degraded rather
// than down.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status: HealthStatusStarting,
		Uptime: time.Since(s.started).Round(time.Second).String(),
	}
	if rep := s.source.LastReport(); rep != nil {
		resp.LastBuildID = rep.BuildID
		resp.LastOutcome = string(rep.Outcome)
		end := rep.End
		resp.LastBuildAt = &end
		resp.Status = HealthStatusHealthy
		if len(rep.Errors) > 0 {
			resp.Status = HealthStatusDegraded
		}
	}
	if t := s.source.LastTables(); t != nil {
		resp.Serving = t.BuildID
	}
	s.Success(w, http.StatusOK, resp)
}

// RoutesResponse is the /routes payload.
type RoutesResponse struct {
	BuildID string               `json:"build_id"`
	Routes  []output.RouteRecord `json:"routes"`
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	t := s.source.LastTables()
	if t == nil {
		s.Error(w, r, errNoTables)
		return
	}
	s.Success(w, http.StatusOK, RoutesResponse{BuildID: t.BuildID, Routes: output.Records(t.Pages, t.TemplateDir)})
}

// RedirectsResponse is the /redirects payload.
type RedirectsResponse struct {
	BuildID   string           `json:"build_id"`
	Redirects []redirects.Rule `json:"redirects"`
}

func (s *Server) handleRedirects(w http.ResponseWriter, r *http.Request) {
	t := s.source.LastTables()
	if t == nil {
		s.Error(w, r, errNoTables)
		return
	}
	rules := t.Redirects
	if rules == nil {
		rules = []redirects.Rule{}
	}
	s.Success(w, http.StatusOK, RedirectsResponse{BuildID: t.BuildID, Redirects: rules})
}

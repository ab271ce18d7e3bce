// Package eventstore records compile history as an append-only event log.
package eventstore

import (
	"context"
	"log/slog"
	"time"
)

const statusRunning = "running"

// StageSummary is one stage row of a BuildSummary.
type StageSummary struct {
	Stage    string        `json:"stage"`
	Result   string        `json:"result"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// BuildSummary is a read model of one build, folded from its events.
type BuildSummary struct {
	BuildID     string         `json:"build_id"`
	Source      string         `json:"source,omitempty"`
	Trigger     string         `json:"trigger,omitempty"`
	Status      string         `json:"status"` // running or the final outcome
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Duration    time.Duration  `json:"duration,omitempty"`
	Pages       int            `json:"pages"`
	Redirects   int            `json:"redirects"`
	Skipped     int            `json:"skipped"`
	Widened     int            `json:"widened"`
	Warnings    int            `json:"warnings"`
	Error       string         `json:"error,omitempty"`
	Stages      []StageSummary `json:"stages,omitempty"`
}

// Summarize folds the events of one build into a summary. Events of other
// builds and events with unreadable payloads are skipped.
func Summarize(buildID string, events []Event) *BuildSummary {
	s := &BuildSummary{BuildID: buildID, Status: statusRunning}
	for _, e := range events {
		if e.BuildID != buildID {
			continue
		}
		if s.StartedAt.IsZero() {
			s.StartedAt = e.At
		}
		switch e.Type {
		case TypeBuildStarted:
			var d BuildStartedData
			if !decodeOrWarn(e, &d) {
				continue
			}
			s.StartedAt = e.At
			s.Source, s.Trigger = d.Source, d.Trigger
		case TypeStageCompleted:
			var d StageCompletedData
			if !decodeOrWarn(e, &d) {
				continue
			}
			s.Stages = append(s.Stages, StageSummary{
				Stage:    d.Stage,
				Result:   d.Result,
				Duration: time.Duration(d.DurationMS) * time.Millisecond,
				Error:    d.Error,
			})
		case TypeBuildCompleted:
			var d BuildCompletedData
			if !decodeOrWarn(e, &d) {
				continue
			}
			at := e.At
			s.CompletedAt = &at
			s.Status = d.Outcome
			s.Duration = time.Duration(d.DurationMS) * time.Millisecond
			s.Pages, s.Redirects, s.Skipped = d.Pages, d.Redirects, d.Skipped
			s.Widened, s.Warnings, s.Error = d.Widened, d.Warnings, d.Error
		}
	}
	return s
}

func decodeOrWarn(e Event, v any) bool {
	if err := Decode(e, v); err != nil {
		slog.Warn("Skipping unreadable event", slog.Int64("seq", e.Seq), slog.String("error", err.Error()))
		return false
	}
	return true
}

// History returns summaries of the most recent builds, newest first.
func History(ctx context.Context, store Store, limit int) ([]*BuildSummary, error) {
	ids, err := store.RecentBuildIDs(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*BuildSummary, 0, len(ids))
	for _, id := range ids {
		events, err := store.Events(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize(id, events))
	}
	return out, nil
}

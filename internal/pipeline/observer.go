package pipeline

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/eventstore"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/metrics"
)

// BuildObserver receives callbacks around stage execution and build lifecycle.
type BuildObserver interface {
	OnBuildStart(report *BuildReport)
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result StageResult, err error)
	OnBuildComplete(report *BuildReport)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnBuildStart(*BuildReport)                                    {}
func (NoopObserver) OnStageStart(StageName)                                       {}
func (NoopObserver) OnStageComplete(StageName, time.Duration, StageResult, error) {}
func (NoopObserver) OnBuildComplete(*BuildReport)                                 {}

// Observers fans callbacks out in order.
type Observers []BuildObserver

func (o Observers) OnBuildStart(r *BuildReport) {
	for _, ob := range o {
		ob.OnBuildStart(r)
	}
}

func (o Observers) OnStageStart(s StageName) {
	for _, ob := range o {
		ob.OnStageStart(s)
	}
}

func (o Observers) OnStageComplete(s StageName, d time.Duration, res StageResult, err error) {
	for _, ob := range o {
		ob.OnStageComplete(s, d, res, err)
	}
}

func (o Observers) OnBuildComplete(r *BuildReport) {
	for _, ob := range o {
		ob.OnBuildComplete(r)
	}
}

// RecorderObserver adapts metrics.Recorder into a BuildObserver.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (r RecorderObserver) OnBuildStart(*BuildReport) {}
func (r RecorderObserver) OnStageStart(StageName)    {}

func (r RecorderObserver) OnStageComplete(stage StageName, d time.Duration, res StageResult, _ error) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.ObserveStageDuration(string(stage), d)
	switch res {
	case StageResultSuccess:
		r.Recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	case StageResultWarning:
		r.Recorder.IncStageResult(string(stage), metrics.ResultWarning)
	case StageResultFatal:
		r.Recorder.IncStageResult(string(stage), metrics.ResultFatal)
	case StageResultCanceled:
		r.Recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	}
}

func (r RecorderObserver) OnBuildComplete(report *BuildReport) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.ObserveBuildDuration(report.Duration())
	r.Recorder.IncBuildOutcome(string(report.Outcome))
	r.Recorder.SetPagesEmitted(report.RegisteredPages)
	r.Recorder.SetRedirectsEmitted(report.Redirects)
	for reason, n := range report.SkippedByReason {
		r.Recorder.AddRedirectSpecsSkipped(reason, n)
	}
	r.Recorder.AddClientRoutesWidened(report.Widened)
	counts := make(map[string]int)
	for _, f := range report.Findings {
		counts[f.Code]++
	}
	for code, n := range counts {
		r.Recorder.AddWarnings(code, n)
	}
}

// EventObserver appends the build's lifecycle to the event store. Failing to
// record history never fails the build.
type EventObserver struct {
	Store eventstore.Store

	buildID string
}

// NewEventObserver returns an observer writing to store.
func NewEventObserver(store eventstore.Store) *EventObserver {
	return &EventObserver{Store: store}
}

func (e *EventObserver) append(ev eventstore.Event, err error) {
	if err == nil {
		// Stage callbacks carry no context; history writes must not be
		// aborted by the build's own cancellation.
		err = e.Store.Append(context.Background(), ev)
	}
	if err != nil {
		slog.Warn("Failed to record build event", logfields.BuildID(e.buildID), logfields.Error(err))
	}
}

func (e *EventObserver) OnBuildStart(report *BuildReport) {
	e.buildID = report.BuildID
	e.append(eventstore.NewBuildStarted(report.BuildID, eventstore.BuildStartedData{
		Source:  report.Source,
		Trigger: report.Trigger,
	}))
}

func (e *EventObserver) OnStageStart(StageName) {}

func (e *EventObserver) OnStageComplete(stage StageName, d time.Duration, res StageResult, stageErr error) {
	data := eventstore.StageCompletedData{Stage: string(stage), Result: string(res), DurationMS: d.Milliseconds()}
	if stageErr != nil {
		data.Error = stageErr.Error()
	}
	e.append(eventstore.NewStageCompleted(e.buildID, data))
}

func (e *EventObserver) OnBuildComplete(report *BuildReport) {
	data := eventstore.BuildCompletedData{
		Outcome:    string(report.Outcome),
		Pages:      report.RegisteredPages,
		Redirects:  report.Redirects,
		Skipped:    report.Skipped,
		Widened:    report.Widened,
		Warnings:   report.WarningCount(),
		DurationMS: report.Duration().Milliseconds(),
	}
	if len(report.Errors) > 0 {
		data.Error = report.Errors[0].Error()
	}
	e.append(eventstore.NewBuildCompleted(report.BuildID, data))
}

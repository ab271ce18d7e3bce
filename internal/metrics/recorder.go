package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for compile metrics. Implementations
// may forward to Prometheus or elsewhere.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome string) // success|warning|failed|canceled
	SetPagesEmitted(n int)
	SetRedirectsEmitted(n int)
	AddRedirectSpecsSkipped(reason string, n int)
	AddClientRoutesWidened(n int)
	AddWarnings(code string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) SetPagesEmitted(int)                        {}
func (NoopRecorder) SetRedirectsEmitted(int)                    {}
func (NoopRecorder) AddRedirectSpecsSkipped(string, int)        {}
func (NoopRecorder) AddClientRoutesWidened(int)                 {}
func (NoopRecorder) AddWarnings(string, int)                    {}

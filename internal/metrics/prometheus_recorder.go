package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitegraph"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	stageResults  *prom.CounterVec
	buildOutcome  *prom.CounterVec
	pages         prom.Gauge
	redirects     prom.Gauge
	skipped       *prom.CounterVec
	widened       prom.Counter
	warnings      *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual compile stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total compile duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pages: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pages_emitted",
			Help:      "Page descriptors in the last compiled route table",
		}),
		redirects: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "redirects_emitted",
			Help:      "Rules in the last compiled redirect table",
		}),
		skipped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "redirect_specs_skipped_total",
			Help:      "Redirect specs ignored by the normalizer, by reason",
		}, []string{"reason"}),
		widened: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "client_routes_widened_total",
			Help:      "Pages given a client-side match pattern",
		}),
		warnings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Compile warnings by code",
		}, []string{"code"}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.pages, pr.redirects, pr.skipped, pr.widened, pr.warnings)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetPagesEmitted(n int) {
	if p == nil {
		return
	}
	p.pages.Set(float64(n))
}

func (p *PrometheusRecorder) SetRedirectsEmitted(n int) {
	if p == nil {
		return
	}
	p.redirects.Set(float64(n))
}

func (p *PrometheusRecorder) AddRedirectSpecsSkipped(reason string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.skipped.WithLabelValues(reason).Add(float64(n))
}

func (p *PrometheusRecorder) AddClientRoutesWidened(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.widened.Add(float64(n))
}

func (p *PrometheusRecorder) AddWarnings(code string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.warnings.WithLabelValues(code).Add(float64(n))
}

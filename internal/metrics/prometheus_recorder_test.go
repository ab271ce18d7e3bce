package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("compile", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("compile", ResultSuccess)
	pr.IncBuildOutcome("warning")
	pr.SetPagesEmitted(17)
	pr.SetRedirectsEmitted(3)
	pr.AddRedirectSpecsSkipped("unsupported_format", 2)
	pr.AddRedirectSpecsSkipped("unsupported_status", 0)
	pr.AddClientRoutesWidened(1)
	pr.AddWarnings("duplicate_path", 2)

	assert.Equal(t, 17.0, testutil.ToFloat64(pr.pages))
	assert.Equal(t, 3.0, testutil.ToFloat64(pr.redirects))
	assert.Equal(t, 2.0, testutil.ToFloat64(pr.skipped.WithLabelValues("unsupported_format")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.widened))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("warning")))
	assert.Equal(t, 2.0, testutil.ToFloat64(pr.warnings.WithLabelValues("duplicate_path")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "sitegraph_stage_duration_seconds")
	assert.Contains(t, names, "sitegraph_build_duration_seconds")
	// Zero-valued label sets are never created.
	assert.Equal(t, 1, testutil.CollectAndCount(pr.skipped))
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("compile", time.Second)
		pr.IncBuildOutcome("success")
		pr.AddWarnings("x", 1)
	})
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.SetPagesEmitted(4)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "sitegraph_pages_emitted 4")
	assert.Contains(t, string(body), "go_goroutines")
}

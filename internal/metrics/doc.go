// Package metrics records compile metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics can
// stay disabled without nil checks at call sites:
//
//	rec := metrics.Recorder(metrics.NoopRecorder{})
//	if cfg.MetricsEnabled() {
//	    rec = metrics.NewPrometheusRecorder(reg)
//	}
//
// The daemon serves the registry through HTTPHandler.
package metrics

package commands

import (
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/eventstore"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/metrics"
	"git.home.luguber.info/inful/sitegraph/internal/notify"
	"git.home.luguber.info/inful/sitegraph/internal/output"
	"git.home.luguber.info/inful/sitegraph/internal/pipeline"
)

// runtime holds the long-lived collaborators of a compiler built from
// configuration.
type runtime struct {
	compiler  *pipeline.Compiler
	publisher notify.Publisher
	history   eventstore.Store // nil when history is disabled
	registry  *prom.Registry   // nil when metrics are disabled
}

func newRuntime(cfg *config.Config) (*runtime, error) {
	rt := &runtime{}

	var observers pipeline.Observers
	if cfg.MetricsEnabled() {
		rt.registry = metrics.NewRegistry()
		observers = append(observers, pipeline.RecorderObserver{Recorder: metrics.NewPrometheusRecorder(rt.registry)})
	}
	if cfg.EventStore.Path != "" {
		store, err := eventstore.NewSQLiteStore(cfg.EventStore.Path)
		if err != nil {
			return nil, err
		}
		rt.history = store
		observers = append(observers, pipeline.NewEventObserver(store))
	}

	pub, err := notify.New(cfg.Notify)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.publisher = pub

	var obs pipeline.BuildObserver
	if len(observers) > 0 {
		obs = observers
	}
	c, err := pipeline.FromConfig(cfg, output.New(cfg.Output), pub, obs)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.compiler = c
	return rt, nil
}

// Close releases the publisher connection and the history database.
func (r *runtime) Close() {
	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil {
			slog.Warn("Failed to close publisher", logfields.Error(err))
		}
	}
	if r.history != nil {
		if err := r.history.Close(); err != nil {
			slog.Warn("Failed to close event store", logfields.Error(err))
		}
	}
}

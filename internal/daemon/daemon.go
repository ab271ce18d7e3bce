// Package daemon keeps the route tables fresh: it recompiles on a schedule
// and when the snapshot file changes, one build at a time, and serves the
// latest tables on the admin API.
package daemon

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/api"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/output"
	"git.home.luguber.info/inful/sitegraph/internal/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Builder runs one build.
type Builder interface {
	Run(ctx context.Context, trigger string) (*pipeline.Result, error)
}

// Daemon serializes builds requested by the scheduler, the snapshot watcher
// and the admin API. At most one build runs and at most one more is queued;
// further requests while one is queued are coalesced into it.
type Daemon struct {
	builder     Builder
	interval    time.Duration
	watchPath   string
	debounce    time.Duration
	adminAddr   string
	apiOpts     []api.Option
	templateDir string

	requests chan string

	mu         sync.RWMutex
	lastReport *pipeline.BuildReport
	lastTables *output.Result
	builds     int
}

// Option configures a Daemon.
type Option func(*Daemon)

// WithInterval rebuilds every d. Zero disables scheduling.
func WithInterval(d time.Duration) Option { return func(dm *Daemon) { dm.interval = d } }

// WithWatch rebuilds when the file at path changes.
func WithWatch(path string, debounce time.Duration) Option {
	return func(dm *Daemon) {
		dm.watchPath = path
		dm.debounce = debounce
	}
}

// WithAdmin serves the admin API on addr.
func WithAdmin(addr string, opts ...api.Option) Option {
	return func(dm *Daemon) {
		dm.adminAddr = addr
		dm.apiOpts = opts
	}
}

// WithTemplateDir sets the directory used to resolve component paths in
// the served route table.
func WithTemplateDir(dir string) Option { return func(dm *Daemon) { dm.templateDir = dir } }

// New creates a daemon around b.
func New(b Builder, opts ...Option) *Daemon {
	d := &Daemon{
		builder:  b,
		requests: make(chan string, 1),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Trigger queues a build. It returns false when a build is already queued.
func (d *Daemon) Trigger(reason string) bool {
	select {
	case d.requests <- reason:
		return true
	default:
		slog.Debug("Build already pending", slog.String("trigger", reason))
		return false
	}
}

// LastReport returns the report of the most recent build.
func (d *Daemon) LastReport() *pipeline.BuildReport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastReport
}

// LastTables returns the tables of the most recent successful build. A
// failed build never replaces them.
func (d *Daemon) LastTables() *output.Result {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastTables
}

// Builds returns how many builds have finished.
func (d *Daemon) Builds() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.builds
}

// Run builds once, then serves until ctx is canceled. A build in progress at
// shutdown is canceled at its next stage boundary.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.loop(ctx)
	}()
	// Deferred calls run in reverse: cancel the loop, then wait for it.
	defer wg.Wait()
	defer cancel()

	d.Trigger("startup")

	if d.interval > 0 {
		sched, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.SchedulePeriodicBuild(d.interval, func() { d.Trigger("schedule") }); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	if d.watchPath != "" {
		w, err := NewSnapshotWatcher(d.watchPath, d.debounce, func() { d.Trigger("watch") })
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
	}

	serveErr := make(chan error, 1)
	var srv *api.Server
	if d.adminAddr != "" {
		srv = api.NewServer(d.adminAddr, d, d.apiOpts...)
		go func() {
			slog.Info("Admin server listening", slog.String("addr", d.adminAddr))
			if err := srv.Start(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
		slog.Error("Admin server failed", logfields.Error(runErr))
	}

	if srv != nil {
		sctx, scancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer scancel()
		if err := srv.Shutdown(sctx); err != nil {
			slog.Warn("Admin server shutdown failed", logfields.Error(err))
		}
	}
	slog.Info("Daemon stopping")
	return runErr
}

func (d *Daemon) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-d.requests:
			d.build(ctx, reason)
		}
	}
}

func (d *Daemon) build(ctx context.Context, trigger string) {
	res, err := d.builder.Run(ctx, trigger)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.builds++
	if res != nil {
		d.lastReport = res.Report
	}
	if err != nil || res == nil {
		if err != nil {
			slog.Warn("Build failed; keeping previous tables", slog.String("trigger", trigger), logfields.Error(err))
		}
		return
	}
	snap := res.State.Snapshot()
	if snap == nil {
		return
	}
	d.lastTables = &output.Result{
		BuildID:     res.Report.BuildID,
		GeneratedAt: res.Report.Start,
		Pages:       snap.Pages(),
		Redirects:   snap.Redirects(),
		TemplateDir: d.templateDir,
	}
}

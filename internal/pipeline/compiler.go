package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegraph/internal/clientroutes"
	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/fetch"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/notify"
	"git.home.luguber.info/inful/sitegraph/internal/observability"
	"git.home.luguber.info/inful/sitegraph/internal/output"
)

// Compiler turns a content graph snapshot into route and redirect tables.
// A Compiler is safe to reuse across builds but runs one build per Run call;
// callers that trigger builds concurrently serialize them.
type Compiler struct {
	fetcher     fetch.Fetcher
	sink        output.Sink
	matcher     *clientroutes.Matcher
	strictPaths bool
	templateDir string
	format      config.OutputFormat
	observer    BuildObserver
	tracer      *observability.Tracer
	publisher   notify.Publisher
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithSink sets where tables are written. Without a sink the write_output
// stage is skipped.
func WithSink(s output.Sink) Option { return func(c *Compiler) { c.sink = s } }

// WithClientPrefix sets the reserved application prefix.
func WithClientPrefix(prefix string) Option {
	return func(c *Compiler) { c.matcher = clientroutes.New(prefix) }
}

// WithStrictPaths fails builds where distinct nodes compile to one path.
func WithStrictPaths(strict bool) Option { return func(c *Compiler) { c.strictPaths = strict } }

func WithTemplateDir(dir string) Option { return func(c *Compiler) { c.templateDir = dir } }

func WithFormat(f config.OutputFormat) Option { return func(c *Compiler) { c.format = f } }

func WithObserver(o BuildObserver) Option { return func(c *Compiler) { c.observer = o } }

func WithTracer(t *observability.Tracer) Option { return func(c *Compiler) { c.tracer = t } }

func WithPublisher(p notify.Publisher) Option { return func(c *Compiler) { c.publisher = p } }

// NewCompiler returns a compiler reading from f.
func NewCompiler(f fetch.Fetcher, opts ...Option) *Compiler {
	c := &Compiler{
		fetcher:     f,
		matcher:     clientroutes.New(config.DefaultClientPrefix),
		templateDir: config.DefaultTemplateDir,
		format:      config.OutputJSON,
		observer:    NoopObserver{},
		publisher:   notify.NoopPublisher{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.tracer == nil {
		c.tracer = observability.NewTracer(nil)
	}
	return c
}

// FromConfig builds a compiler from a loaded configuration. The sink and
// publisher are taken from the arguments so callers own their lifecycle.
func FromConfig(cfg *config.Config, sink output.Sink, pub notify.Publisher, obs BuildObserver) (*Compiler, error) {
	f, err := fetch.New(cfg.Source)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithClientPrefix(cfg.ClientRoutes.Prefix),
		WithStrictPaths(cfg.Routes.StrictPaths),
		WithTemplateDir(cfg.Templates.Directory),
		WithFormat(cfg.Output.Format),
	}
	if sink != nil {
		opts = append(opts, WithSink(sink))
	}
	if pub != nil {
		opts = append(opts, WithPublisher(pub))
	}
	if obs != nil {
		opts = append(opts, WithObserver(obs))
	}
	return NewCompiler(f, opts...), nil
}

// Result is the outcome of one build.
type Result struct {
	Report *BuildReport
	State  *BuildState
}

// Stages returns the stage list for this compiler's configuration.
func (c *Compiler) Stages() []StageDef {
	return NewPipeline().
		Add(StageLoadSnapshot, stageLoadSnapshot(c)).
		Add(StageCompile, stageCompile(c)).
		Add(StageRegister, stageRegister(c)).
		Add(StageMatchClientRoutes, stageMatchClientRoutes(c)).
		Add(StageAnalyzeRedirects, stageAnalyzeRedirects(c)).
		AddIf(c.sink != nil, StageWriteOutput, stageWriteOutput(c)).
		Build()
}

// Run executes one build. trigger names what started it (cli, schedule,
// watch). The returned error is the stage error that aborted the build;
// the report is always populated.
func (c *Compiler) Run(ctx context.Context, trigger string) (*Result, error) {
	buildID := uuid.NewString()
	report := newBuildReport(buildID, c.fetcher.Describe(), trigger)
	bs := &BuildState{Report: report}

	ctx, span := c.tracer.StartBuildSpan(ctx, buildID)
	ctx = observability.WithSource(ctx, report.Source)
	c.observer.OnBuildStart(report)
	observability.InfoContext(ctx, "Build started", slog.String("trigger", trigger))

	err := RunStages(ctx, bs, c.Stages(), c.observer, c.tracer)
	report.DeriveOutcome()

	if report.Outcome != OutcomeCanceled {
		c.announce(ctx, report)
	}
	report.Finish()
	c.observer.OnBuildComplete(report)
	observability.EndSpan(span, err)

	attrs := []slog.Attr{
		logfields.Outcome(string(report.Outcome)),
		logfields.DurationMS(float64(report.Duration().Microseconds()) / 1000),
		slog.Int("pages", report.RegisteredPages),
		slog.Int("redirects", report.Redirects),
		slog.Int("warnings", report.WarningCount()),
	}
	if err != nil {
		observability.ErrorContext(ctx, "Build failed", append(attrs, logfields.Error(err))...)
	} else {
		observability.InfoContext(ctx, "Build completed", attrs...)
	}
	return &Result{Report: report, State: bs}, err
}

// announce publishes the build's completion. A failed publish is recorded
// as a warning issue; the tables are already written by then.
func (c *Compiler) announce(ctx context.Context, report *BuildReport) {
	msg := notify.BuildCompleted{
		BuildID:     report.BuildID,
		Outcome:     string(report.Outcome),
		Pages:       report.RegisteredPages,
		Redirects:   report.Redirects,
		Warnings:    report.WarningCount(),
		Artifacts:   report.Artifacts,
		Sink:        report.Sink,
		CompletedAt: time.Now().UTC(),
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := c.publisher.Publish(pctx, msg); err != nil {
		report.AddIssue(IssueNotifyFailure, "", SeverityWarning, err.Error(), true, err)
		report.DeriveOutcome()
		observability.WarnContext(ctx, "Failed to publish build notification", logfields.Error(err))
	}
}

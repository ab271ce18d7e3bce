package pipeline

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/clientroutes"
	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/observability"
	"git.home.luguber.info/inful/sitegraph/internal/output"
	"git.home.luguber.info/inful/sitegraph/internal/redirects"
	"git.home.luguber.info/inful/sitegraph/internal/routes"
	"git.home.luguber.info/inful/sitegraph/internal/store"
)

// StageOutcome is the classification of one stage run.
type StageOutcome struct {
	Stage     StageName
	Error     *StageError
	Result    StageResult
	IssueCode ReportIssueCode
	Severity  IssueSeverity
	Transient bool
	Abort     bool
}

// ClassifyStageResult maps a stage's returned error onto a result. Errors
// with warning severity let the build continue; everything else aborts.
func ClassifyStageResult(stage StageName, err error) StageOutcome {
	if err == nil {
		return StageOutcome{Stage: stage, Result: StageResultSuccess}
	}
	if stdErrors.Is(err, context.Canceled) || stdErrors.Is(err, context.DeadlineExceeded) {
		return StageOutcome{
			Stage:     stage,
			Error:     NewCanceledStageError(stage, err),
			Result:    StageResultCanceled,
			IssueCode: IssueCanceled,
			Severity:  SeverityError,
			Abort:     true,
		}
	}

	out := StageOutcome{Stage: stage, IssueCode: issueCode(stage, err)}
	ce, classified := errors.AsClassified(err)
	if classified {
		out.Transient = ce.IsTransient()
	}
	if classified && (ce.IsSeverity(errors.SeverityWarning) || ce.IsSeverity(errors.SeverityInfo)) {
		out.Error = NewWarnStageError(stage, err)
		out.Result = StageResultWarning
		out.Severity = SeverityWarning
		return out
	}
	out.Error = NewFatalStageError(stage, err)
	out.Result = StageResultFatal
	out.Severity = SeverityError
	out.Abort = true
	return out
}

func issueCode(stage StageName, err error) ReportIssueCode {
	switch {
	case stdErrors.Is(err, routes.ErrNoRoot):
		return IssueNoRoot
	case stdErrors.Is(err, routes.ErrPathConflict):
		return IssuePathConflict
	case errors.HasCategory(err, errors.CategorySnapshot):
		return IssueInvalidSnapshot
	case errors.HasCategory(err, errors.CategoryFetch):
		return IssueFetchFailure
	case errors.HasCategory(err, errors.CategoryOutput):
		return IssueOutputFailure
	case errors.HasCategory(err, errors.CategoryNotify):
		return IssueNotifyFailure
	case stage == StageRegister || stage == StageMatchClientRoutes:
		return IssueStoreFailure
	default:
		return IssueGenericStageError
	}
}

// RunStages executes stages in order, recording timing and stopping on the
// first fatal error. Cancellation is checked before every stage.
func RunStages(ctx context.Context, bs *BuildState, defs []StageDef, obs BuildObserver, tracer *observability.Tracer) error {
	if obs == nil {
		obs = NoopObserver{}
	}
	for _, st := range defs {
		if err := ctx.Err(); err != nil {
			se := NewCanceledStageError(st.Name, err)
			bs.Report.AddIssue(IssueCanceled, st.Name, SeverityError, se.Error(), false, se)
			bs.Report.StageResults[st.Name] = StageResultCanceled
			obs.OnStageComplete(st.Name, 0, StageResultCanceled, se)
			return se
		}

		obs.OnStageStart(st.Name)
		sctx, span := tracer.StartStageSpan(ctx, string(st.Name), bs.Report.BuildID)

		t0 := time.Now()
		err := st.Fn(sctx, bs)
		dur := time.Since(t0)
		observability.EndSpan(span, err)

		bs.Report.StageDurations[st.Name] = dur
		out := ClassifyStageResult(st.Name, err)
		bs.Report.StageResults[st.Name] = out.Result

		var stageErr error
		if out.Error != nil {
			stageErr = out.Error
			bs.Report.AddIssue(out.IssueCode, out.Stage, out.Severity, out.Error.Error(), out.Transient, out.Error)
		}
		observability.DebugContext(sctx, "Stage complete",
			logfields.DurationMS(float64(dur.Microseconds())/1000),
			slog.String("result", string(out.Result)))
		obs.OnStageComplete(st.Name, dur, out.Result, stageErr)

		if out.Abort {
			if out.Error != nil {
				return out.Error
			}
			return fmt.Errorf("stage %s aborted", st.Name)
		}
	}
	return nil
}

func stageLoadSnapshot(c *Compiler) Stage {
	return func(ctx context.Context, bs *BuildState) error {
		data, err := c.fetcher.Fetch(ctx)
		if err != nil {
			return err
		}
		g, err := content.Decode(data)
		if err != nil {
			return err
		}
		bs.Graph = g
		st := g.Stats()
		observability.InfoContext(ctx, "Loaded content graph",
			slog.Int("pages", st.Pages),
			slog.Int("categories", st.Categories),
			slog.Int("posts", st.Posts),
			slog.Int("products", st.Products),
			slog.Int("redirect_specs", st.Redirects))
		return nil
	}
}

// stageCompile runs the route builder and the redirect normalizer side by
// side. They read disjoint parts of the graph and write disjoint outputs.
func stageCompile(c *Compiler) Stage {
	return func(ctx context.Context, bs *BuildState) error {
		var (
			wg       sync.WaitGroup
			table    *routes.Table
			tableErr error
			rules    *redirects.Result
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			table, tableErr = routes.Build(bs.Graph)
		}()
		go func() {
			defer wg.Done()
			rules = redirects.Normalize(bs.Graph.Redirects)
		}()
		wg.Wait()

		if tableErr != nil {
			return tableErr
		}
		if c.strictPaths {
			if err := table.CheckConflicts(); err != nil {
				return err
			}
		}
		bs.Table, bs.Rules = table, rules

		r := bs.Report
		r.Pages = table.Len()
		r.RootFallback = table.RootFallback
		r.Redirects = len(rules.Rules)
		r.Skipped = len(rules.Skipped)
		for _, s := range rules.Skipped {
			r.SkippedByReason[string(s.Reason)]++
		}
		for _, w := range table.Warnings {
			r.AddFinding("routes", string(w.Code), w.Message)
			observability.WarnContext(ctx, w.Message, slog.String("code", string(w.Code)), logfields.Path(w.Path))
		}
		for _, w := range rules.Warnings {
			r.AddFinding("redirects", string(w.Code), w.Message)
			observability.WarnContext(ctx, w.Message, slog.String("code", string(w.Code)), logfields.FromPath(w.FromPath))
		}
		return ctx.Err()
	}
}

func stageRegister(_ *Compiler) Stage {
	return func(ctx context.Context, bs *BuildState) error {
		s := store.New()
		actions := make([]store.Action, 0, len(bs.Table.Pages)+len(bs.Rules.Rules))
		for _, p := range bs.Table.Pages {
			actions = append(actions, store.CreatePageAction(p))
		}
		for _, rule := range bs.Rules.Rules {
			actions = append(actions, store.CreateRedirectAction(rule))
		}
		if err := s.Apply(actions...); err != nil {
			return err
		}
		bs.Store = s
		bs.Report.RegisteredPages = s.Snapshot().PageCount()
		observability.DebugContext(ctx, "Registered pages and redirects",
			logfields.Count(len(actions)),
			slog.Int("pages", bs.Report.RegisteredPages))
		return nil
	}
}

func stageMatchClientRoutes(c *Compiler) Stage {
	return func(ctx context.Context, bs *BuildState) error {
		n, err := c.matcher.Apply(bs.Store)
		if err != nil {
			return err
		}
		bs.Report.Widened = n
		if n > 0 {
			observability.InfoContext(ctx, "Widened client routes",
				logfields.Count(n),
				slog.String("prefix", c.matcher.Prefix()))
		}
		return nil
	}
}

// Interface assertion: the store is what the matcher dispatches to.
var _ clientroutes.Dispatcher = (*store.Store)(nil)

func stageAnalyzeRedirects(_ *Compiler) Stage {
	return func(ctx context.Context, bs *BuildState) error {
		a, err := redirects.Analyze(bs.Snapshot().Redirects())
		if err != nil {
			return err
		}
		bs.Analysis = a
		bs.Report.Chains = len(a.Chains)
		bs.Report.Loops = len(a.Loops)
		for _, w := range a.Warnings() {
			bs.Report.AddFinding("redirects", string(w.Code), w.Message)
			observability.WarnContext(ctx, w.Message, slog.String("code", string(w.Code)), logfields.FromPath(w.FromPath))
		}
		return nil
	}
}

// stageWriteOutput renders the store, not the compiled tables: the store
// holds the collapsed paths and the widened match patterns.
func stageWriteOutput(c *Compiler) Stage {
	return func(ctx context.Context, bs *BuildState) error {
		snap := bs.Snapshot()
		res := &output.Result{
			BuildID:     bs.Report.BuildID,
			GeneratedAt: bs.Report.Start,
			Pages:       snap.Pages(),
			Redirects:   snap.Redirects(),
			TemplateDir: c.templateDir,
		}
		_, manifest, err := output.Render(res, c.format)
		if err != nil {
			return err
		}
		if err := c.sink.Write(ctx, res); err != nil {
			return err
		}
		bs.Manifest = manifest
		bs.Report.Sink = c.sink.Describe()
		for name, a := range manifest.Artifacts {
			bs.Report.Artifacts[name] = a.SHA256
		}
		observability.InfoContext(ctx, "Wrote route tables",
			slog.String("sink", bs.Report.Sink),
			slog.Int("pages", manifest.Pages),
			slog.Int("redirects", manifest.Redirects))
		return nil
	}
}

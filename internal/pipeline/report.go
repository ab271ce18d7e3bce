package pipeline

import (
	stdErrors "errors"
	"fmt"
	"time"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// ReportIssueCode enumerates machine-parseable issue identifiers.
// Codes are a stable contract: append only.
type ReportIssueCode string

const (
	IssueFetchFailure      ReportIssueCode = "FETCH_FAILURE"
	IssueInvalidSnapshot   ReportIssueCode = "INVALID_SNAPSHOT"
	IssueNoRoot            ReportIssueCode = "NO_ROOT"
	IssuePathConflict      ReportIssueCode = "PATH_CONFLICT"
	IssueStoreFailure      ReportIssueCode = "STORE_FAILURE"
	IssueOutputFailure     ReportIssueCode = "OUTPUT_FAILURE"
	IssueNotifyFailure     ReportIssueCode = "NOTIFY_FAILURE"
	IssueCanceled          ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError ReportIssueCode = "GENERIC_STAGE_ERROR"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue describes a discrete problem encountered by a stage.
type ReportIssue struct {
	Code      ReportIssueCode `json:"code"`
	Stage     StageName       `json:"stage"`
	Severity  IssueSeverity   `json:"severity"`
	Message   string          `json:"message"`
	Transient bool            `json:"transient"`
}

// Finding is a content misconfiguration reported by the route builder or the
// redirect normalizer. Findings downgrade the outcome to warning.
type Finding struct {
	Source  string `json:"source"` // routes|redirects
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BuildReport captures what one compile did.
type BuildReport struct {
	BuildID        string
	Source         string
	Trigger        string
	Start          time.Time
	End            time.Time
	Errors         []error // fatal errors causing build abortion (at most one today)
	Warnings       []error // non-fatal stage errors
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult
	Issues         []ReportIssue
	Findings       []Finding

	Pages           int            // descriptors emitted by the route builder
	RegisteredPages int            // pages in the store after path collapse
	Redirects       int            // rules in the normalized table
	Skipped         int            // redirect specs ignored
	SkippedByReason map[string]int // reason -> count
	Widened         int            // pages given a client-side match pattern
	RootFallback    bool
	Chains          int
	Loops           int

	Sink      string
	Artifacts map[string]string // artifact name -> sha256
	Outcome   BuildOutcome
}

func newBuildReport(buildID, source, trigger string) *BuildReport {
	return &BuildReport{
		BuildID:         buildID,
		Source:          source,
		Trigger:         trigger,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageResults:    make(map[StageName]StageResult),
		SkippedByReason: make(map[string]int),
		Artifacts:       make(map[string]string),
	}
}

// AddIssue appends a structured issue and mirrors severity into Errors/Warnings slices.
func (r *BuildReport) AddIssue(code ReportIssueCode, stage StageName, severity IssueSeverity, msg string, transient bool, err error) {
	r.Issues = append(r.Issues, ReportIssue{Code: code, Stage: stage, Severity: severity, Message: msg, Transient: transient})
	if err == nil {
		return
	}
	switch severity {
	case SeverityError:
		r.Errors = append(r.Errors, err)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, err)
	}
}

// AddFinding records a content warning.
func (r *BuildReport) AddFinding(source, code, msg string) {
	r.Findings = append(r.Findings, Finding{Source: source, Code: code, Message: msg})
}

// Finish sets the end time of the report.
func (r *BuildReport) Finish() { r.End = time.Now() }

// Duration is the wall time of the build so far.
func (r *BuildReport) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// DeriveOutcome sets Outcome from the recorded errors, warnings and findings.
func (r *BuildReport) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if stdErrors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 || len(r.Findings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// WarningCount is the number of non-fatal problems in the report.
func (r *BuildReport) WarningCount() int { return len(r.Warnings) + len(r.Findings) }

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("build=%s outcome=%s pages=%d registered=%d redirects=%d skipped=%d widened=%d warnings=%d duration=%s",
		r.BuildID, r.Outcome, r.Pages, r.RegisteredPages, r.Redirects, r.Skipped, r.Widened, r.WarningCount(),
		r.Duration().Truncate(time.Millisecond))
}

package redirects

import (
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// SkipReason explains why a spec produced no rules.
type SkipReason string

const (
	SkipFormat    SkipReason = "unsupported_format"
	SkipStatus    SkipReason = "unsupported_status"
	SkipEmptyPath SkipReason = "empty_path"
	SkipSelf      SkipReason = "self_redirect"
)

// Skipped is a spec the normalizer ignored. Skipping is never an error.
type Skipped struct {
	Spec   content.RawRedirectSpec `json:"spec"`
	Reason SkipReason              `json:"reason"`
}

// WarningCode classifies a non-fatal redirect table finding.
type WarningCode string

const (
	WarnConflictingOrigin WarningCode = "conflicting_origin"
	WarnChain             WarningCode = "redirect_chain"
	WarnLoop              WarningCode = "redirect_loop"
)

// Warning is an author-visible redirect misconfiguration.
type Warning struct {
	Code     WarningCode `json:"code"`
	Message  string      `json:"message"`
	FromPath string      `json:"from_path,omitempty"`
}

func (w Warning) String() string { return string(w.Code) + ": " + w.Message }

// Result is the normalized redirect table for one build.
type Result struct {
	Rules    []Rule
	Skipped  []Skipped
	Warnings []Warning
	// Duplicates counts rules dropped because an identical rule was already
	// emitted by an earlier spec.
	Duplicates int
}

// Expand returns the rules for a single actionable spec without filtering on
// format or status: the origin as written (with a leading slash), plus its
// slash-suffixed form unless that is already covered or would redirect to
// itself.
func Expand(origin, target string, permanent bool) []Rule {
	from := PrependSlash(origin)
	to := AddSlashes(target)

	out := make([]Rule, 0, 2)
	if from != to {
		out = append(out, Rule{FromPath: from, ToPath: to, IsPermanent: permanent})
	}
	if !strings.HasSuffix(from, "/") && AddSlashes(origin) != to {
		out = append(out, Rule{FromPath: AddSlashes(origin), ToPath: to, IsPermanent: permanent})
	}
	return out
}

// Normalize filters specs to plain 301/302 redirects and expands each into
// its canonical rules. When two specs claim the same origin path the first
// one wins and the conflict is reported as a warning.
func Normalize(specs []content.RawRedirectSpec) *Result {
	res := &Result{Rules: make([]Rule, 0, len(specs)*2)}
	claimed := make(map[string]Rule, len(specs)*2)

	for _, spec := range specs {
		if reason, ok := skipReason(spec); !ok {
			res.skip(spec, reason)
			continue
		}

		rules := Expand(spec.Origin, spec.Target, spec.StatusCode == 301)
		if len(rules) == 0 {
			res.skip(spec, SkipSelf)
			continue
		}

		for _, r := range rules {
			prev, exists := claimed[r.FromPath]
			switch {
			case !exists:
				claimed[r.FromPath] = r
				res.Rules = append(res.Rules, r)
			case prev == r:
				res.Duplicates++
			default:
				res.Warnings = append(res.Warnings, Warning{
					Code:     WarnConflictingOrigin,
					Message:  fmt.Sprintf("%s already redirects to %s; ignoring redirect to %s", r.FromPath, prev.ToPath, r.ToPath),
					FromPath: r.FromPath,
				})
			}
		}
	}
	return res
}

func skipReason(spec content.RawRedirectSpec) (SkipReason, bool) {
	switch {
	case spec.Format != content.FormatPlain:
		return SkipFormat, false
	case !Actionable(spec.StatusCode):
		return SkipStatus, false
	case strings.TrimSpace(spec.Origin) == "" || strings.TrimSpace(spec.Target) == "":
		return SkipEmptyPath, false
	}
	return "", true
}

func (r *Result) skip(spec content.RawRedirectSpec, reason SkipReason) {
	slog.Debug("Skipping redirect spec",
		logfields.FromPath(spec.Origin),
		logfields.ToPath(spec.Target),
		slog.String("format", string(spec.Format)),
		slog.String("type", spec.TypeTag),
		slog.String("reason", string(reason)))
	r.Skipped = append(r.Skipped, Skipped{Spec: spec, Reason: reason})
}

package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyTemplate   = "template"
	KeyNodeID     = "node_id"
	KeyNodeKind   = "node_kind"
	KeyFromPath   = "from_path"
	KeyToPath     = "to_path"
	KeyMatchPath  = "match_path"
	KeyCount      = "count"
	KeySource     = "source"
	KeyOutcome    = "outcome"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Template(t string) slog.Attr     { return slog.String(KeyTemplate, t) }
func NodeID(id string) slog.Attr      { return slog.String(KeyNodeID, id) }
func NodeKind(k string) slog.Attr     { return slog.String(KeyNodeKind, k) }
func FromPath(p string) slog.Attr     { return slog.String(KeyFromPath, p) }
func ToPath(p string) slog.Attr       { return slog.String(KeyToPath, p) }
func MatchPath(p string) slog.Attr    { return slog.String(KeyMatchPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("bad config").Build(), 7},
		{"fetch", FetchError("timeout").Build(), 8},
		{"snapshot", SnapshotError("missing key").Build(), 11},
		{"wrapped routes", fmt.Errorf("compile: %w", RoutesError("no root").Build()), 11},
		{"internal", InternalError("unknown action").Build(), 10},
		{"unclassified", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	snapshot := WrapError(errors.New("unexpected EOF"), CategorySnapshot, "decode content graph").Build()

	if got := quiet.FormatError(nil); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}
	if got := quiet.FormatError(snapshot); got != "Error (snapshot): decode content graph" {
		t.Errorf("unexpected quiet format %q", got)
	}
	if got := verbose.FormatError(snapshot); !strings.Contains(got, "unexpected EOF") {
		t.Errorf("expected verbose format to include cause, got %q", got)
	}
	if got := quiet.FormatError(InternalError("x").Build()); !strings.Contains(got, "use -v") {
		t.Errorf("expected internal errors to be hidden in quiet mode, got %q", got)
	}
	if got := quiet.FormatError(errors.New("plain")); got != "Error: plain" {
		t.Errorf("unexpected unclassified format %q", got)
	}
}

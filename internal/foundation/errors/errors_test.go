package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategorySnapshot, "missing key").
			WithSeverity(SeverityFatal).
			WithContext("key", "allWpPage").
			Build()

		if err.Category() != CategorySnapshot {
			t.Errorf("expected category %s, got %s", CategorySnapshot, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		key, ok := err.Context().GetString("key")
		if !ok || key != "allWpPage" {
			t.Errorf("expected context key=allWpPage, got %v", key)
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := RoutesError("empty path").Build()
		wrapped := fmt.Errorf("stage build_routes: %w", inner)

		if !IsClassified(wrapped) {
			t.Error("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryRoutes) {
			t.Error("expected routes category")
		}
		if !HasSeverity(wrapped, SeverityFatal) {
			t.Error("expected fatal severity")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected unclassified errors to default to internal")
		}
	})

	t.Run("WithContext does not mutate the original", func(t *testing.T) {
		base := SnapshotError("bad").Build()
		derived := base.WithContext("path", "/x")

		if _, ok := base.Context().Get("path"); ok {
			t.Error("original context was mutated")
		}
		if v, _ := derived.Context().GetString("path"); v != "/x" {
			t.Errorf("expected derived context path=/x, got %q", v)
		}
	})

	t.Run("Sentinel comparison", func(t *testing.T) {
		sentinel := InternalError("unknown store action").Build()
		err := fmt.Errorf("dispatch: %w", InternalError("unknown store action").WithContext("kind", 99).Build())
		if !errors.Is(err, sentinel) {
			t.Error("expected errors.Is to match on category and message")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Wrap keeps cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := WrapError(cause, CategoryFetch, "graphql request failed").
			Retryable().
			WithContext("endpoint", "https://cms.example/graphql").
			Build()

		if !errors.Is(err, cause) {
			t.Error("expected error to wrap cause")
		}
		if !err.IsTransient() || !err.CanRetry() {
			t.Error("expected retryable fetch error")
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"ConfigError", ConfigError("x"), CategoryConfig, SeverityFatal, RetryUserAction},
			{"ValidationError", ValidationError("x"), CategoryValidation, SeverityFatal, RetryNever},
			{"SnapshotError", SnapshotError("x"), CategorySnapshot, SeverityFatal, RetryNever},
			{"RoutesError", RoutesError("x"), CategoryRoutes, SeverityFatal, RetryNever},
			{"RedirectsError", RedirectsError("x"), CategoryRedirects, SeverityFatal, RetryNever},
			{"FetchError", FetchError("x"), CategoryFetch, SeverityError, RetryBackoff},
			{"OutputError", OutputError("x"), CategoryOutput, SeverityError, RetryBackoff},
			{"NotifyError", NotifyError("x"), CategoryNotify, SeverityWarning, RetryBackoff},
			{"EventStoreError", EventStoreError("x"), CategoryEventStore, SeverityError, RetryNever},
			{"RuntimeError", RuntimeError("x"), CategoryRuntime, SeverityFatal, RetryNever},
			{"InternalError", InternalError("x"), CategoryInternal, SeverityFatal, RetryNever},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Category() != tt.category {
					t.Errorf("expected category %s, got %s", tt.category, err.Category())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
				if err.RetryStrategy() != tt.retry {
					t.Errorf("expected retry %s, got %s", tt.retry, err.RetryStrategy())
				}
			})
		}
	})
}

func TestErrorContextMerge(t *testing.T) {
	a := ErrorContext{"a": 1, "shared": "a"}
	b := ErrorContext{"b": 2, "shared": "b"}
	merged := a.Merge(b)

	if merged["shared"] != "b" {
		t.Errorf("expected other to take precedence, got %v", merged["shared"])
	}
	if len(merged) != 3 {
		t.Errorf("expected 3 keys, got %d", len(merged))
	}
	if _, ok := a["b"]; ok {
		t.Error("merge mutated receiver")
	}
}

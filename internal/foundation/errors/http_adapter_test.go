package errors

import (
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"not found", NewError(CategoryNotFound, "no build yet").Build(), http.StatusNotFound},
		{"fetch", FetchError("cms down").Build(), http.StatusBadGateway},
		{"snapshot", SnapshotError("bad graph").Build(), http.StatusUnprocessableEntity},
		{"unclassified", stdErrors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.StatusCodeFor(tt.err); got != tt.expected {
				t.Errorf("StatusCodeFor() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/routes", nil)

	err := NewError(CategoryNotFound, "no compiled table").WithContext("table", "routes").Build()
	adapter.WriteErrorResponse(rec, req, err)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	var payload HTTPErrorResponse
	if jerr := json.Unmarshal(rec.Body.Bytes(), &payload); jerr != nil {
		t.Fatalf("decode payload: %v", jerr)
	}
	if payload.Code != "not_found" || payload.Error != "no compiled table" {
		t.Errorf("unexpected payload %+v", payload)
	}
	if payload.Details["table"] != "routes" {
		t.Errorf("expected details to carry context, got %v", payload.Details)
	}
}

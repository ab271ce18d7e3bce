package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// Event type names as stored in the events table.
const (
	TypeBuildStarted   = "BuildStarted"
	TypeStageCompleted = "StageCompleted"
	TypeBuildCompleted = "BuildCompleted"
)

// BuildStartedData is the payload of a BuildStarted event.
type BuildStartedData struct {
	Source  string `json:"source"`
	Trigger string `json:"trigger"` // cli|schedule|watch|admin
}

// StageCompletedData is the payload of a StageCompleted event.
type StageCompletedData struct {
	Stage      string `json:"stage"`
	Result     string `json:"result"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// BuildCompletedData is the payload of a BuildCompleted event.
type BuildCompletedData struct {
	Outcome    string `json:"outcome"`
	Pages      int    `json:"pages"`
	Redirects  int    `json:"redirects"`
	Skipped    int    `json:"skipped"`
	Widened    int    `json:"widened"`
	Warnings   int    `json:"warnings"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func newEvent(buildID, eventType string, data any) (Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Event{}, errors.EventStoreError("failed to marshal " + eventType + " payload").
			WithCause(err).
			WithContext("build_id", buildID).
			Build()
	}
	return Event{BuildID: buildID, Type: eventType, At: time.Now(), Payload: payload}, nil
}

func NewBuildStarted(buildID string, data BuildStartedData) (Event, error) {
	return newEvent(buildID, TypeBuildStarted, data)
}

func NewStageCompleted(buildID string, data StageCompletedData) (Event, error) {
	return newEvent(buildID, TypeStageCompleted, data)
}

func NewBuildCompleted(buildID string, data BuildCompletedData) (Event, error) {
	return newEvent(buildID, TypeBuildCompleted, data)
}

// Decode unmarshals an event payload into v.
func Decode(e Event, v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return storeError(opDecode, err).
			WithContext("build_id", e.BuildID).
			WithContext("event_type", e.Type).
			Build()
	}
	return nil
}

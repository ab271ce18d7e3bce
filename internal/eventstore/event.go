package eventstore

import (
	"encoding/json"
	"time"
)

// Event is one row of the build history log.
type Event struct {
	Seq      int64             `json:"seq"` // assigned by the store on append
	BuildID  string            `json:"build_id"`
	Type     string            `json:"type"`
	At       time.Time         `json:"at"`
	Payload  json.RawMessage   `json:"payload"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

package models

import (
	"encoding/json"
	"time"
)

// JobStatusNew is the status every job row is created with. Consumers
// downstream move it on; this service never does.
const JobStatusNew = "new"

// EventRecord is the canonical result of resolving one webhook payload.
// Nil pointer fields mean the payload did not carry that value.
type EventRecord struct {
	EventID            string          `json:"event_id"`
	EventIDSynthesized bool            `json:"event_id_synthesized"`
	CameraID           *string         `json:"camera_id"`
	CameraName         *string         `json:"camera_name"`
	Scenario           *string         `json:"scenario"`
	RawTimestamp       *string         `json:"raw_timestamp,omitempty"`
	EventTS            *time.Time      `json:"event_ts"`
	RawPayload         json.RawMessage `json:"-"`
}

// WebhookResponse is returned by the webhook endpoint.
// Inserted is false when a job with the same event id already existed.
type WebhookResponse struct {
	OK       bool    `json:"ok"`
	Inserted bool    `json:"inserted"`
	EventID  string  `json:"event_id"`
	CameraID *string `json:"camera_id"`
	Scenario *string `json:"scenario"`
}

// ErrorResponse is returned when a request is rejected or the job could not be stored.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

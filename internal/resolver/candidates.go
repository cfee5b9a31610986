package resolver

import "github.com/PratikDhanave/vms-webhook-ingest/internal/payload"

// Candidates holds the ordered lookup paths for each extracted field,
// most specific first.
type Candidates struct {
	EventID    []payload.Path
	CameraID   []payload.Path
	CameraName []payload.Path
	Scenario   []payload.Path
	Timestamp  []payload.Path
}

// DefaultCandidates returns the path lists used for the video platform's
// webhook payloads. Direct top-level fields come before nested event/data/alert
// envelopes, and camera-specific names come before generic device names.
func DefaultCandidates() Candidates {
	return Candidates{
		EventID: payload.ParsePaths(
			"event_id", "eventId", "id",
			"event.id", "event.event_id", "event.eventId",
			"data.event_id", "data.eventId", "data.id",
			"alert.id", "alert.event_id", "alert.eventId",
			"uuid",
		),
		CameraID: payload.ParsePaths(
			"camera_id", "cameraId",
			"camera.id", "camera.camera_id", "camera.uuid",
			"device_id", "deviceId", "device.id",
			"data.camera_id", "data.cameraId", "data.camera.id", "data.device_id",
			"event.camera_id", "event.camera.id",
			"alert.camera_id", "alert.camera.id",
		),
		CameraName: payload.ParsePaths(
			"camera_name", "cameraName",
			"camera.name", "camera.title",
			"device_name", "deviceName", "device.name",
			"data.camera_name", "data.camera.name",
			"event.camera_name", "event.camera.name",
			"alert.camera_name", "alert.camera.name",
		),
		Scenario: payload.ParsePaths(
			"scenario", "scenario_name", "scenarioName",
			"scenario.name", "scenario.type",
			"rule_name", "ruleName", "rule.name",
			"event_type", "eventType", "type",
			"data.scenario", "data.scenario.name", "data.event_type",
			"event.scenario", "event.scenario.name", "event.type",
			"alert.scenario", "alert.type",
		),
		Timestamp: payload.ParsePaths(
			"timestamp", "event_ts", "ts", "time",
			"event_time", "eventTime", "occurred_at",
			"created_at", "createdAt",
			"event.timestamp", "event.time",
			"data.timestamp", "data.time", "data.event_time",
			"alert.timestamp", "alert.time",
		),
	}
}

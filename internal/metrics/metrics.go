package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for EventsTotal.
const (
	OutcomeInserted   = "inserted"
	OutcomeDuplicate  = "duplicate"
	OutcomeStoreError = "store_error"
	OutcomeBadRequest = "bad_request"
)

var (
	// EventsTotal counts webhook requests by how they ended.
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of webhook events received, by outcome",
		},
		[]string{"outcome"},
	)

	// FieldsMissing counts resolved records lacking a field.
	FieldsMissing = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_fields_missing_total",
			Help: "Total number of events where a field could not be resolved",
		},
		[]string{"field"},
	)

	EventIDSynthesized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_event_id_synthesized_total",
			Help: "Total number of events stored under a synthesized event id",
		},
	)

	EventBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_event_bytes_total",
			Help: "Total bytes of webhook payloads received",
		},
	)

	StoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_store_duration_seconds",
			Help:    "Duration of job store inserts in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

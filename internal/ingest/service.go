// Package ingest turns one webhook payload into at most one job row.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PratikDhanave/vms-webhook-ingest/internal/metrics"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/models"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/payload"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/resolver"
)

// JobStore performs the conditional insert. Implementations must report
// inserted=false, not an error, when a job with the same event id exists.
type JobStore interface {
	InsertJob(ctx context.Context, rec models.EventRecord) (inserted bool, err error)
}

// Result is the outcome of a successful ingestion.
type Result struct {
	Record   models.EventRecord
	Inserted bool
}

// Service resolves payloads and records them in the job store.
type Service struct {
	store    JobStore
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// NewService wires a Service. A nil resolver uses resolver.New(); a nil
// logger uses slog.Default().
func NewService(store JobStore, r *resolver.Resolver, logger *slog.Logger) *Service {
	if r == nil {
		r = resolver.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, resolver: r, logger: logger}
}

// Ingest resolves tree and performs exactly one conditional insert. The
// only error it returns is a job store failure; it does not retry.
func (s *Service) Ingest(ctx context.Context, tree payload.Tree) (Result, error) {
	rec := s.resolver.Resolve(tree)
	observeResolution(rec)

	s.logger.DebugContext(ctx, "resolved webhook event",
		slog.String("event_id", rec.EventID),
		slog.Bool("event_id_synthesized", rec.EventIDSynthesized),
		slog.Any("camera_id", rec.CameraID),
		slog.Any("scenario", rec.Scenario),
		slog.Any("raw_timestamp", rec.RawTimestamp),
		slog.Bool("event_ts_parsed", rec.EventTS != nil),
	)

	start := time.Now()
	inserted, err := s.store.InsertJob(ctx, rec)
	metrics.StoreDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EventsTotal.WithLabelValues(metrics.OutcomeStoreError).Inc()
		return Result{Record: rec}, fmt.Errorf("store event %s: %w", rec.EventID, err)
	}

	if inserted {
		metrics.EventsTotal.WithLabelValues(metrics.OutcomeInserted).Inc()
	} else {
		metrics.EventsTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
	}

	return Result{Record: rec, Inserted: inserted}, nil
}

func observeResolution(rec models.EventRecord) {
	if rec.EventIDSynthesized {
		metrics.EventIDSynthesized.Inc()
	}
	if rec.CameraID == nil {
		metrics.FieldsMissing.WithLabelValues("camera_id").Inc()
	}
	if rec.CameraName == nil {
		metrics.FieldsMissing.WithLabelValues("camera_name").Inc()
	}
	if rec.Scenario == nil {
		metrics.FieldsMissing.WithLabelValues("scenario").Inc()
	}
	if rec.EventTS == nil {
		metrics.FieldsMissing.WithLabelValues("event_ts").Inc()
	}
}

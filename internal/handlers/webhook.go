package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/vms-webhook-ingest/internal/ingest"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/logging"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/metrics"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/models"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/payload"
)

// Ingester records one webhook payload.
type Ingester interface {
	Ingest(ctx context.Context, tree payload.Tree) (ingest.Result, error)
}

// RegisterWebhookRoutes registers the ingestion endpoint.
//
// POST <path>
//   - Accepts any JSON body up to maxBodyBytes
//   - 200 for every stored or already-known event, so the sender stops retrying
//   - 500 only when the job store write failed, so the sender retries
func RegisterWebhookRoutes(r gin.IRoutes, path string, svc Ingester, maxBodyBytes int64) {
	r.POST(path, func(c *gin.Context) {
		ctx := c.Request.Context()
		log := logging.FromContext(ctx)

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if err != nil {
			metrics.EventsTotal.WithLabelValues(metrics.OutcomeBadRequest).Inc()
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				log.WarnContext(ctx, "webhook payload too large", slog.Int64("limit", tooLarge.Limit))
				c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "payload too large"})
				return
			}
			log.WarnContext(ctx, "failed to read webhook body", slog.Any("error", err))
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unreadable body"})
			return
		}
		metrics.EventBytesTotal.Add(float64(len(body)))

		tree, err := payload.Parse(body)
		if err != nil {
			metrics.EventsTotal.WithLabelValues(metrics.OutcomeBadRequest).Inc()
			log.WarnContext(ctx, "invalid webhook JSON", slog.Any("error", err), slog.Int("bytes", len(body)))
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON"})
			return
		}

		res, err := svc.Ingest(ctx, tree)
		if err != nil {
			log.ErrorContext(ctx, "failed to store webhook event",
				slog.String("event_id", res.Record.EventID),
				slog.Any("error", err),
			)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{})
			return
		}

		log.InfoContext(ctx, "webhook event accepted",
			slog.String("event_id", res.Record.EventID),
			slog.Bool("inserted", res.Inserted),
		)

		c.JSON(http.StatusOK, models.WebhookResponse{
			OK:       true,
			Inserted: res.Inserted,
			EventID:  res.Record.EventID,
			CameraID: res.Record.CameraID,
			Scenario: res.Record.Scenario,
		})
	})
}

package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PratikDhanave/vms-webhook-ingest/internal/auth"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/config"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/handlers"
)

// Pinger reports whether the job store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter wires public endpoints and the webhook endpoint.
// Public: /health, /ready, /metrics
// Webhook: POST cfg.Server.WebhookPath (optionally token protected)
func NewRouter(cfg config.Config, db Pinger, svc handlers.Ingester, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID(logger))

	// Liveness: confirms the process is running, independent of the DB.
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	hooks := r.Group("/")
	hooks.Use(auth.WebhookTokenMiddleware(cfg.Auth.WebhookToken))
	handlers.RegisterWebhookRoutes(hooks, cfg.Server.WebhookPath, svc, cfg.Server.MaxBodyBytes)

	return r
}

// NewHTTPServer wraps handler in an http.Server using the configured timeouts.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/PratikDhanave/vms-webhook-ingest/internal/config"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/httpserver"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/ingest"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/logging"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/resolver"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook HTTP server",
	RunE:  runServe,
}

// runServe boots the service: config → logger → DB → migrations → HTTP server.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := store.MigrateUp(cfg.Database.URL, cfg.Database.SSLMode); err != nil {
			return err
		}
		logger.Info("database migrations completed")
	}

	db, err := store.NewPostgresStore(ctx, cfg.Database.URL, store.Options{
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	svc := ingest.NewService(db, resolver.New(), logger)
	router := httpserver.NewRouter(*cfg, db, svc, logger)
	srv := httpserver.NewHTTPServer(cfg.Server, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started",
			slog.String("addr", srv.Addr),
			slog.String("webhook_path", cfg.Server.WebhookPath),
			slog.Bool("token_auth", cfg.Auth.WebhookToken != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

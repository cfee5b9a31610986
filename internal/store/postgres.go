package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/vms-webhook-ingest/internal/models"
)

// Options tune the connection pool. Zero values keep pgx defaults.
type Options struct {
	SSLMode  string
	MaxConns int32
}

// PostgresStore is the durable job queue for webhook events.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if the DB is unreachable.
func NewPostgresStore(ctx context.Context, dbURL string, opts Options) (*PostgresStore, error) {
	connString, err := WithSSLMode(dbURL, opts.SSLMode)
	if err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// InsertJob stores rec as a new job unless a job with the same event id
// already exists. It returns inserted=false for that duplicate case.
//
// The unique constraint on event_id decides concurrent duplicates: exactly
// one insert wins and the others see no row returned, never an error.
func (p *PostgresStore) InsertJob(ctx context.Context, rec models.EventRecord) (bool, error) {
	if rec.EventID == "" {
		return false, errors.New("event id required")
	}

	payload := []byte(rec.RawPayload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	// RETURNING yields a row only when inserted; duplicates return no rows.
	var one int
	err := p.pool.QueryRow(ctx, `
		INSERT INTO webhook_jobs(event_id, camera_id, camera_name, scenario, event_ts, payload, status)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING 1
	`, rec.EventID, rec.CameraID, rec.CameraName, rec.Scenario, rec.EventTS, string(payload), models.JobStatusNew).Scan(&one)

	if err == nil {
		return true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("insert job %q: %w", rec.EventID, err)
}

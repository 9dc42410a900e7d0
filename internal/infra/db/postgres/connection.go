package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewPgxPool connects to Postgres and returns a live pool.
func NewPgxPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the two tables if they are absent. Safe to run on
// every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	// One statement per Exec: pgx's extended protocol rejects batches.
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS access_codes (
    code          TEXT PRIMARY KEY,
    duration_days INTEGER NOT NULL,
    max_uses      INTEGER NOT NULL,
    current_uses  INTEGER NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT access_codes_bounds CHECK (
        duration_days > 0 AND max_uses > 0
        AND current_uses >= 0 AND current_uses <= max_uses
    )
);`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
    user_id    BIGINT PRIMARY KEY,
    expire_at  TIMESTAMPTZ NOT NULL,
    code_used  TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	}
	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

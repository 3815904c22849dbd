//-------------------------------------------------------------------------
//
// commercegen - relational vs document benchmark fixture generator
//
// Copyright (c) 2025 - 2026, the commercegen authors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commercebench/commercegen/internal/emit"
	"github.com/commercebench/commercegen/internal/logging"
)

// connectPostgres establishes a small connection pool; the benchmark
// loads sequentially, so a handful of connections is plenty.
func connectPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	config.MaxConns = 4
	config.MaxConnLifetime = 30 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	logging.Debug().
		Str("host", config.ConnConfig.Host).
		Uint16("port", config.ConnConfig.Port).
		Str("database", config.ConnConfig.Database).
		Msg("Connecting to PostgreSQL")

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// loadPostgresSQL executes the generated load script against the
// baseline database. The script has no bind parameters, so it runs via
// the simple protocol as one multi-statement batch.
func loadPostgresSQL(ctx context.Context, cfg Config) error {
	if err := requireArtifacts(cfg, emit.SQLFileName); err != nil {
		return err
	}

	script, err := os.ReadFile(artifactPath(cfg, emit.SQLFileName))
	if err != nil {
		return fmt.Errorf("failed to read load script: %w", err)
	}

	pool, err := connectPostgres(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, string(script)); err != nil {
		return fmt.Errorf("failed to execute load script: %w", err)
	}
	return nil
}

//-------------------------------------------------------------------------
//
// commercegen - relational vs document benchmark fixture generator
//
// Copyright (c) 2025 - 2026, the commercegen authors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package ingest benchmarks the three ingestion paths for previously
// generated artifacts: the SQL script into PostgreSQL, the JSON
// documents rebuilt into relational rows on a second PostgreSQL, and
// the JSON documents into MongoDB. Step durations are reported as CSV.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/commercebench/commercegen/internal/logging"
)

// Config holds connection settings and artifact locations for one
// benchmark run.
type Config struct {
	// Postgres receives the SQL-script load (baseline).
	Postgres string

	// PostgresJSON receives the relational rows rebuilt from JSON.
	PostgresJSON string

	// Mongo is the MongoDB connection URI.
	Mongo string

	// MongoDatabase is the target database for the two collections.
	MongoDatabase string

	// ArtifactDir is where the generated artifacts live.
	ArtifactDir string

	// ReportFile is the CSV the step timings are written to.
	ReportFile string
}

// StepTiming records the wall-clock duration of one ingestion step.
type StepTiming struct {
	Step    string
	Seconds float64
}

// Run executes all ingestion steps in order and writes the timing
// report. Any step failure aborts the run.
func Run(ctx context.Context, cfg Config) ([]StepTiming, error) {
	steps := []struct {
		name string
		fn   func(context.Context, Config) error
	}{
		{"postgres_sql", loadPostgresSQL},
		{"postgres_json", loadPostgresFromJSON},
		{"mongo_catalog", loadMongoCatalog},
		{"mongo_sales", loadMongoSales},
	}

	timings := make([]StepTiming, 0, len(steps))
	for _, step := range steps {
		logging.Info().Str("step", step.name).Msg("Starting ingestion step")

		start := time.Now()
		if err := step.fn(ctx, cfg); err != nil {
			return nil, fmt.Errorf("step %s failed: %w", step.name, err)
		}
		elapsed := time.Since(start).Seconds()

		logging.Info().
			Str("step", step.name).
			Float64("seconds", elapsed).
			Msg("Ingestion step complete")
		timings = append(timings, StepTiming{Step: step.name, Seconds: elapsed})
	}

	if cfg.ReportFile != "" {
		if err := WriteReport(cfg.ReportFile, timings); err != nil {
			return nil, err
		}
		logging.Info().Str("file", cfg.ReportFile).Msg("Timing report written")
	}

	return timings, nil
}

// WriteReport writes the step timings as a two-column CSV.
func WriteReport(path string, timings []StepTiming) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "duration_seconds"}); err != nil {
		return err
	}
	for _, t := range timings {
		if err := w.Write([]string{t.Step, strconv.FormatFloat(t.Seconds, 'f', 2, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func artifactPath(cfg Config, name string) string {
	return filepath.Join(cfg.ArtifactDir, name)
}

// requireArtifacts verifies the generated files exist before any
// database is touched.
func requireArtifacts(cfg Config, names ...string) error {
	for _, name := range names {
		path := artifactPath(cfg, name)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("artifact %s not found; run 'commercegen generate' first: %w", path, err)
		}
	}
	return nil
}

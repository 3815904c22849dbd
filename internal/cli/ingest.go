//-------------------------------------------------------------------------
//
// commercegen - relational vs document benchmark fixture generator
//
// Copyright (c) 2025 - 2026, the commercegen authors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package cli

import (
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/commercebench/commercegen/internal/ingest"
	"github.com/commercebench/commercegen/internal/logging"
)

var ingestFlags = struct {
	postgres     string
	postgresJSON string
	mongo        string
	mongoDB      string
	report       string
}{}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load generated artifacts and time each ingest step",
	Long: `Ingest loads the generated artifacts into the target databases and
records how long each step takes:

  postgres_sql   - run the batched load script on PostgreSQL
  postgres_json  - rebuild relational rows from the JSON documents
  mongo_catalog  - insert the store catalog documents into MongoDB
  mongo_sales    - insert the sale documents into MongoDB

Timings are written to a CSV report alongside the artifacts.`,
	RunE: runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.StringVar(&ingestFlags.postgres, "postgres", "",
		"PostgreSQL connection string for the SQL-script load")
	f.StringVar(&ingestFlags.postgresJSON, "postgres-json", "",
		"PostgreSQL connection string for the JSON-rebuild load")
	f.StringVar(&ingestFlags.mongo, "mongo", "", "MongoDB URI")
	f.StringVar(&ingestFlags.mongoDB, "mongo-database", "", "MongoDB database name")
	f.StringVar(&ingestFlags.report, "report", "", "timing report file name")
}

func runIngest(cmd *cobra.Command, args []string) error {
	i := &cfg.Ingest
	if cmd.Flags().Changed("postgres") {
		i.Postgres = ingestFlags.postgres
	}
	if cmd.Flags().Changed("postgres-json") {
		i.PostgresJSON = ingestFlags.postgresJSON
	}
	if cmd.Flags().Changed("mongo") {
		i.Mongo = ingestFlags.mongo
	}
	if cmd.Flags().Changed("mongo-database") {
		i.MongoDatabase = ingestFlags.mongoDB
	}
	if cmd.Flags().Changed("report") {
		i.ReportFile = ingestFlags.report
	}

	if err := cfg.ValidateIngest(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reportFile := i.ReportFile
	if reportFile != "" && !filepath.IsAbs(reportFile) {
		reportFile = filepath.Join(cfg.OutputDir, reportFile)
	}

	timings, err := ingest.Run(ctx, ingest.Config{
		Postgres:      i.Postgres,
		PostgresJSON:  i.PostgresJSON,
		Mongo:         i.Mongo,
		MongoDatabase: i.MongoDatabase,
		ArtifactDir:   cfg.OutputDir,
		ReportFile:    reportFile,
	})
	if err != nil {
		return err
	}

	logging.Info().Int("steps", len(timings)).Msg("Ingest benchmark complete")
	return nil
}

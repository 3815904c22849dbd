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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/commercebench/commercegen/internal/commerce"
	"github.com/commercebench/commercegen/internal/datagen"
	"github.com/commercebench/commercegen/internal/emit"
	"github.com/commercebench/commercegen/internal/logging"
)

var generateFlags = struct {
	seed       uint64
	categories int
	products   int
	stores     int
	employees  int
	customers  int
	sales      int
	minLines   int
	maxLines   int
	batchSize  int
	zipfSkew   float64
	dateStart  string
	dateEnd    string
}{}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the SQL script and JSON document collections",
	Long: `Generate materializes one seeded dataset and writes four artifacts
into the output directory:

  commerce_schema.sql  - table and index definitions only
  commerce_load.sql    - schema plus batched INSERT statements
  stores_catalog.json  - one nested catalog document per store
  sales_docs.json      - one nested document per sale

The same seed always produces byte-identical artifacts.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.Uint64Var(&generateFlags.seed, "seed", 0, "random seed")
	f.IntVar(&generateFlags.categories, "categories", 0, "number of product categories")
	f.IntVar(&generateFlags.products, "products", 0, "number of products")
	f.IntVar(&generateFlags.stores, "stores", 0, "number of stores")
	f.IntVar(&generateFlags.employees, "employees", 0, "number of employees")
	f.IntVar(&generateFlags.customers, "customers", 0, "number of customers")
	f.IntVar(&generateFlags.sales, "sales", 0, "number of sales")
	f.IntVar(&generateFlags.minLines, "min-lines", 0, "minimum lines per sale")
	f.IntVar(&generateFlags.maxLines, "max-lines", 0, "maximum lines per sale")
	f.IntVar(&generateFlags.batchSize, "batch-size", 0, "rows per INSERT statement")
	f.Float64Var(&generateFlags.zipfSkew, "zipf-skew", 0, "customer popularity skew exponent")
	f.StringVar(&generateFlags.dateStart, "date-start", "", "first sale date (YYYY-MM-DD)")
	f.StringVar(&generateFlags.dateEnd, "date-end", "", "last sale date (YYYY-MM-DD, inclusive)")
}

// applyGenerateFlags copies explicitly set flags over the loaded config.
func applyGenerateFlags(cmd *cobra.Command) {
	g := &cfg.Generate
	if cmd.Flags().Changed("seed") {
		g.Seed = generateFlags.seed
	}
	if cmd.Flags().Changed("categories") {
		g.Categories = generateFlags.categories
	}
	if cmd.Flags().Changed("products") {
		g.Products = generateFlags.products
	}
	if cmd.Flags().Changed("stores") {
		g.Stores = generateFlags.stores
	}
	if cmd.Flags().Changed("employees") {
		g.Employees = generateFlags.employees
	}
	if cmd.Flags().Changed("customers") {
		g.Customers = generateFlags.customers
	}
	if cmd.Flags().Changed("sales") {
		g.Sales = generateFlags.sales
	}
	if cmd.Flags().Changed("min-lines") {
		g.MinLines = generateFlags.minLines
	}
	if cmd.Flags().Changed("max-lines") {
		g.MaxLines = generateFlags.maxLines
	}
	if cmd.Flags().Changed("batch-size") {
		g.BatchSize = generateFlags.batchSize
	}
	if cmd.Flags().Changed("zipf-skew") {
		g.ZipfSkew = generateFlags.zipfSkew
	}
	if cmd.Flags().Changed("date-start") {
		g.DateStart = generateFlags.dateStart
	}
	if cmd.Flags().Changed("date-end") {
		g.DateEnd = generateFlags.dateEnd
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	applyGenerateFlags(cmd)

	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}
	dateStart, dateEnd, err := cfg.Generate.DateRange()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}

	g := cfg.Generate
	spec := commerce.Spec{
		Categories: g.Categories,
		Products:   g.Products,
		Stores:     g.Stores,
		Employees:  g.Employees,
		Customers:  g.Customers,
		Sales:      g.Sales,
		MinLines:   g.MinLines,
		MaxLines:   g.MaxLines,
		ZipfSkew:   g.ZipfSkew,
		DateStart:  dateStart,
		DateEnd:    dateEnd,
	}

	logging.Info().
		Uint64("seed", g.Seed).
		Int("sales", g.Sales).
		Int("customers", g.Customers).
		Msg("Generating dataset")

	start := time.Now()
	ds, err := commerce.Build(datagen.NewFakerWithSeed(g.Seed), spec)
	if err != nil {
		return err
	}
	logging.Debug().
		Dur("elapsed", time.Since(start)).
		Int("sale_lines", len(ds.Lines)).
		Msg("Dataset materialized")

	if err := emit.WriteSQLFiles(cfg.OutputDir, ds, g.BatchSize); err != nil {
		return err
	}
	if err := emit.WriteJSONFiles(cfg.OutputDir, ds); err != nil {
		return err
	}

	logging.Info().
		Str("output_dir", cfg.OutputDir).
		Dur("elapsed", time.Since(start)).
		Msg("Artifacts written")
	return nil
}

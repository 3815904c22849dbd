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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/commercebench/commercegen/internal/commerce"
	"github.com/commercebench/commercegen/internal/datagen"
	"github.com/commercebench/commercegen/internal/emit"
)

func testDataset(t *testing.T) *commerce.Dataset {
	t.Helper()
	spec := commerce.Spec{
		Categories: 4,
		Products:   30,
		Stores:     3,
		Employees:  9,
		Customers:  40,
		Sales:      120,
		MinLines:   1,
		MaxLines:   5,
		ZipfSkew:   2.0,
		DateStart:  time.Date(2023, 5, 23, 0, 0, 0, 0, time.UTC),
		DateEnd:    time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC),
	}
	ds, err := commerce.Build(datagen.NewFakerWithSeed(42), spec)
	if err != nil {
		t.Fatalf("failed to build dataset: %v", err)
	}
	return ds
}

// roundTripDocs runs the document projections through JSON the same way
// the generated artifacts would be read back.
func roundTripDocs(t *testing.T, ds *commerce.Dataset) ([]emit.CatalogDoc, []emit.SaleDoc) {
	t.Helper()

	catalogJSON, err := json.Marshal(emit.BuildCatalogDocs(ds))
	if err != nil {
		t.Fatalf("failed to marshal catalog docs: %v", err)
	}
	salesJSON, err := json.Marshal(emit.BuildSaleDocs(ds))
	if err != nil {
		t.Fatalf("failed to marshal sale docs: %v", err)
	}

	var catalog []emit.CatalogDoc
	if err := json.Unmarshal(catalogJSON, &catalog); err != nil {
		t.Fatalf("failed to decode catalog docs: %v", err)
	}
	var sales []emit.SaleDoc
	if err := json.Unmarshal(salesJSON, &sales); err != nil {
		t.Fatalf("failed to decode sale docs: %v", err)
	}
	return catalog, sales
}

func rowsByTable(tables []tableRows) map[string]tableRows {
	m := make(map[string]tableRows, len(tables))
	for _, tbl := range tables {
		m[tbl.name] = tbl
	}
	return m
}

func TestRebuildRelationalCounts(t *testing.T) {
	ds := testDataset(t)
	catalog, sales := roundTripDocs(t, ds)

	tables, err := rebuildRelational(catalog, sales)
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	byName := rowsByTable(tables)

	// Every store, employee and inventory entry survives the catalog
	// round trip exactly.
	checks := []struct {
		table string
		want  int
	}{
		{"store", len(ds.Stores)},
		{"employee", len(ds.Employees)},
		{"inventory", len(ds.Inventory)},
		{"sale", len(ds.Sales)},
		{"saleline", len(ds.Lines)},
	}
	for _, c := range checks {
		if got := len(byName[c.table].rows); got != c.want {
			t.Errorf("table %s: got %d rows, want %d", c.table, got, c.want)
		}
	}

	// Products and categories are rebuilt from inventory snapshots, so
	// only stocked products reappear.
	if got := len(byName["product"].rows); got > len(ds.Products) || got < 1 {
		t.Errorf("rebuilt %d products, dataset has %d", got, len(ds.Products))
	}
	if got := len(byName["category"].rows); got > len(ds.Categories) || got < 1 {
		t.Errorf("rebuilt %d categories, dataset has %d", got, len(ds.Categories))
	}

	// Only customers who bought something reappear.
	buyers := make(map[int]bool)
	for _, s := range ds.Sales {
		buyers[s.CustomerID] = true
	}
	if got := len(byName["customer"].rows); got != len(buyers) {
		t.Errorf("rebuilt %d customers, want %d distinct buyers", got, len(buyers))
	}
}

func TestRebuildRelationalForeignKeys(t *testing.T) {
	ds := testDataset(t)
	catalog, sales := roundTripDocs(t, ds)

	tables, err := rebuildRelational(catalog, sales)
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	byName := rowsByTable(tables)

	storeIDs := make(map[int]bool)
	for _, row := range byName["store"].rows {
		storeIDs[row[0].(int)] = true
	}
	employeeIDs := make(map[int]bool)
	for _, row := range byName["employee"].rows {
		employeeIDs[row[0].(int)] = true
		if !storeIDs[row[4].(int)] {
			t.Errorf("employee %d references unknown store %d", row[0], row[4])
		}
	}
	productIDs := make(map[int]bool)
	for _, row := range byName["product"].rows {
		productIDs[row[0].(int)] = true
	}
	customerIDs := make(map[int]bool)
	for _, row := range byName["customer"].rows {
		customerIDs[row[0].(int)] = true
	}
	saleIDs := make(map[int]bool)
	for _, row := range byName["sale"].rows {
		saleIDs[row[0].(int)] = true
		if !customerIDs[row[2].(int)] {
			t.Errorf("sale %d references unknown customer %d", row[0], row[2])
		}
		if !storeIDs[row[3].(int)] {
			t.Errorf("sale %d references unknown store %d", row[0], row[3])
		}
		if !employeeIDs[row[4].(int)] {
			t.Errorf("sale %d references unknown employee %d", row[0], row[4])
		}
	}
	for _, row := range byName["saleline"].rows {
		if !saleIDs[row[0].(int)] {
			t.Errorf("sale line references unknown sale %d", row[0])
		}
		if !productIDs[row[2].(int)] {
			t.Errorf("sale line references unknown product %d", row[2])
		}
	}
	for _, row := range byName["inventory"].rows {
		if !storeIDs[row[0].(int)] {
			t.Errorf("inventory references unknown store %d", row[0])
		}
		if !productIDs[row[1].(int)] {
			t.Errorf("inventory references unknown product %d", row[1])
		}
	}
}

func TestRebuildRelationalUnknownStore(t *testing.T) {
	ds := testDataset(t)
	catalog, sales := roundTripDocs(t, ds)

	sales[0].Store.Name = "No Such Store"
	if _, err := rebuildRelational(catalog, sales); err == nil {
		t.Fatal("expected error for sale referencing an unknown store")
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest_times.csv")
	timings := []StepTiming{
		{Step: "postgres_sql", Seconds: 1.234},
		{Step: "mongo_sales", Seconds: 0.5},
	}
	if err := WriteReport(path, timings); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	want := "step,duration_seconds\npostgres_sql,1.23\nmongo_sales,0.50\n"
	if string(data) != want {
		t.Errorf("report mismatch:\ngot  %q\nwant %q", string(data), want)
	}
}

func TestRequireArtifactsMissing(t *testing.T) {
	cfg := Config{ArtifactDir: t.TempDir()}
	err := requireArtifacts(cfg, emit.SQLFileName)
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

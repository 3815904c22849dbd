//-------------------------------------------------------------------------
//
// commercegen - relational vs document benchmark fixture generator
//
// Copyright (c) 2025 - 2026, the commercegen authors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package emit renders a materialized commerce dataset as the benchmark
// artifacts: a relational SQL script and two embedded-document JSON
// collections. Emitters are pure readers of the dataset; they draw no
// randomness of their own.
package emit

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/commercebench/commercegen/internal/commerce"
)

// sqlTimestampLayout is what PostgreSQL parses unambiguously for a
// TIMESTAMP column.
const sqlTimestampLayout = "2006-01-02 15:04:05"

// schemaSQL is the fixed relational schema: eight tables plus two
// supporting indexes.
const schemaSQL = `
-- ====================== DDL SECTION (PostgreSQL) =====================
CREATE TABLE Category (
    category_id INT PRIMARY KEY,
    name VARCHAR(100)
);

CREATE TABLE Product (
    product_id INT PRIMARY KEY,
    name VARCHAR(100),
    price DECIMAL(10,2),
    category_id INT REFERENCES Category(category_id)
);

CREATE TABLE Store (
    store_id INT PRIMARY KEY,
    name VARCHAR(100),
    address VARCHAR(200)
);

CREATE TABLE Employee (
    employee_id INT PRIMARY KEY,
    first_name VARCHAR(50),
    last_name VARCHAR(50),
    position VARCHAR(50),
    store_id INT REFERENCES Store(store_id)
);

CREATE TABLE Customer (
    customer_id INT PRIMARY KEY,
    first_name VARCHAR(50),
    last_name VARCHAR(50),
    email VARCHAR(100)
);

CREATE TABLE Inventory (
    store_id INT REFERENCES Store(store_id),
    product_id INT REFERENCES Product(product_id),
    quantity INT,
    PRIMARY KEY (store_id, product_id)
);

CREATE TABLE Sale (
    sale_id INT PRIMARY KEY,
    sale_timestamp TIMESTAMP,
    customer_id INT REFERENCES Customer(customer_id),
    store_id INT REFERENCES Store(store_id),
    employee_id INT REFERENCES Employee(employee_id),
    total_amount DECIMAL(12,2)
);

CREATE TABLE SaleLine (
    sale_id INT REFERENCES Sale(sale_id),
    line_number INT,
    product_id INT REFERENCES Product(product_id),
    quantity INT,
    unit_price DECIMAL(10,2),
    line_total DECIMAL(12,2),
    PRIMARY KEY (sale_id, line_number)
);

-- Simple performance indices
CREATE INDEX idx_sale_timestamp ON Sale(sale_timestamp);
CREATE INDEX idx_product_category ON Product(category_id);
-- ====================================================================
`

// WriteSchema writes the pure DDL script (no data).
func WriteSchema(w io.Writer) error {
	_, err := io.WriteString(w, schemaSQL)
	return err
}

// WriteSQL writes the full load script: DDL, then INSERT statements for
// every table in foreign-key dependency order, batched so no statement
// holds more than batchSize rows, then a COMMIT.
func WriteSQL(w io.Writer, ds *commerce.Dataset, batchSize int) error {
	if batchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", batchSize)
	}

	if err := WriteSchema(w); err != nil {
		return err
	}

	tables := []struct {
		name    string
		columns []string
		count   int
		row     func(i int) []string
	}{
		{
			"Category", []string{"category_id", "name"}, len(ds.Categories),
			func(i int) []string {
				c := ds.Categories[i]
				return []string{strconv.Itoa(c.ID), quoteSQL(c.Name)}
			},
		},
		{
			"Product", []string{"product_id", "name", "price", "category_id"}, len(ds.Products),
			func(i int) []string {
				p := ds.Products[i]
				return []string{strconv.Itoa(p.ID), quoteSQL(p.Name), p.Price.String(), strconv.Itoa(p.CategoryID)}
			},
		},
		{
			"Store", []string{"store_id", "name", "address"}, len(ds.Stores),
			func(i int) []string {
				s := ds.Stores[i]
				return []string{strconv.Itoa(s.ID), quoteSQL(s.Name), quoteSQL(s.Address)}
			},
		},
		{
			"Employee", []string{"employee_id", "first_name", "last_name", "position", "store_id"}, len(ds.Employees),
			func(i int) []string {
				e := ds.Employees[i]
				return []string{strconv.Itoa(e.ID), quoteSQL(e.FirstName), quoteSQL(e.LastName),
					quoteSQL(e.Position), strconv.Itoa(e.StoreID)}
			},
		},
		{
			"Customer", []string{"customer_id", "first_name", "last_name", "email"}, len(ds.Customers),
			func(i int) []string {
				c := ds.Customers[i]
				return []string{strconv.Itoa(c.ID), quoteSQL(c.FirstName), quoteSQL(c.LastName), quoteSQL(c.Email)}
			},
		},
		{
			"Inventory", []string{"store_id", "product_id", "quantity"}, len(ds.Inventory),
			func(i int) []string {
				item := ds.Inventory[i]
				return []string{strconv.Itoa(item.StoreID), strconv.Itoa(item.ProductID), strconv.Itoa(item.Quantity)}
			},
		},
		{
			"Sale", []string{"sale_id", "sale_timestamp", "customer_id", "store_id", "employee_id", "total_amount"}, len(ds.Sales),
			func(i int) []string {
				s := ds.Sales[i]
				return []string{strconv.Itoa(s.ID), quoteSQL(s.Timestamp.Format(sqlTimestampLayout)),
					strconv.Itoa(s.CustomerID), strconv.Itoa(s.StoreID), strconv.Itoa(s.EmployeeID), s.Total.String()}
			},
		},
		{
			"SaleLine", []string{"sale_id", "line_number", "product_id", "quantity", "unit_price", "line_total"}, len(ds.Lines),
			func(i int) []string {
				ln := ds.Lines[i]
				return []string{strconv.Itoa(ln.SaleID), strconv.Itoa(ln.LineNumber), strconv.Itoa(ln.ProductID),
					strconv.Itoa(ln.Quantity), ln.UnitPrice.String(), ln.LineTotal.String()}
			},
		},
	}

	for _, tbl := range tables {
		if err := writeBatches(w, tbl.name, tbl.columns, tbl.count, tbl.row, batchSize); err != nil {
			return fmt.Errorf("failed to emit %s rows: %w", tbl.name, err)
		}
	}

	_, err := io.WriteString(w, "COMMIT;\n")
	return err
}

// writeBatches emits INSERT statements for count rows, at most
// batchSize rows per statement.
func writeBatches(w io.Writer, table string, columns []string, count int, row func(i int) []string, batchSize int) error {
	for start := 0; start < count; start += batchSize {
		end := start + batchSize
		if end > count {
			end = count
		}

		var b strings.Builder
		b.WriteString("INSERT INTO ")
		b.WriteString(table)
		b.WriteString(" (")
		b.WriteString(strings.Join(columns, ", "))
		b.WriteString(")\nVALUES\n    ")
		for i := start; i < end; i++ {
			if i > start {
				b.WriteString(",\n    ")
			}
			b.WriteString("(")
			b.WriteString(strings.Join(row(i), ", "))
			b.WriteString(")")
		}
		b.WriteString(";\n")

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// quoteSQL renders a string as a SQL literal, doubling embedded quotes.
func quoteSQL(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// WriteSQLFiles publishes the load script and the pure-DDL script into
// dir, atomically.
func WriteSQLFiles(dir string, ds *commerce.Dataset, batchSize int) error {
	err := writeFileAtomic(filepath.Join(dir, SQLFileName), func(w io.Writer) error {
		return WriteSQL(w, ds, batchSize)
	})
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, SchemaFileName), WriteSchema)
}

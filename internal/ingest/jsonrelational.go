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
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/commercebench/commercegen/internal/emit"
)

// tableRows holds rebuilt relational rows for one table.
type tableRows struct {
	name    string
	columns []string
	rows    [][]any
}

// loadPostgresFromJSON creates the schema on the second PostgreSQL and
// rebuilds relational rows from the two document files, re-keying
// embedded values back to synthetic ids. Rows are loaded with COPY.
func loadPostgresFromJSON(ctx context.Context, cfg Config) error {
	if err := requireArtifacts(cfg, emit.SchemaFileName, emit.CatalogFileName, emit.SalesFileName); err != nil {
		return err
	}

	var catalog []emit.CatalogDoc
	if err := readJSONArtifact(cfg, emit.CatalogFileName, &catalog); err != nil {
		return err
	}
	var sales []emit.SaleDoc
	if err := readJSONArtifact(cfg, emit.SalesFileName, &sales); err != nil {
		return err
	}

	tables, err := rebuildRelational(catalog, sales)
	if err != nil {
		return err
	}

	schema, err := os.ReadFile(artifactPath(cfg, emit.SchemaFileName))
	if err != nil {
		return fmt.Errorf("failed to read schema script: %w", err)
	}

	pool, err := connectPostgres(ctx, cfg.PostgresJSON)
	if err != nil {
		return err
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	for _, tbl := range tables {
		_, err := pool.CopyFrom(ctx, pgx.Identifier{tbl.name}, tbl.columns, pgx.CopyFromRows(tbl.rows))
		if err != nil {
			return fmt.Errorf("failed to copy into %s: %w", tbl.name, err)
		}
	}
	return nil
}

func readJSONArtifact(cfg Config, name string, v any) error {
	data, err := os.ReadFile(artifactPath(cfg, name))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// employeeKey identifies an embedded employee; names are only unique
// within their store.
type employeeKey struct {
	first, last string
	storeID     int
}

// rebuildRelational turns the two document collections back into
// relational rows. The documents carry no ids, so ids are assigned in
// first-seen order and embedded values are re-keyed through name maps.
func rebuildRelational(catalog []emit.CatalogDoc, sales []emit.SaleDoc) ([]tableRows, error) {
	categories := tableRows{"category", []string{"category_id", "name"}, nil}
	products := tableRows{"product", []string{"product_id", "name", "price", "category_id"}, nil}
	stores := tableRows{"store", []string{"store_id", "name", "address"}, nil}
	employees := tableRows{"employee", []string{"employee_id", "first_name", "last_name", "position", "store_id"}, nil}
	customers := tableRows{"customer", []string{"customer_id", "first_name", "last_name", "email"}, nil}
	inventory := tableRows{"inventory", []string{"store_id", "product_id", "quantity"}, nil}
	saleRows := tableRows{"sale", []string{"sale_id", "sale_timestamp", "customer_id", "store_id", "employee_id", "total_amount"}, nil}
	saleLines := tableRows{"saleline", []string{"sale_id", "line_number", "product_id", "quantity", "unit_price", "line_total"}, nil}

	categoryID := make(map[string]int)
	productID := make(map[string]int)
	storeID := make(map[string]int)
	employeeID := make(map[employeeKey]int)
	customerID := make(map[string]int)

	for _, doc := range catalog {
		sid := len(storeID) + 1
		storeID[doc.StoreName] = sid
		stores.rows = append(stores.rows, []any{sid, doc.StoreName, doc.Address})

		for _, e := range doc.Employees {
			eid := len(employeeID) + 1
			employeeID[employeeKey{e.FirstName, e.LastName, sid}] = eid
			employees.rows = append(employees.rows, []any{eid, e.FirstName, e.LastName, e.Position, sid})
		}

		for _, item := range doc.Inventory {
			cid, ok := categoryID[item.Product.Category]
			if !ok {
				cid = len(categoryID) + 1
				categoryID[item.Product.Category] = cid
				categories.rows = append(categories.rows, []any{cid, item.Product.Category})
			}

			pid, ok := productID[item.Product.Name]
			if !ok {
				pid = len(productID) + 1
				productID[item.Product.Name] = pid
				products.rows = append(products.rows, []any{pid, item.Product.Name, item.Product.Price.Float(), cid})
			}

			inventory.rows = append(inventory.rows, []any{sid, pid, item.Quantity})
		}
	}

	for i, sale := range sales {
		saleID := i + 1

		cid, ok := customerID[sale.Customer.Email]
		if !ok {
			cid = len(customerID) + 1
			customerID[sale.Customer.Email] = cid
			customers.rows = append(customers.rows,
				[]any{cid, sale.Customer.FirstName, sale.Customer.LastName, sale.Customer.Email})
		}

		sid, ok := storeID[sale.Store.Name]
		if !ok {
			return nil, fmt.Errorf("sale %d references store %q absent from the catalog", saleID, sale.Store.Name)
		}
		eid, ok := employeeID[employeeKey{sale.Employee.FirstName, sale.Employee.LastName, sid}]
		if !ok {
			return nil, fmt.Errorf("sale %d references employee %s %s absent from store %q",
				saleID, sale.Employee.FirstName, sale.Employee.LastName, sale.Store.Name)
		}

		saleRows.rows = append(saleRows.rows,
			[]any{saleID, time.Time(sale.Timestamp), cid, sid, eid, sale.Total.Float()})

		for lineNum, ln := range sale.Lines {
			pid, ok := productID[ln.Product.Name]
			if !ok {
				return nil, fmt.Errorf("sale %d references product %q absent from the catalog", saleID, ln.Product.Name)
			}
			saleLines.rows = append(saleLines.rows,
				[]any{saleID, lineNum + 1, pid, ln.Quantity, ln.Product.Price.Float(), ln.LineTotal.Float()})
		}
	}

	return []tableRows{categories, products, stores, employees, customers, inventory, saleRows, saleLines}, nil
}

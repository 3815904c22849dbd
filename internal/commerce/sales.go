//-------------------------------------------------------------------------
//
// commercegen - relational vs document benchmark fixture generator
//
// Copyright (c) 2025 - 2026, the commercegen authors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package commerce

import (
	"fmt"
	"time"

	"github.com/commercebench/commercegen/internal/datagen"
)

// quantity bounds per sale line.
const (
	lineQtyMin = 1
	lineQtyMax = 5
)

// buildSales generates the sale headers and their lines. Customers are
// picked with Zipf weighting over the ranked customer list so a small
// head of customers accounts for most purchases; employees are picked
// only from the sale's own store, and line products only from that
// store's inventory.
func buildSales(f *datagen.Faker, spec Spec, ds *Dataset) error {
	zipf := datagen.NewZipfSampler(spec.Customers, spec.ZipfSkew)

	// Per-store lookups resolved once; sale generation must not depend
	// on scanning order.
	employeesByStore := make([][]Employee, spec.Stores)
	for _, e := range ds.Employees {
		employeesByStore[e.StoreID-1] = append(employeesByStore[e.StoreID-1], e)
	}
	inventoryByStore := make([][]InventoryItem, spec.Stores)
	for _, item := range ds.Inventory {
		inventoryByStore[item.StoreID-1] = append(inventoryByStore[item.StoreID-1], item)
	}

	for storeID := 1; storeID <= spec.Stores; storeID++ {
		if len(employeesByStore[storeID-1]) == 0 {
			return fmt.Errorf("data integrity error: store %d has no employees", storeID)
		}
		if len(inventoryByStore[storeID-1]) == 0 {
			return fmt.Errorf("data integrity error: store %d has no stocked inventory", storeID)
		}
	}

	ds.Sales = make([]Sale, 0, spec.Sales)
	ds.Lines = make([]SaleLine, 0, spec.Sales*(spec.MinLines+spec.MaxLines)/2)

	for saleID := 1; saleID <= spec.Sales; saleID++ {
		ts := f.DateRange(spec.DateStart, spec.DateEnd).UTC().Truncate(time.Second)
		customer := ds.Customers[zipf.Sample(f)]
		store := datagen.Choose(f, ds.Stores)
		employee := datagen.Choose(f, employeesByStore[store.ID-1])

		inv := inventoryByStore[store.ID-1]
		nLines := f.Int(spec.MinLines, spec.MaxLines)
		if nLines > len(inv) {
			nLines = len(inv)
		}

		var total Money
		for lineNum, invIdx := range datagen.SampleInts(f, len(inv), nLines) {
			product := ds.ProductByID(inv[invIdx].ProductID)
			qty := f.Int(lineQtyMin, lineQtyMax)
			lineTotal := Money(int64(product.Price) * int64(qty))
			ds.Lines = append(ds.Lines, SaleLine{
				SaleID:     saleID,
				LineNumber: lineNum + 1,
				ProductID:  product.ID,
				Quantity:   qty,
				UnitPrice:  product.Price,
				LineTotal:  lineTotal,
			})
			total += lineTotal
		}

		ds.Sales = append(ds.Sales, Sale{
			ID:         saleID,
			Timestamp:  ts,
			CustomerID: customer.ID,
			StoreID:    store.ID,
			EmployeeID: employee.ID,
			Total:      total,
		})
	}

	return nil
}

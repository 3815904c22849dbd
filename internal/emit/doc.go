//-------------------------------------------------------------------------
//
// commercegen - relational vs document benchmark fixture generator
//
// Copyright (c) 2025 - 2026, the commercegen authors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/commercebench/commercegen/internal/commerce"
)

// The document projections express every relationship by physical
// nesting. No document carries a synthetic integer id or foreign-key
// field; cross-entity data is embedded by value.

// DocDate marshals as Mongo extended JSON ({"$date": ...}) so that a
// mongoimport-style loader stores a real Date instead of a string.
type DocDate time.Time

const docDateLayout = "2006-01-02T15:04:05Z"

// MarshalJSON renders the extended-JSON date wrapper.
func (d DocDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"$date": time.Time(d).UTC().Format(docDateLayout),
	})
}

// UnmarshalJSON accepts the extended-JSON wrapper or a plain ISO string.
func (d *DocDate) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Date string `json:"$date"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Date != "" {
		t, err := time.Parse(docDateLayout, wrapper.Date)
		if err != nil {
			return fmt.Errorf("invalid $date value %q: %w", wrapper.Date, err)
		}
		*d = DocDate(t)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	t, err := time.Parse(docDateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	*d = DocDate(t)
	return nil
}

// ProductDoc is the denormalized product snapshot embedded into
// inventory entries and sale lines. Category is flattened to its name.
type ProductDoc struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Price    commerce.Money `json:"price"`
}

// EmployeeDoc is an employee embedded into a catalog document.
type EmployeeDoc struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
}

// InventoryDoc is one stocked product within a catalog document.
type InventoryDoc struct {
	Product  ProductDoc `json:"product"`
	Quantity int        `json:"quantity"`
}

// CatalogDoc is the per-store catalog document: store, its employees,
// and its inventory with embedded product snapshots (three levels of
// nesting: store, inventory[], product, category name).
type CatalogDoc struct {
	StoreName string         `json:"store_name"`
	Address   string         `json:"address"`
	Employees []EmployeeDoc  `json:"employees"`
	Inventory []InventoryDoc `json:"inventory"`
}

// SaleLineDoc is one line within a sale document.
type SaleLineDoc struct {
	Product   ProductDoc     `json:"product"`
	Quantity  int            `json:"quantity"`
	LineTotal commerce.Money `json:"line_total"`
}

// SaleDoc is the per-sale document with embedded store, employee and
// customer identity fields plus the lines array.
type SaleDoc struct {
	Timestamp DocDate        `json:"timestamp"`
	Store     SaleStoreDoc   `json:"store"`
	Employee  SalePersonDoc  `json:"employee"`
	Customer  CustomerDoc    `json:"customer"`
	Lines     []SaleLineDoc  `json:"lines"`
	Total     commerce.Money `json:"total_amount"`
}

// SaleStoreDoc identifies the store on a sale document by name.
type SaleStoreDoc struct {
	Name string `json:"name"`
}

// SalePersonDoc identifies the selling employee by name.
type SalePersonDoc struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CustomerDoc carries the customer identity fields on a sale document.
type CustomerDoc struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// productDoc snapshots a product with its category name resolved.
func productDoc(ds *commerce.Dataset, productID int) ProductDoc {
	p := ds.ProductByID(productID)
	return ProductDoc{
		Name:     p.Name,
		Category: ds.CategoryByID(p.CategoryID).Name,
		Price:    p.Price,
	}
}

// BuildCatalogDocs projects the dataset into one catalog document per
// store.
func BuildCatalogDocs(ds *commerce.Dataset) []CatalogDoc {
	docs := make([]CatalogDoc, 0, len(ds.Stores))
	for _, st := range ds.Stores {
		doc := CatalogDoc{
			StoreName: st.Name,
			Address:   st.Address,
			Employees: []EmployeeDoc{},
			Inventory: []InventoryDoc{},
		}
		for _, e := range ds.StoreEmployees(st.ID) {
			doc.Employees = append(doc.Employees, EmployeeDoc{
				FirstName: e.FirstName,
				LastName:  e.LastName,
				Position:  e.Position,
			})
		}
		for _, item := range ds.StoreInventory(st.ID) {
			doc.Inventory = append(doc.Inventory, InventoryDoc{
				Product:  productDoc(ds, item.ProductID),
				Quantity: item.Quantity,
			})
		}
		docs = append(docs, doc)
	}
	return docs
}

// BuildSaleDocs projects the dataset into one document per sale.
func BuildSaleDocs(ds *commerce.Dataset) []SaleDoc {
	linesBySale := ds.LinesBySale()

	docs := make([]SaleDoc, 0, len(ds.Sales))
	for _, sale := range ds.Sales {
		emp := ds.EmployeeByID(sale.EmployeeID)
		cust := ds.CustomerByID(sale.CustomerID)

		doc := SaleDoc{
			Timestamp: DocDate(sale.Timestamp),
			Store:     SaleStoreDoc{Name: ds.StoreByID(sale.StoreID).Name},
			Employee:  SalePersonDoc{FirstName: emp.FirstName, LastName: emp.LastName},
			Customer:  CustomerDoc{FirstName: cust.FirstName, LastName: cust.LastName, Email: cust.Email},
			Lines:     make([]SaleLineDoc, 0, len(linesBySale[sale.ID])),
			Total:     sale.Total,
		}
		for _, ln := range linesBySale[sale.ID] {
			doc.Lines = append(doc.Lines, SaleLineDoc{
				Product:   productDoc(ds, ln.ProductID),
				Quantity:  ln.Quantity,
				LineTotal: ln.LineTotal,
			})
		}
		docs = append(docs, doc)
	}
	return docs
}

// WriteJSON writes v as an indented JSON array.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// WriteJSONFiles publishes the two document collections into dir,
// atomically.
func WriteJSONFiles(dir string, ds *commerce.Dataset) error {
	err := writeFileAtomic(filepath.Join(dir, CatalogFileName), func(w io.Writer) error {
		return WriteJSON(w, BuildCatalogDocs(ds))
	})
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, SalesFileName), func(w io.Writer) error {
		return WriteJSON(w, BuildSaleDocs(ds))
	})
}

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
	"strings"
	"time"

	"github.com/commercebench/commercegen/internal/datagen"
)

// Spec holds the volume parameters for one generation run.
type Spec struct {
	Categories int
	Products   int
	Stores     int
	Employees  int
	Customers  int
	Sales      int
	MinLines   int
	MaxLines   int
	ZipfSkew   float64
	DateStart  time.Time
	DateEnd    time.Time
}

// positions is the fixed job-title vocabulary for employees.
var positions = []string{"Cashier", "Sales Associate", "Manager", "Stocker"}

// priceMin and priceMax bound the uniform retail price range.
const (
	priceMin = 5.0
	priceMax = 1000.0
)

// stock quantity bounds per inventory entry.
const (
	stockMin = 0
	stockMax = 200
)

// Validate checks the volume parameters before any generation begins so
// that a bad configuration never produces partial output.
func (s Spec) Validate() error {
	counts := []struct {
		name  string
		value int
	}{
		{"categories", s.Categories},
		{"products", s.Products},
		{"stores", s.Stores},
		{"employees", s.Employees},
		{"customers", s.Customers},
		{"sales", s.Sales},
	}
	for _, c := range counts {
		if c.value < 1 {
			return fmt.Errorf("configuration error: %s must be at least 1, got %d", c.name, c.value)
		}
	}
	if s.Employees < s.Stores {
		return fmt.Errorf("configuration error: employees (%d) must be >= stores (%d)",
			s.Employees, s.Stores)
	}
	if s.MinLines < 1 {
		return fmt.Errorf("configuration error: min_lines must be at least 1, got %d", s.MinLines)
	}
	if s.MaxLines < s.MinLines {
		return fmt.Errorf("configuration error: max_lines (%d) must be >= min_lines (%d)",
			s.MaxLines, s.MinLines)
	}
	// Sale lines sample distinct products from the store's inventory,
	// so the minimum line count must fit inside it.
	if stocked := stockedPerStore(s.Products); stocked < s.MinLines {
		return fmt.Errorf("configuration error: min_lines (%d) exceeds the %d products each store stocks; increase products or lower min_lines",
			s.MinLines, stocked)
	}
	if s.ZipfSkew <= 0 {
		return fmt.Errorf("configuration error: zipf_skew must be positive, got %g", s.ZipfSkew)
	}
	if !s.DateEnd.After(s.DateStart) {
		return fmt.Errorf("configuration error: date_end must be after date_start")
	}
	return nil
}

// Build materializes the full dataset from a single seeded Faker. The
// draw order is fixed: categories, products, stores, employees,
// customers, inventory, then per sale (timestamp, customer, store,
// employee, line count, per-line product and quantity). Both emitters
// consume the result without drawing further randomness, which is what
// keeps the two projections describing the same entities.
func Build(f *datagen.Faker, spec Spec) (*Dataset, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ds := &Dataset{}
	buildEntities(f, spec, ds)
	if err := buildSales(f, spec, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func buildEntities(f *datagen.Faker, spec Spec, ds *Dataset) {
	// Names that downstream consumers key on (the JSON-derived ingest
	// path rebuilds ids from them) are deduplicated with a numeric
	// suffix.
	unique := newNameDeduper()

	// 1. Categories
	ds.Categories = make([]Category, spec.Categories)
	for i := range ds.Categories {
		ds.Categories[i] = Category{
			ID:   i + 1,
			Name: unique(capitalize(f.Word())),
		}
	}

	// 2. Products
	ds.Products = make([]Product, spec.Products)
	for i := range ds.Products {
		ds.Products[i] = Product{
			ID:         i + 1,
			Name:       unique(f.ProductName()),
			Price:      MoneyFromFloat(f.Float64(priceMin, priceMax)),
			CategoryID: f.Int(1, spec.Categories),
		}
	}

	// 3. Stores
	ds.Stores = make([]Store, spec.Stores)
	for i := range ds.Stores {
		name := unique(f.Company())
		address := fmt.Sprintf("%s, %s, %s %s", f.Street(), f.City(), f.State(), f.Zip())
		ds.Stores[i] = Store{ID: i + 1, Name: name, Address: address}
	}

	// 4. Employees, round-robin across stores so none is left empty.
	ds.Employees = make([]Employee, spec.Employees)
	for i := range ds.Employees {
		ds.Employees[i] = Employee{
			ID:        i + 1,
			FirstName: f.FirstName(),
			LastName:  f.LastName(),
			Position:  datagen.Choose(f, positions),
			StoreID:   i%spec.Stores + 1,
		}
	}

	// 5. Customers. Emails embed the customer id so they are unique by
	// construction; the JSON ingest path de-duplicates customers by
	// email.
	ds.Customers = make([]Customer, spec.Customers)
	for i := range ds.Customers {
		first := f.FirstName()
		last := f.LastName()
		ds.Customers[i] = Customer{
			ID:        i + 1,
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("%s.%s.%d@%s", emailToken(first), emailToken(last), i+1, f.DomainName()),
		}
	}

	// 6. Inventory
	perStore := stockedPerStore(spec.Products)
	ds.Inventory = make([]InventoryItem, 0, spec.Stores*perStore)
	for _, st := range ds.Stores {
		for _, idx := range datagen.SampleInts(f, spec.Products, perStore) {
			ds.Inventory = append(ds.Inventory, InventoryItem{
				StoreID:   st.ID,
				ProductID: ds.Products[idx].ID,
				Quantity:  f.Int(stockMin, stockMax),
			})
		}
	}
}

// stockedPerStore is how many distinct products each store stocks:
// roughly half the catalog, always at least one.
func stockedPerStore(products int) int {
	n := products / 2
	if n < 1 {
		n = 1
	}
	return n
}

// newNameDeduper returns a closure that makes synthesized names unique
// by appending a deterministic numeric suffix on collision.
func newNameDeduper() func(string) string {
	seen := make(map[string]int)
	return func(name string) string {
		n := seen[name]
		seen[name] = n + 1
		if n == 0 {
			return name
		}
		return fmt.Sprintf("%s %d", name, n+1)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// emailToken lowercases a name and strips anything that does not belong
// in an email local part.
func emailToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "x"
	}
	return b.String()
}

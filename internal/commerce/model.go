// Package commerce synthesizes the shared logical retail dataset that
// both output projections are derived from. Entities are materialized
// once, in a fixed draw order, and emitters read them without touching
// the random stream.
package commerce

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Money is a fixed-point monetary amount in cents. Totals are summed in
// cents so arithmetic closure is exact rather than within a float
// tolerance.
type Money int64

// MoneyFromFloat converts a currency amount to cents, rounding to the
// nearest cent.
func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

// Float returns the amount as a float64 currency value.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// String renders the amount with exactly two decimal digits.
func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%d.%02d", sign, m/100, m%100)
}

// MarshalJSON renders Money as a plain JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON parses a JSON number into cents.
func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid money value %s: %w", data, err)
	}
	*m = MoneyFromFloat(v)
	return nil
}

// Category is a product category.
type Category struct {
	ID   int
	Name string
}

// Product belongs to exactly one category.
type Product struct {
	ID         int
	Name       string
	Price      Money
	CategoryID int
}

// Store is an independent root entity.
type Store struct {
	ID      int
	Name    string
	Address string
}

// Employee belongs to exactly one store.
type Employee struct {
	ID        int
	FirstName string
	LastName  string
	Position  string
	StoreID   int
}

// Customer is an independent root entity.
type Customer struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
}

// InventoryItem records the stock of one product at one store. The
// (StoreID, ProductID) pair is the identity.
type InventoryItem struct {
	StoreID   int
	ProductID int
	Quantity  int
}

// Sale is a transaction header. Total equals the sum of its line totals.
type Sale struct {
	ID         int
	Timestamp  time.Time
	CustomerID int
	StoreID    int
	EmployeeID int
	Total      Money
}

// SaleLine is one line of a sale. LineNumber is contiguous from 1
// within a sale, and LineTotal == Quantity * UnitPrice.
type SaleLine struct {
	SaleID     int
	LineNumber int
	ProductID  int
	Quantity   int
	UnitPrice  Money
	LineTotal  Money
}

// Dataset is the fully materialized logical dataset. All entity slices
// are ordered by id, ids are sequential from 1, and every reference
// resolves to an entity earlier in generation order.
type Dataset struct {
	Categories []Category
	Products   []Product
	Stores     []Store
	Employees  []Employee
	Customers  []Customer
	Inventory  []InventoryItem
	Sales      []Sale
	Lines      []SaleLine
}

// CategoryByID returns the category with the given id.
func (d *Dataset) CategoryByID(id int) Category { return d.Categories[id-1] }

// ProductByID returns the product with the given id.
func (d *Dataset) ProductByID(id int) Product { return d.Products[id-1] }

// StoreByID returns the store with the given id.
func (d *Dataset) StoreByID(id int) Store { return d.Stores[id-1] }

// EmployeeByID returns the employee with the given id.
func (d *Dataset) EmployeeByID(id int) Employee { return d.Employees[id-1] }

// CustomerByID returns the customer with the given id.
func (d *Dataset) CustomerByID(id int) Customer { return d.Customers[id-1] }

// StoreEmployees returns the employees assigned to a store, in id order.
func (d *Dataset) StoreEmployees(storeID int) []Employee {
	var out []Employee
	for _, e := range d.Employees {
		if e.StoreID == storeID {
			out = append(out, e)
		}
	}
	return out
}

// StoreInventory returns a store's inventory in generation order.
func (d *Dataset) StoreInventory(storeID int) []InventoryItem {
	var out []InventoryItem
	for _, item := range d.Inventory {
		if item.StoreID == storeID {
			out = append(out, item)
		}
	}
	return out
}

// LinesBySale groups sale lines by sale id, each group ordered by line
// number.
func (d *Dataset) LinesBySale() map[int][]SaleLine {
	out := make(map[int][]SaleLine, len(d.Sales))
	for _, ln := range d.Lines {
		out[ln.SaleID] = append(out[ln.SaleID], ln)
	}
	return out
}

package emit

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func decodeDocs(t *testing.T, v any) []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, v); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	var docs []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("Emitted file is not a valid JSON array: %v", err)
	}
	return docs
}

func TestCatalogDocs(t *testing.T) {
	ds := testDataset(t, 42)
	docs := decodeDocs(t, BuildCatalogDocs(ds))

	if len(docs) != len(ds.Stores) {
		t.Fatalf("Expected %d catalog documents, got %d", len(ds.Stores), len(docs))
	}

	// Store names and addresses match the relational projection.
	byName := make(map[string]map[string]any)
	for _, doc := range docs {
		byName[doc["store_name"].(string)] = doc
	}
	for _, st := range ds.Stores {
		doc, ok := byName[st.Name]
		if !ok {
			t.Fatalf("Store %q missing from catalog documents", st.Name)
		}
		if doc["address"] != st.Address {
			t.Errorf("Store %q address mismatch", st.Name)
		}

		employees := doc["employees"].([]any)
		if len(employees) != len(ds.StoreEmployees(st.ID)) {
			t.Errorf("Store %q embeds %d employees, expected %d",
				st.Name, len(employees), len(ds.StoreEmployees(st.ID)))
		}
		inventory := doc["inventory"].([]any)
		if len(inventory) != len(ds.StoreInventory(st.ID)) {
			t.Errorf("Store %q embeds %d inventory entries, expected %d",
				st.Name, len(inventory), len(ds.StoreInventory(st.ID)))
		}
	}
}

func TestCatalogDocNesting(t *testing.T) {
	ds := testDataset(t, 42)
	docs := decodeDocs(t, BuildCatalogDocs(ds))

	// store -> inventory[] -> product{} -> category name: three levels.
	inv := docs[0]["inventory"].([]any)
	if len(inv) == 0 {
		t.Fatal("First catalog document has empty inventory")
	}
	entry := inv[0].(map[string]any)
	product, ok := entry["product"].(map[string]any)
	if !ok {
		t.Fatal("Inventory entry does not embed a product object")
	}
	if product["category"] == "" || product["name"] == "" {
		t.Error("Embedded product snapshot is incomplete")
	}
	if _, ok := product["price"].(float64); !ok {
		t.Error("Embedded product price is not a JSON number")
	}
}

func TestSaleDocs(t *testing.T) {
	ds := testDataset(t, 42)
	docs := decodeDocs(t, BuildSaleDocs(ds))

	if len(docs) != len(ds.Sales) {
		t.Fatalf("Expected %d sale documents, got %d", len(ds.Sales), len(docs))
	}

	linesBySale := ds.LinesBySale()
	for i, doc := range docs {
		sale := ds.Sales[i]

		if got := doc["total_amount"].(float64); math.Abs(got-sale.Total.Float()) > 0.001 {
			t.Errorf("Sale %d total %f != %s", sale.ID, got, sale.Total)
		}
		if doc["store"].(map[string]any)["name"] != ds.StoreByID(sale.StoreID).Name {
			t.Errorf("Sale %d embeds wrong store", sale.ID)
		}
		cust := doc["customer"].(map[string]any)
		if cust["email"] != ds.CustomerByID(sale.CustomerID).Email {
			t.Errorf("Sale %d embeds wrong customer", sale.ID)
		}

		ts := doc["timestamp"].(map[string]any)
		parsed, err := time.Parse("2006-01-02T15:04:05Z", ts["$date"].(string))
		if err != nil {
			t.Fatalf("Sale %d timestamp is not extended JSON: %v", sale.ID, err)
		}
		if !parsed.Equal(sale.Timestamp) {
			t.Errorf("Sale %d timestamp mismatch: %v != %v", sale.ID, parsed, sale.Timestamp)
		}

		lines := doc["lines"].([]any)
		if len(lines) != len(linesBySale[sale.ID]) {
			t.Fatalf("Sale %d embeds %d lines, expected %d", sale.ID, len(lines), len(linesBySale[sale.ID]))
		}
		var sum float64
		for _, raw := range lines {
			line := raw.(map[string]any)
			sum += line["line_total"].(float64)
			if _, ok := line["product"].(map[string]any); !ok {
				t.Fatalf("Sale %d line does not embed a product", sale.ID)
			}
		}
		if math.Abs(sum-sale.Total.Float()) > 0.001 {
			t.Errorf("Sale %d line totals sum to %f, header says %s", sale.ID, sum, sale.Total)
		}
	}
}

// forbiddenKeys walks a decoded document tree and reports any key that
// looks like a synthetic identifier or foreign key.
func forbiddenKeys(v any, found *[]string) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			if k == "id" || strings.HasSuffix(k, "_id") {
				*found = append(*found, k)
			}
			forbiddenKeys(child, found)
		}
	case []any:
		for _, child := range val {
			forbiddenKeys(child, found)
		}
	}
}

func TestDocumentsCarryNoIdentifiers(t *testing.T) {
	ds := testDataset(t, 42)

	for _, v := range []any{BuildCatalogDocs(ds), BuildSaleDocs(ds)} {
		var buf bytes.Buffer
		if err := WriteJSON(&buf, v); err != nil {
			t.Fatalf("WriteJSON failed: %v", err)
		}
		var decoded any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatal(err)
		}
		var found []string
		forbiddenKeys(decoded, &found)
		if len(found) > 0 {
			t.Errorf("Documents carry identifier fields: %v", found)
		}
	}
}

func TestDocDateRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	data, err := json.Marshal(DocDate(ts))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"$date":"2024-03-15T09:30:00Z"}` {
		t.Errorf("Unexpected encoding: %s", data)
	}

	var back DocDate
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !time.Time(back).Equal(ts) {
		t.Errorf("Round trip mismatch: %v != %v", time.Time(back), ts)
	}

	// Plain ISO strings are accepted too.
	if err := json.Unmarshal([]byte(`"2024-03-15T09:30:00Z"`), &back); err != nil {
		t.Fatalf("Unmarshal of plain string failed: %v", err)
	}
	if !time.Time(back).Equal(ts) {
		t.Error("Plain string timestamp mismatch")
	}

	if err := json.Unmarshal([]byte(`42`), &back); err == nil {
		t.Error("Expected error for numeric timestamp")
	}
}

func TestWriteJSONFiles(t *testing.T) {
	dir := t.TempDir()
	ds := testDataset(t, 42)

	if err := WriteJSONFiles(dir, ds); err != nil {
		t.Fatalf("WriteJSONFiles failed: %v", err)
	}

	for _, name := range []string{CatalogFileName, SalesFileName} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("%s not published: %v", name, err)
		}
		var docs []any
		if err := json.Unmarshal(data, &docs); err != nil {
			t.Errorf("%s is not a valid JSON array: %v", name, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 files in output dir, found %d", len(entries))
	}
}

func TestDocumentDeterminism(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	if err := WriteJSON(&buf1, BuildSaleDocs(testDataset(t, 42))); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(&buf2, BuildSaleDocs(testDataset(t, 42))); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf1.Bytes(), buf2.Bytes()) {
		t.Error("Same seed produced different document files")
	}
}

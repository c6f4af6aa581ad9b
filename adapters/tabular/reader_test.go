package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"salespulse/internal/errors"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReader_ReadCSV(t *testing.T) {
	path := writeCSV(t, "invoice_date,price,shopping_mall\n2023-06-01,10.5,Kanyon\n2023-06-01,\"$1,250.00\",Kanyon\n")

	table, err := NewReader(path).Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(table.Columns) != 3 || table.Columns[0] != "invoice_date" {
		t.Errorf("columns = %v", table.Columns)
	}
	if len(table.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(table.Records))
	}

	rows, err := table.Rows(DetectMapping(table.Columns))
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if rows[0].EntityID != "Kanyon" || rows[0].Value != 10.5 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Value != 1250 {
		t.Errorf("currency formatting should be tolerated, got %v", rows[1].Value)
	}
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewReader("/nonexistent/sales.csv").Read()
	if !errors.IsCode(err, errors.CodeInput) {
		t.Errorf("expected %s, got %v", errors.CodeInput, err)
	}
}

func TestReader_HeadersOnlyIsEmptyNotError(t *testing.T) {
	path := writeCSV(t, "invoice_date,price,shopping_mall\n")
	table, err := NewReader(path).Read()
	if err != nil {
		t.Fatalf("headers-only file must not error: %v", err)
	}
	rows, err := table.Rows(DetectMapping(table.Columns))
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestRows_MissingColumnIsConfigError(t *testing.T) {
	path := writeCSV(t, "invoice_date,price,shopping_mall\n2023-06-01,10,Kanyon\n")
	table, err := NewReader(path).Read()
	if err != nil {
		t.Fatal(err)
	}

	_, err = table.Rows(ColumnMapping{DateColumn: "invoice_date", ValueColumn: "revenue", EntityColumn: "shopping_mall"})
	if !errors.IsCode(err, errors.CodeConfig) {
		t.Errorf("expected %s, got %v", errors.CodeConfig, err)
	}
}

func TestRows_NonNumericValueIsInputError(t *testing.T) {
	path := writeCSV(t, "invoice_date,price,shopping_mall\n2023-06-01,abc,Kanyon\n")
	table, err := NewReader(path).Read()
	if err != nil {
		t.Fatal(err)
	}

	_, err = table.Rows(DetectMapping(table.Columns))
	if !errors.IsCode(err, errors.CodeInput) {
		t.Errorf("expected %s, got %v", errors.CodeInput, err)
	}
}

func TestDetectMapping(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    ColumnMapping
	}{
		{
			name:    "mall sales export",
			columns: []string{"invoice_no", "invoice_date", "price", "shopping_mall"},
			want:    ColumnMapping{DateColumn: "invoice_date", ValueColumn: "price", EntityColumn: "shopping_mall"},
		},
		{
			name:    "retail sales export",
			columns: []string{"Date", "Total Amount", "Product Category"},
			want:    ColumnMapping{DateColumn: "Date", ValueColumn: "Total Amount", EntityColumn: "Product Category"},
		},
		{
			name:    "unknown names fall back to position",
			columns: []string{"a", "b", "c"},
			want:    ColumnMapping{DateColumn: "a", ValueColumn: "b", EntityColumn: "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMapping(tt.columns); got != tt.want {
				t.Errorf("DetectMapping = %+v, want %+v", got, tt.want)
			}
		})
	}
}

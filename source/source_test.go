package source

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/dispatchgrid/types"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"orders.json", FormatJSON},
		{"orders.JSONL", FormatJSONL},
		{"orders.ndjson", FormatJSONL},
		{"orders.yml", FormatYAML},
		{"orders.yaml", FormatYAML},
		{"orders.csv", FormatCSV},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}

	if _, err := DetectFormat("orders.xlsx"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	tests := []struct {
		file    string
		rows    int
		columns []string
	}{
		{
			file:    "stops.json",
			rows:    3,
			columns: []string{"id", "city", "address.street", "address.postal_code", "weight_kg", "tags", "driver", "extra"},
		},
		{
			file:    "stops.jsonl",
			rows:    2,
			columns: []string{"id", "city", "weight_kg", "driver"},
		},
		{
			file:    "stops.yaml",
			rows:    2,
			columns: []string{"id", "city", "address.street", "address.postal_code", "priority"},
		},
		{
			file:    "stops.csv",
			rows:    3,
			columns: []string{"id", "city", "driver", "weight_kg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			table, err := ReadFile(filepath.Join("testdata", tt.file))
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if len(table.Records) != tt.rows {
				t.Errorf("expected %d records, got %d", tt.rows, len(table.Records))
			}
			if diff := cmp.Diff(tt.columns, table.Columns); diff != "" {
				t.Errorf("Columns mismatch (-want +got):\n%s", diff)
			}
			if got := types.Stringify(types.ResolveField(table.Records[1], "city")); got != "Split" {
				t.Errorf("second record city = %q, want Split", got)
			}
		})
	}
}

func TestNestedFieldsResolve(t *testing.T) {
	for _, file := range []string{"stops.json", "stops.yaml"} {
		table, err := ReadFile(filepath.Join("testdata", file))
		if err != nil {
			t.Fatalf("%s: %v", file, err)
		}
		if got := types.Stringify(types.ResolveField(table.Records[0], "address.postal_code")); got != "10000" {
			t.Errorf("%s: postal code = %q, want 10000", file, got)
		}
	}
}

func TestJSONKeepsNumbersExact(t *testing.T) {
	table, err := Decode(strings.NewReader(`[{"weight": 12.50, "count": 9007199254740993}]`), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if got := types.Stringify(table.Records[0]["count"]); got != "9007199254740993" {
		t.Errorf("count = %q", got)
	}
	if _, ok := table.Records[0]["weight"].(json.Number); !ok {
		t.Errorf("expected json.Number, got %T", table.Records[0]["weight"])
	}
	if got := types.Stringify(table.Records[0]["weight"]); got != "12.5" {
		t.Errorf("weight = %q, want 12.5", got)
	}
}

func TestDecodeEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		format  Format
		rows    int
		wantErr bool
	}{
		{"empty json", "  ", FormatJSON, 0, false},
		{"single json object", `{"id": "a"}`, FormatJSON, 1, false},
		{"empty array", `[]`, FormatJSON, 0, false},
		{"broken json", `[{"id": }]`, FormatJSON, 0, true},
		{"broken jsonl line", "{\"id\": 1}\nnope\n", FormatJSONL, 0, true},
		{"empty csv", "", FormatCSV, 0, false},
		{"header only csv", "id,city\n", FormatCSV, 0, false},
		{"multi document yaml", "id: a\n---\nid: b\n", FormatYAML, 2, false},
		{"scalar yaml", "just text\n", FormatYAML, 0, true},
		{"empty yaml", "", FormatYAML, 0, false},
		{"unknown format", "", Format("xml"), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Decode(strings.NewReader(tt.input), tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if table.Records == nil || table.Columns == nil {
				t.Error("Records and Columns must be non-nil")
			}
			if len(table.Records) != tt.rows {
				t.Errorf("expected %d records, got %d", tt.rows, len(table.Records))
			}
		})
	}
}

func TestCSVShortRowsAreBlank(t *testing.T) {
	table, err := ReadFile(filepath.Join("testdata", "stops.csv"))
	if err != nil {
		t.Fatal(err)
	}
	last := table.Records[2]
	if got := types.Stringify(last["driver"]); got != "" {
		t.Errorf("missing cell should be blank, got %q", got)
	}
	if got := types.Stringify(table.Records[1]["driver"]); got != "" {
		t.Errorf("empty cell should be blank, got %q", got)
	}
}

func TestIDOf(t *testing.T) {
	idOf := IDOf("id")

	if got := idOf(Record{"id": "o-1", "city": "Zagreb"}); got != "o-1" {
		t.Errorf("IDOf = %q, want o-1", got)
	}
	if got := idOf(Record{"id": json.Number("42")}); got != "42" {
		t.Errorf("IDOf = %q, want 42", got)
	}

	a := idOf(Record{"city": "Zagreb", "driver": "Ivo"})
	b := idOf(Record{"driver": "Ivo", "city": "Zagreb"})
	c := idOf(Record{"city": "Split", "driver": "Ivo"})
	if a != b {
		t.Errorf("content id must not depend on key order: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different records should get different content ids")
	}
	if len(a) != 36 {
		t.Errorf("expected a UUID, got %q", a)
	}
	if got := IDOf("")(Record{"city": "Zagreb", "driver": "Ivo"}); got != a {
		t.Errorf("empty field should fall back to the content id, got %q", got)
	}
}

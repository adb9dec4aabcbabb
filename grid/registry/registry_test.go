package registry

import (
	"errors"
	"testing"

	"github.com/arthur-debert/dispatchgrid/types"
	"github.com/google/go-cmp/cmp"
)

type vehicle struct {
	Plate    string `json:"plate"`
	Capacity int    `json:"capacity"`
	Depot    string `json:"depot"`
}

func vehicleColumns() []types.ColumnDef[vehicle] {
	return []types.ColumnDef[vehicle]{
		{Key: "plate", Label: "Plate", DisableFilter: true},
		{Key: "capacity", Label: "Capacity (kg)", WidthHint: 90},
		{Key: "depot", Label: "Depot", HiddenByDefault: true},
		{Key: "heavy", Label: "Heavy", ValueOf: func(v vehicle) any { return v.Capacity >= 3500 }},
	}
}

func TestNew(t *testing.T) {
	r, err := New(vehicleColumns()...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"plate", "capacity", "depot", "heavy"}, r.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if r.Len() != 4 {
		t.Errorf("expected 4 columns, got %d", r.Len())
	}
	if r.Position("depot") != 2 || r.Position("driver") != -1 {
		t.Errorf("unexpected positions %d / %d", r.Position("depot"), r.Position("driver"))
	}

	wantSpecs := []types.ColumnSpec{
		{Key: "plate", DefaultVisible: true},
		{Key: "capacity", DefaultVisible: true, WidthHint: 90},
		{Key: "depot", DefaultVisible: false},
		{Key: "heavy", DefaultVisible: true},
	}
	if diff := cmp.Diff(wantSpecs, r.Specs()); diff != "" {
		t.Errorf("Specs() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRejectsBadColumns(t *testing.T) {
	dup := append(vehicleColumns(), types.ColumnDef[vehicle]{Key: "plate"})
	if _, err := New(dup...); !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("expected ErrDuplicateColumn, got %v", err)
	}

	blank := []types.ColumnDef[vehicle]{{Key: "plate"}, {Label: "No key"}}
	if _, err := New(blank...); !errors.Is(err, ErrEmptyColumnKey) {
		t.Errorf("expected ErrEmptyColumnKey, got %v", err)
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected MustNew to panic on duplicate keys")
		}
	}()
	MustNew(types.ColumnDef[vehicle]{Key: "a"}, types.ColumnDef[vehicle]{Key: "a"})
}

func TestStringValue(t *testing.T) {
	r := MustNew(vehicleColumns()...)
	v := vehicle{Plate: "ZG-1234-AB", Capacity: 3500, Depot: "Sesvete"}

	tests := map[string]string{
		"plate":    "ZG-1234-AB",
		"capacity": "3500",
		"heavy":    "true",
		"unknown":  "",
	}
	for key, want := range tests {
		if got := r.StringValue(key, v); got != want {
			t.Errorf("StringValue(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestFilterable(t *testing.T) {
	r := MustNew(vehicleColumns()...)
	var keys []string
	for _, c := range r.Filterable() {
		keys = append(keys, c.Key)
	}
	if diff := cmp.Diff([]string{"capacity", "depot", "heavy"}, keys); diff != "" {
		t.Errorf("Filterable() mismatch (-want +got):\n%s", diff)
	}
}

func TestColumnsIsACopy(t *testing.T) {
	r := MustNew(vehicleColumns()...)
	cols := r.Columns()
	cols[0].Key = "mutated"
	if _, ok := r.Get("plate"); !ok {
		t.Error("mutating Columns() result changed the registry")
	}
}

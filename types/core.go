// Package types holds the data model shared by the grid engine, its storage
// backends and the CLI.
package types

import "sort"

// ColumnDef describes one column a table can show.
// The zero value of every flag is the common case: visible, sortable and
// filterable.
type ColumnDef[T any] struct {
	// Key is the stable column identifier used for layout persistence and
	// for filter/sort addressing. It must be unique within a table.
	Key string

	// Label is the header text
	Label string

	// HiddenByDefault hides the column until the user shows it
	HiddenByDefault bool

	// DisableSort excludes the column from header sorting
	DisableSort bool

	// DisableFilter excludes the column from value filters and menus
	DisableFilter bool

	// WidthHint is the initial pixel width; 0 means the global default
	WidthHint int

	// ValueOf extracts the cell value from a row. It must be pure.
	// nil reads row[Key] through ResolveField.
	ValueOf func(row T) any
}

// DefaultVisible reports whether the column is shown on a fresh layout
func (c ColumnDef[T]) DefaultVisible() bool { return !c.HiddenByDefault }

// Sortable reports whether clicking the header sorts by this column
func (c ColumnDef[T]) Sortable() bool { return !c.DisableSort }

// Filterable reports whether the column gets a value filter menu
func (c ColumnDef[T]) Filterable() bool { return !c.DisableFilter }

// Value returns the raw cell value for row
func (c ColumnDef[T]) Value(row T) any {
	if c.ValueOf != nil {
		return c.ValueOf(row)
	}
	return ResolveField(row, c.Key)
}

// StringValue returns the cell value converted with Stringify
func (c ColumnDef[T]) StringValue(row T) string {
	return Stringify(c.Value(row))
}

// ColumnSpec is the row-independent part of a ColumnDef, which is all the
// layout manager needs.
type ColumnSpec struct {
	Key            string
	DefaultVisible bool
	WidthHint      int
}

// Spec returns the layout-relevant part of the column
func (c ColumnDef[T]) Spec() ColumnSpec {
	return ColumnSpec{Key: c.Key, DefaultVisible: c.DefaultVisible(), WidthHint: c.WidthHint}
}

// LayoutState is the persisted per-table column layout.
type LayoutState struct {
	// Order is always a permutation of the live registry keys
	Order []string `json:"order" yaml:"order"`

	// Visible maps key -> shown; a missing key counts as shown
	Visible map[string]bool `json:"visible" yaml:"visible"`

	// Widths holds user-set pixel widths
	Widths map[string]int `json:"widths,omitempty" yaml:"widths,omitempty"`
}

// Clone returns a deep copy
func (l LayoutState) Clone() LayoutState {
	out := LayoutState{
		Order:   append([]string(nil), l.Order...),
		Visible: make(map[string]bool, len(l.Visible)),
		Widths:  make(map[string]int, len(l.Widths)),
	}
	for k, v := range l.Visible {
		out.Visible[k] = v
	}
	for k, v := range l.Widths {
		out.Widths[k] = v
	}
	return out
}

// ValueSet is a set of stringified cell values
type ValueSet map[string]struct{}

// NewValueSet builds a set from values
func NewValueSet(values ...string) ValueSet {
	s := make(ValueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership
func (s ValueSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Add inserts v
func (s ValueSet) Add(v string) { s[v] = struct{}{} }

// Remove deletes v
func (s ValueSet) Remove(v string) { delete(s, v) }

// Len returns the number of values
func (s ValueSet) Len() int { return len(s) }

// Sorted returns the values in byte order
func (s ValueSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// FilterState holds the transient per-column value filters and the global
// free-text query.
type FilterState struct {
	// Columns maps column key to the accepted values.
	// An empty or absent set means no restriction on that column.
	Columns map[string]ValueSet

	// GlobalQuery is matched case-insensitively against visible columns
	GlobalQuery string
}

// NewFilterState returns an empty filter state
func NewFilterState() FilterState {
	return FilterState{Columns: make(map[string]ValueSet)}
}

// Active reports whether key restricts rows
func (f FilterState) Active(key string) bool {
	return f.Columns[key].Len() > 0
}

// ActiveCount returns the number of restricting column filters
func (f FilterState) ActiveCount() int {
	n := 0
	for _, set := range f.Columns {
		if set.Len() > 0 {
			n++
		}
	}
	return n
}

// Toggle adds value to key's filter, or removes it if already present.
// It returns true when the value is selected afterwards.
func (f *FilterState) Toggle(key, value string) bool {
	if f.Columns == nil {
		f.Columns = make(map[string]ValueSet)
	}
	set := f.Columns[key]
	if set.Has(value) {
		set.Remove(value)
		if set.Len() == 0 {
			delete(f.Columns, key)
		}
		return false
	}
	if set == nil {
		set = make(ValueSet)
		f.Columns[key] = set
	}
	set.Add(value)
	return true
}

// Clear removes key's filter
func (f *FilterState) Clear(key string) {
	delete(f.Columns, key)
}

// ClearAll removes every column filter and the global query
func (f *FilterState) ClearAll() {
	f.Columns = make(map[string]ValueSet)
	f.GlobalQuery = ""
}

// Clone returns a deep copy
func (f FilterState) Clone() FilterState {
	out := FilterState{Columns: make(map[string]ValueSet, len(f.Columns)), GlobalQuery: f.GlobalQuery}
	for k, set := range f.Columns {
		cp := make(ValueSet, len(set))
		for v := range set {
			cp[v] = struct{}{}
		}
		out.Columns[k] = cp
	}
	return out
}

// SortDirection is the direction of the single active sort
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState is the single active sort. An empty key means input order.
type SortState struct {
	Key       string
	Direction SortDirection
}

// Active reports whether rows are reordered
func (s SortState) Active() bool {
	return s.Key != "" && s.Direction != SortNone
}

// Next returns the state after clicking key's header:
// unsorted -> asc -> desc -> unsorted, and a different key starts at asc.
func (s SortState) Next(key string) SortState {
	if s.Key != key || !s.Active() {
		return SortState{Key: key, Direction: SortAsc}
	}
	if s.Direction == SortAsc {
		return SortState{Key: key, Direction: SortDesc}
	}
	return SortState{}
}

// PageState is the pagination window. PageSize 0 shows all rows.
type PageState struct {
	PageSize    int
	CurrentPage int
}
